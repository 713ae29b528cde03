// Command wacloud-lambda serves the WhatsApp webhook from AWS Lambda behind
// API Gateway. Inbound media is archived to S3 when WHATSAPP_MEDIA_BUCKET is
// set.
package main

import (
	"context"
	"os"

	"github.com/Abraxas-365/wacloud/configx"
	"github.com/Abraxas-365/wacloud/fsx"
	"github.com/Abraxas-365/wacloud/fsx/providers/fsxs3"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx/msgxlambda"
	"github.com/Abraxas-365/wacloud/msgx/providers/msgxwhatsapp"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	if os.Getenv("LOG_FORMAT") == "" {
		logx.SetFormat(logx.FormatCloudWatch)
	}

	cfg, err := configx.NewBuilder().
		WithDefaults(map[string]string{"api_version": msgxwhatsapp.DefaultAPIVersion}).
		FromEnv("WHATSAPP_").
		Require("verify_token").
		Build()
	if err != nil {
		logx.Fatal("Configuration error: %v", err)
	}

	archiver, err := newArchiver(context.Background(), cfg)
	if err != nil {
		logx.Fatal("Media archive setup failed: %v", err)
	}

	receiver := msgxwhatsapp.NewWebhookReceiver(msgxwhatsapp.ReceiverConfig{
		VerifyToken: cfg.Get("verify_token").AsString(),
		AppSecret:   cfg.Get("app_secret").AsString(),
	}, msgxwhatsapp.Dispatch(archiver.onMessage, onStatus))

	lambda.Start(msgxlambda.NewHandler(receiver))
}

// archiver saves inbound media. Without a client or store it only logs.
type archiver struct {
	client *msgxwhatsapp.Client
	store  fsx.FileSystem
}

func newArchiver(ctx context.Context, cfg configx.Config) (*archiver, error) {
	bucket := cfg.Get("media_bucket").AsString()
	if bucket == "" {
		return &archiver{}, nil
	}

	client, err := msgxwhatsapp.NewClient(msgxwhatsapp.Config{
		AccessToken:   cfg.Get("token").AsString(),
		PhoneNumberID: cfg.Get("number_id").AsString(),
		APIVersion:    cfg.Get("api_version").AsString(),
	})
	if err != nil {
		return nil, err
	}
	store, err := fsxs3.NewFromDefaultConfig(ctx, bucket, cfg.Get("media_prefix").AsString())
	if err != nil {
		return nil, err
	}
	return &archiver{client: client, store: store}, nil
}

func (a *archiver) onMessage(ctx context.Context, msg msgxwhatsapp.InboundMessage) error {
	log := logx.With("message_id", msg.ID)
	log.Info("Message from %s (type: %s)", msg.From, msg.Type)

	media, ok := msg.Content.(*msgxwhatsapp.InboundMedia)
	if !ok || a.store == nil {
		return nil
	}
	// a failed archive must not trigger redelivery of the whole notification
	if _, err := a.client.SaveMedia(ctx, a.store, media.ID, ""); err != nil {
		log.Error("Archiving %s %s failed: %v", msg.Type, media.ID, err)
	}
	return nil
}

func onStatus(_ context.Context, status msgxwhatsapp.DeliveryStatus) error {
	logx.With("message_id", status.ID).Info("Status %s for %s", status.Status, status.RecipientID)
	return nil
}
