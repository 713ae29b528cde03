package msgxwhatsapp

import (
	"context"

	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx"
)

// NotificationHandler receives each normalized delivery
type NotificationHandler func(ctx context.Context, result *WebhookResult) error

// ReceiverConfig holds the webhook secrets of an app
type ReceiverConfig struct {
	// VerifyToken is the token configured for the subscription handshake
	VerifyToken string
	// AppSecret enables X-Hub-Signature-256 checks when non-empty
	AppSecret string
}

// WebhookReceiver adapts the verifier and normalizer to msgx.Receiver
type WebhookReceiver struct {
	config  ReceiverConfig
	handler NotificationHandler
}

var _ msgx.Receiver = (*WebhookReceiver)(nil)

// NewWebhookReceiver creates a receiver. A nil handler accepts and drops
// every delivery.
func NewWebhookReceiver(config ReceiverConfig, handler NotificationHandler) *WebhookReceiver {
	if config.AppSecret == "" {
		logx.Warn("WhatsApp webhook receiver has no app secret; delivery signatures are not checked")
	}
	return &WebhookReceiver{config: config, handler: handler}
}

func (r *WebhookReceiver) GetProviderName() string {
	return providerName
}

func (r *WebhookReceiver) SignatureHeader() string {
	return SignatureHeader
}

func (r *WebhookReceiver) VerifySubscription(mode, token, challenge string) (string, bool) {
	return VerifyWebhook(mode, token, challenge, r.config.VerifyToken)
}

func (r *WebhookReceiver) VerifySignature(signature string, body []byte) error {
	if r.config.AppSecret == "" {
		return nil
	}
	return VerifySignature(r.config.AppSecret, signature, body)
}

func (r *WebhookReceiver) HandleNotification(ctx context.Context, body []byte) error {
	result, err := HandleWebhook(body)
	if err != nil {
		return err
	}
	logx.Debug("WhatsApp delivery: %d messages, %d statuses, %d contacts",
		len(result.Messages), len(result.Statuses), len(result.Contacts))

	if r.handler == nil {
		return nil
	}
	return r.handler(ctx, result)
}

// Dispatch returns a NotificationHandler that calls onMessage for every
// message and onStatus for every status, in order, stopping at the first
// error. Either callback may be nil.
func Dispatch(
	onMessage func(ctx context.Context, msg InboundMessage) error,
	onStatus func(ctx context.Context, status DeliveryStatus) error,
) NotificationHandler {
	return func(ctx context.Context, result *WebhookResult) error {
		if onMessage != nil {
			for _, m := range result.Messages {
				if err := onMessage(ctx, m); err != nil {
					return err
				}
			}
		}
		if onStatus != nil {
			for _, s := range result.Statuses {
				if err := onStatus(ctx, s); err != nil {
					return err
				}
			}
		}
		return nil
	}
}
