package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abraxas-365/wacloud/fsx"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx/providers/msgxwhatsapp"
)

// botClient is the part of *msgxwhatsapp.Client the processor uses
type botClient interface {
	SendText(ctx context.Context, to, body string, opts ...msgxwhatsapp.SendOption) (*msgxwhatsapp.SendResponse, error)
	MarkMessageAsRead(ctx context.Context, messageID string) (*msgxwhatsapp.ReadResponse, error)
	SaveMedia(ctx context.Context, fs fsx.FileSystem, mediaID, path string) (*msgxwhatsapp.MediaInfo, error)
}

// MessageProcessor answers inbound messages with a small command set and
// optionally stores inbound media
type MessageProcessor struct {
	client botClient
	store  fsx.FileSystem
}

// NewMessageProcessor creates a processor. A nil store disables media saving.
func NewMessageProcessor(client botClient, store fsx.FileSystem) *MessageProcessor {
	return &MessageProcessor{client: client, store: store}
}

// Handler returns a notification handler that never fails the delivery:
// processing errors are logged so the platform does not redeliver.
func (mp *MessageProcessor) Handler() msgxwhatsapp.NotificationHandler {
	return msgxwhatsapp.Dispatch(
		func(ctx context.Context, msg msgxwhatsapp.InboundMessage) error {
			if err := mp.ProcessMessage(ctx, msg); err != nil {
				logx.Error("Processing message %s from %s failed: %v", msg.ID, msg.From, err)
			}
			return nil
		},
		func(_ context.Context, status msgxwhatsapp.DeliveryStatus) error {
			mp.ProcessStatus(status)
			return nil
		},
	)
}

// ProcessMessage processes one inbound message
func (mp *MessageProcessor) ProcessMessage(ctx context.Context, msg msgxwhatsapp.InboundMessage) error {
	logx.Info("Processing message from %s (type: %s)", msg.From, msg.Type)

	if _, err := mp.client.MarkMessageAsRead(ctx, msg.ID); err != nil {
		logx.Warn("Could not mark %s as read: %v", msg.ID, err)
	}

	switch content := msg.Content.(type) {
	case *msgxwhatsapp.InboundText:
		return mp.sendReply(ctx, msg, replyToText(content.Body))
	case *msgxwhatsapp.InboundMedia:
		return mp.handleMedia(ctx, msg, content)
	case *msgxwhatsapp.InboundInteractive:
		switch {
		case content.ButtonReply != nil:
			return mp.sendReply(ctx, msg, "You chose: "+content.ButtonReply.Title)
		case content.ListReply != nil:
			return mp.sendReply(ctx, msg, "You chose: "+content.ListReply.Title)
		}
	case *msgxwhatsapp.InboundLocation:
		return mp.sendReply(ctx, msg, fmt.Sprintf("Got your location (%.5f, %.5f)", content.Latitude, content.Longitude))
	case *msgxwhatsapp.InboundReaction, *msgxwhatsapp.InboundSystem:
		return nil
	}
	return mp.sendReply(ctx, msg, fmt.Sprintf("Received a %s message. Thanks!", msg.Type))
}

func replyToText(text string) string {
	switch strings.TrimSpace(text) {
	case "/help":
		return "Available commands:\n/help - Show this help\n/info - Get bot info\n/echo <text> - Echo your message"
	case "/info":
		return "wacloud bot\nPowered by the WhatsApp Cloud API"
	}
	if echo, ok := strings.CutPrefix(text, "/echo"); ok && strings.TrimSpace(echo) != "" {
		return "Echo: " + strings.TrimSpace(echo)
	}
	return fmt.Sprintf("You said: %s\n\nSend /help for available commands.", text)
}

func (mp *MessageProcessor) handleMedia(ctx context.Context, msg msgxwhatsapp.InboundMessage, media *msgxwhatsapp.InboundMedia) error {
	reply := fmt.Sprintf("Received a %s!", msg.Type)
	if media.Caption != "" {
		reply += "\nCaption: " + media.Caption
	}

	if mp.store != nil {
		if _, err := mp.client.SaveMedia(ctx, mp.store, media.ID, ""); err != nil {
			logx.Error("Saving %s %s failed: %v", msg.Type, media.ID, err)
		} else {
			reply += "\nSaved."
		}
	}
	return mp.sendReply(ctx, msg, reply)
}

func (mp *MessageProcessor) sendReply(ctx context.Context, msg msgxwhatsapp.InboundMessage, text string) error {
	resp, err := mp.client.SendText(ctx, msg.From, text, msgxwhatsapp.WithReplyTo(msg.ID))
	if err != nil {
		return err
	}
	logx.Info("Sent reply to %s (message ID: %s)", msg.From, resp.MessageID())
	return nil
}

// ProcessStatus logs a delivery status update
func (mp *MessageProcessor) ProcessStatus(status msgxwhatsapp.DeliveryStatus) {
	log := logx.With("message_id", status.ID)
	if status.Status == msgxwhatsapp.StatusFailed {
		for _, e := range status.Errors {
			log.Error("Delivery to %s failed: %d %s", status.RecipientID, e.Code, e.Title)
		}
		return
	}
	log.Info("Message to %s is %s", status.RecipientID, status.Status)
}
