package msgxwhatsapp

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx"
)

// VerifyWebhook checks a subscription handshake. It returns the challenge
// and true only when mode is "subscribe", token equals verifyToken and mode,
// token and challenge are all non-empty.
func VerifyWebhook(mode, token, challenge, verifyToken string) (string, bool) {
	if mode == "" || token == "" || challenge == "" {
		return "", false
	}
	if mode != "subscribe" || token != verifyToken {
		return "", false
	}
	return challenge, true
}

func invalidPayload(message string) *errx.Error {
	return msgx.Registry.NewWithMessage(msgx.ErrInvalidPayload, message).
		WithDetail("provider", providerName)
}

// HandleWebhook parses a raw notification body and normalizes it. Only
// malformed JSON is rejected. A value of an unexpected JSON type leaves its
// typed field empty and the rest of the notification is kept.
func HandleWebhook(payload []byte) (*WebhookResult, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, invalidPayload("payload must be an object")
	}

	var n WebhookNotification
	if err := json.Unmarshal(trimmed, &n); err != nil {
		if !isTypeError(err) {
			return nil, invalidPayload("payload is not valid JSON").WithCause(err)
		}
		logx.Warn("WhatsApp notification decoded partially: %v", err)
	}
	return Normalize(&n)
}

func isTypeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

// decodeLenient fills v from data and keeps going past type mismatches, so
// one odd field does not cost the whole item
func decodeLenient(kind string, data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err != nil && isTypeError(err) {
		logx.Warn("WhatsApp %s decoded partially: %v", kind, err)
		return nil
	}
	return err
}

func (m *InboundMessage) UnmarshalJSON(data []byte) error {
	type plain InboundMessage
	m.Raw = append(json.RawMessage(nil), data...)
	return decodeLenient("message", data, (*plain)(m))
}

func (s *DeliveryStatus) UnmarshalJSON(data []byte) error {
	type plain DeliveryStatus
	s.Raw = append(json.RawMessage(nil), data...)
	return decodeLenient("status", data, (*plain)(s))
}

// MarshalJSON writes the status as received when it came from a webhook
func (s DeliveryStatus) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	type plain DeliveryStatus
	return json.Marshal(plain(s))
}

func (c *Contact) UnmarshalJSON(data []byte) error {
	type plain Contact
	c.Raw = append(json.RawMessage(nil), data...)
	return decodeLenient("contact", data, (*plain)(c))
}

// MarshalJSON writes the contact as received when it came from a webhook
func (c Contact) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type plain Contact
	return json.Marshal(plain(c))
}

// Normalize flattens every entry and change of n into one result. Messages,
// statuses and contacts keep the order in which they appear. Missing arrays
// count as empty.
func Normalize(n *WebhookNotification) (*WebhookResult, error) {
	if n == nil {
		return nil, invalidPayload("payload must be an object")
	}
	if n.Object != WebhookObject {
		return nil, invalidPayload("invalid object type").WithDetail("object", n.Object)
	}

	result := &WebhookResult{
		Messages: []InboundMessage{},
		Statuses: []DeliveryStatus{},
		Contacts: []Contact{},
	}

	for _, entry := range n.Entry {
		for _, change := range entry.Changes {
			v := change.Value
			for _, m := range v.Messages {
				m.Content = contentOf(&m)
				result.Messages = append(result.Messages, m)
			}
			result.Statuses = append(result.Statuses, v.Statuses...)
			result.Contacts = append(result.Contacts, v.Contacts...)
		}
	}
	return result, nil
}

// contentByType selects the payload field named by an inbound message's type
var contentByType = map[MessageType]func(*InboundMessage) any{
	TypeText:        func(m *InboundMessage) any { return present(m.Text) },
	TypeImage:       func(m *InboundMessage) any { return present(m.Image) },
	TypeVideo:       func(m *InboundMessage) any { return present(m.Video) },
	TypeAudio:       func(m *InboundMessage) any { return present(m.Audio) },
	TypeDocument:    func(m *InboundMessage) any { return present(m.Document) },
	TypeSticker:     func(m *InboundMessage) any { return present(m.Sticker) },
	TypeLocation:    func(m *InboundMessage) any { return present(m.Location) },
	TypeInteractive: func(m *InboundMessage) any { return present(m.Interactive) },
	TypeButton:      func(m *InboundMessage) any { return present(m.Button) },
	TypeSystem:      func(m *InboundMessage) any { return present(m.System) },
	TypeOrder:       func(m *InboundMessage) any { return present(m.Order) },
	TypeReferral:    func(m *InboundMessage) any { return present(m.Referral) },
	TypeContext:     func(m *InboundMessage) any { return present(m.Context) },
	TypeReaction:    func(m *InboundMessage) any { return present(m.Reaction) },
	TypeContacts:    contactCards,
}

func contactCards(m *InboundMessage) any {
	if len(m.Contacts) == 0 {
		return nil
	}
	return m.Contacts
}

// contentOf returns the payload for m.Type, or nil for unknown types and
// absent payloads
func contentOf(m *InboundMessage) any {
	if pick, ok := contentByType[m.Type]; ok {
		return pick(m)
	}
	return nil
}

// present converts a nil pointer to an untyped nil so callers can compare
// Content against nil
func present[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}
