package msgxwhatsapp

import (
	"fmt"
	"strconv"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx"
)

const (
	messagingProduct    = "whatsapp"
	recipientIndividual = "individual"
)

// invalidMessage builds the validation error returned before any request is sent
func invalidMessage(format string, args ...any) *errx.Error {
	return msgx.Registry.NewWithMessage(msgx.ErrInvalidMessage, fmt.Sprintf(format, args...)).
		WithDetail("provider", providerName)
}

// NewOutbound wraps a payload-less envelope addressed to one recipient
func NewOutbound(to string, messageType MessageType) *OutboundMessage {
	return &OutboundMessage{
		MessagingProduct: messagingProduct,
		RecipientType:    recipientIndividual,
		To:               to,
		Type:             messageType,
	}
}

// BuildText returns the text payload
func BuildText(body string, previewURL bool) *TextObject {
	return &TextObject{PreviewURL: previewURL, Body: body}
}

// BuildMedia validates m for kind and returns its wire form. When both ID and
// Link are set the ID is used and the link is dropped.
func BuildMedia(kind MessageType, m Media) (*MediaObject, error) {
	switch kind {
	case TypeImage, TypeVideo, TypeAudio, TypeDocument, TypeSticker:
	default:
		return nil, invalidMessage("%s is not a media type", kind)
	}

	if m.ID == "" && m.Link == "" {
		return nil, invalidMessage("%s id or link required", kind)
	}
	if kind == TypeDocument && m.Filename == "" {
		return nil, invalidMessage("document filename required")
	}

	obj := &MediaObject{ID: m.ID, Link: m.Link}
	if m.ID != "" && m.Link != "" {
		logx.Warn("%s has both id %s and link; sending by id", kind, m.ID)
		obj.Link = ""
	}

	switch kind {
	case TypeImage, TypeVideo:
		obj.Caption = m.Caption
	case TypeDocument:
		obj.Caption = m.Caption
		obj.Filename = m.Filename
	}
	return obj, nil
}

// BuildLocation returns the location payload; empty name and address are omitted
func BuildLocation(l Location) *LocationObject {
	return &LocationObject{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Name:      l.Name,
		Address:   l.Address,
	}
}

// BuildButtons returns a reply-button interactive payload. Buttons get the
// ids button_0, button_1, ... in the order given.
func BuildButtons(body string, titles []string) (*InteractiveObject, error) {
	if len(titles) == 0 {
		return nil, invalidMessage("at least one button required")
	}

	buttons := make([]ReplyButton, len(titles))
	for i, title := range titles {
		buttons[i] = ReplyButton{
			Type:  "reply",
			Reply: ReplyTitle{ID: "button_" + strconv.Itoa(i), Title: title},
		}
	}

	return &InteractiveObject{
		Type:   "button",
		Body:   InteractiveBody{Text: body},
		Action: InteractiveAction{Buttons: buttons},
	}, nil
}

// BuildList returns a list interactive payload. Sections and rows are sent as
// given; platform limits on their number and length are enforced remotely.
func BuildList(body, buttonText string, sections []ListSection) *InteractiveObject {
	return &InteractiveObject{
		Type:   "list",
		Body:   InteractiveBody{Text: body},
		Action: InteractiveAction{Button: buttonText, Sections: sections},
	}
}

// BuildTemplate validates and returns the template payload
func BuildTemplate(t Template) (*TemplateObject, error) {
	if t.Name == "" {
		return nil, invalidMessage("template name required")
	}
	if t.LanguageCode == "" {
		return nil, invalidMessage("template language code required")
	}
	return &TemplateObject{
		Name:       t.Name,
		Language:   TemplateLanguage{Code: t.LanguageCode},
		Components: t.Components,
	}, nil
}

// BuildReaction returns the reaction payload. An empty emoji removes an
// earlier reaction.
func BuildReaction(messageID, emoji string) (*ReactionObject, error) {
	if messageID == "" {
		return nil, invalidMessage("reaction message id required")
	}
	return &ReactionObject{MessageID: messageID, Emoji: emoji}, nil
}

// setMedia places obj in the field matching kind
func (m *OutboundMessage) setMedia(kind MessageType, obj *MediaObject) {
	switch kind {
	case TypeImage:
		m.Image = obj
	case TypeVideo:
		m.Video = obj
	case TypeAudio:
		m.Audio = obj
	case TypeDocument:
		m.Document = obj
	case TypeSticker:
		m.Sticker = obj
	}
}
