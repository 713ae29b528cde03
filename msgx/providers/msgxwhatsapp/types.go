package msgxwhatsapp

import "encoding/json"

// MessageType is the "type" tag of an outbound or inbound message
type MessageType string

const (
	TypeText        MessageType = "text"
	TypeImage       MessageType = "image"
	TypeVideo       MessageType = "video"
	TypeAudio       MessageType = "audio"
	TypeDocument    MessageType = "document"
	TypeSticker     MessageType = "sticker"
	TypeLocation    MessageType = "location"
	TypeInteractive MessageType = "interactive"
	TypeTemplate    MessageType = "template"
	TypeReaction    MessageType = "reaction"
	TypeButton      MessageType = "button"
	TypeSystem      MessageType = "system"
	TypeOrder       MessageType = "order"
	TypeReferral    MessageType = "referral"
	TypeContext     MessageType = "context"
	TypeContacts    MessageType = "contacts"
	TypeUnsupported MessageType = "unsupported"
)

// ========== Outbound ==========

// OutboundMessage is the request body of POST /{version}/{phone-number-id}/messages.
// Exactly one of the per-type fields is set, matching Type.
type OutboundMessage struct {
	MessagingProduct string             `json:"messaging_product"`
	RecipientType    string             `json:"recipient_type"`
	To               string             `json:"to"`
	Type             MessageType        `json:"type"`
	Context          *ReplyContext      `json:"context,omitempty"`
	Text             *TextObject        `json:"text,omitempty"`
	Image            *MediaObject       `json:"image,omitempty"`
	Video            *MediaObject       `json:"video,omitempty"`
	Audio            *MediaObject       `json:"audio,omitempty"`
	Document         *MediaObject       `json:"document,omitempty"`
	Sticker          *MediaObject       `json:"sticker,omitempty"`
	Location         *LocationObject    `json:"location,omitempty"`
	Interactive      *InteractiveObject `json:"interactive,omitempty"`
	Template         *TemplateObject    `json:"template,omitempty"`
	Reaction         *ReactionObject    `json:"reaction,omitempty"`
}

// ReplyContext quotes an earlier message
type ReplyContext struct {
	MessageID string `json:"message_id"`
}

// TextObject is the text payload. preview_url is always sent.
type TextObject struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// Media describes an image, video, audio, document or sticker by uploaded
// media ID or public link. Caption applies to image, video and document;
// Filename to document only.
type Media struct {
	ID       string
	Link     string
	Caption  string
	Filename string
}

// MediaObject is the wire form of Media
type MediaObject struct {
	ID       string `json:"id,omitempty"`
	Link     string `json:"link,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Location is a pin with optional name and address
type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
	Address   string
}

type LocationObject struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// ListSection is one titled group of rows in an interactive list
type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}

type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type InteractiveObject struct {
	Type   string            `json:"type"`
	Body   InteractiveBody   `json:"body"`
	Action InteractiveAction `json:"action"`
}

type InteractiveBody struct {
	Text string `json:"text"`
}

type InteractiveAction struct {
	Button   string        `json:"button,omitempty"`
	Buttons  []ReplyButton `json:"buttons,omitempty"`
	Sections []ListSection `json:"sections,omitempty"`
}

type ReplyButton struct {
	Type  string     `json:"type"`
	Reply ReplyTitle `json:"reply"`
}

type ReplyTitle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Template references an approved message template
type Template struct {
	Name         string
	LanguageCode string
	Components   []TemplateComponent
}

type TemplateObject struct {
	Name       string              `json:"name"`
	Language   TemplateLanguage    `json:"language"`
	Components []TemplateComponent `json:"components,omitempty"`
}

type TemplateLanguage struct {
	Code string `json:"code"`
}

// TemplateComponent fills the parameters of one template section (header,
// body or button)
type TemplateComponent struct {
	Type       string              `json:"type"`
	SubType    string              `json:"sub_type,omitempty"`
	Index      string              `json:"index,omitempty"`
	Parameters []TemplateParameter `json:"parameters"`
}

type TemplateParameter struct {
	Type     string            `json:"type"`
	Text     string            `json:"text,omitempty"`
	Payload  string            `json:"payload,omitempty"`
	Currency *TemplateCurrency `json:"currency,omitempty"`
	DateTime *TemplateDateTime `json:"date_time,omitempty"`
	Image    *MediaObject      `json:"image,omitempty"`
	Document *MediaObject      `json:"document,omitempty"`
	Video    *MediaObject      `json:"video,omitempty"`
}

type TemplateCurrency struct {
	FallbackValue string `json:"fallback_value"`
	Code          string `json:"code"`
	Amount1000    int64  `json:"amount_1000"`
}

type TemplateDateTime struct {
	FallbackValue string `json:"fallback_value"`
}

type ReactionObject struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// SendResponse is the decoded success body of a send
type SendResponse struct {
	MessagingProduct string        `json:"messaging_product"`
	Contacts         []SendContact `json:"contacts"`
	Messages         []SentMessage `json:"messages"`
}

type SendContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

type SentMessage struct {
	ID            string `json:"id"`
	MessageStatus string `json:"message_status,omitempty"`
}

// MessageID returns the id of the first accepted message, or ""
func (r *SendResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

// readReceipt is the body of a mark-as-read request
type readReceipt struct {
	MessagingProduct string           `json:"messaging_product"`
	Status           string           `json:"status"`
	MessageID        string           `json:"message_id"`
	TypingIndicator  *typingIndicator `json:"typing_indicator,omitempty"`
}

type typingIndicator struct {
	Type string `json:"type"`
}

// ReadResponse is the decoded success body of a mark-as-read request
type ReadResponse struct {
	Success bool `json:"success"`
}

// MediaInfo is the metadata returned when resolving a media id
type MediaInfo struct {
	MessagingProduct string `json:"messaging_product,omitempty"`
	URL              string `json:"url"`
	MimeType         string `json:"mime_type"`
	Sha256           string `json:"sha256"`
	FileSize         int64  `json:"file_size"`
	ID               string `json:"id"`
}

// UploadResponse is the decoded body of a media upload
type UploadResponse struct {
	ID string `json:"id"`
}

// ========== Inbound ==========

// WebhookObject is the only accepted value of WebhookNotification.Object
const WebhookObject = "whatsapp_business_account"

type WebhookNotification struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Value Value  `json:"value"`
	Field string `json:"field"`
}

type Value struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Contacts         []Contact        `json:"contacts,omitempty"`
	Messages         []InboundMessage `json:"messages,omitempty"`
	Statuses         []DeliveryStatus `json:"statuses,omitempty"`
	Errors           []WebhookError   `json:"errors,omitempty"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is the sender profile of a change. Raw holds the object as it was
// received and is what Contact encodes back to.
type Contact struct {
	Profile Profile         `json:"profile"`
	WaID    string          `json:"wa_id"`
	Raw     json.RawMessage `json:"-"`
}

type Profile struct {
	Name string `json:"name"`
}

// InboundMessage is one message from a user. Content holds the payload
// selected by Type, or nil when the type carries no known payload.
type InboundMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        MessageType         `json:"type"`
	Text        *InboundText        `json:"text,omitempty"`
	Image       *InboundMedia       `json:"image,omitempty"`
	Video       *InboundMedia       `json:"video,omitempty"`
	Audio       *InboundMedia       `json:"audio,omitempty"`
	Document    *InboundMedia       `json:"document,omitempty"`
	Sticker     *InboundMedia       `json:"sticker,omitempty"`
	Location    *InboundLocation    `json:"location,omitempty"`
	Interactive *InboundInteractive `json:"interactive,omitempty"`
	Button      *InboundButton      `json:"button,omitempty"`
	System      *InboundSystem      `json:"system,omitempty"`
	Order       *InboundOrder       `json:"order,omitempty"`
	Referral    *InboundReferral    `json:"referral,omitempty"`
	Context     *InboundContext     `json:"context,omitempty"`
	Reaction    *InboundReaction    `json:"reaction,omitempty"`
	Contacts    []ContactCard       `json:"contacts,omitempty"`
	Errors      []WebhookError      `json:"errors,omitempty"`
	Content     any                 `json:"content"`
	// Raw is the message as received. Fields that could not be decoded
	// into the typed view are still here.
	Raw json.RawMessage `json:"-"`
}

type InboundText struct {
	Body string `json:"body"`
}

// InboundMedia covers image, video, audio, document and sticker payloads
type InboundMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
	Animated bool   `json:"animated,omitempty"`
	Voice    bool   `json:"voice,omitempty"`
}

type InboundLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
	URL       string  `json:"url,omitempty"`
}

// InboundInteractive is a user's answer to a button or list message
type InboundInteractive struct {
	Type        string      `json:"type"`
	ButtonReply *ReplyTitle `json:"button_reply,omitempty"`
	ListReply   *ListReply  `json:"list_reply,omitempty"`
}

type ListReply struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// InboundButton is a tap on a template quick-reply button
type InboundButton struct {
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

type InboundSystem struct {
	Body     string `json:"body"`
	Type     string `json:"type"`
	Identity string `json:"identity,omitempty"`
	WaID     string `json:"wa_id,omitempty"`
	Customer string `json:"customer,omitempty"`
}

type InboundOrder struct {
	CatalogID    string         `json:"catalog_id"`
	Text         string         `json:"text,omitempty"`
	ProductItems []OrderProduct `json:"product_items"`
}

type OrderProduct struct {
	ProductRetailerID string  `json:"product_retailer_id"`
	Quantity          int     `json:"quantity"`
	ItemPrice         float64 `json:"item_price"`
	Currency          string  `json:"currency"`
}

// InboundReferral is attached when a user messages from an ad
type InboundReferral struct {
	SourceURL    string `json:"source_url"`
	SourceID     string `json:"source_id"`
	SourceType   string `json:"source_type"`
	Headline     string `json:"headline,omitempty"`
	Body         string `json:"body,omitempty"`
	MediaType    string `json:"media_type,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	CtwaClid     string `json:"ctwa_clid,omitempty"`
}

// InboundContext links a message to the one it replies to or forwards
type InboundContext struct {
	From                string           `json:"from,omitempty"`
	ID                  string           `json:"id,omitempty"`
	Forwarded           bool             `json:"forwarded,omitempty"`
	FrequentlyForwarded bool             `json:"frequently_forwarded,omitempty"`
	ReferredProduct     *ReferredProduct `json:"referred_product,omitempty"`
}

type ReferredProduct struct {
	CatalogID         string `json:"catalog_id"`
	ProductRetailerID string `json:"product_retailer_id"`
}

type InboundReaction struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji,omitempty"`
}

// ContactCard is one contact shared in an inbound "contacts" message
type ContactCard struct {
	Name      ContactName      `json:"name"`
	Phones    []ContactPhone   `json:"phones,omitempty"`
	Emails    []ContactEmail   `json:"emails,omitempty"`
	Addresses []ContactAddress `json:"addresses,omitempty"`
	Org       *ContactOrg      `json:"org,omitempty"`
	URLs      []ContactURL     `json:"urls,omitempty"`
	Birthday  string           `json:"birthday,omitempty"`
}

type ContactName struct {
	FormattedName string `json:"formatted_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	MiddleName    string `json:"middle_name,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
}

type ContactPhone struct {
	Phone string `json:"phone"`
	Type  string `json:"type,omitempty"`
	WaID  string `json:"wa_id,omitempty"`
}

type ContactEmail struct {
	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
}

type ContactAddress struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Type        string `json:"type,omitempty"`
}

type ContactOrg struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
}

type ContactURL struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// Delivery status values
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

// DeliveryStatus reports the progress of an outbound message. Raw holds the
// object as it was received and is what DeliveryStatus encodes back to.
type DeliveryStatus struct {
	ID                    string          `json:"id"`
	Status                string          `json:"status"`
	Timestamp             string          `json:"timestamp"`
	RecipientID           string          `json:"recipient_id"`
	Conversation          *Conversation   `json:"conversation,omitempty"`
	Pricing               *Pricing        `json:"pricing,omitempty"`
	BizOpaqueCallbackData string          `json:"biz_opaque_callback_data,omitempty"`
	Errors                []WebhookError  `json:"errors,omitempty"`
	Raw                   json.RawMessage `json:"-"`
}

type Conversation struct {
	ID                  string             `json:"id"`
	ExpirationTimestamp string             `json:"expiration_timestamp,omitempty"`
	Origin              ConversationOrigin `json:"origin"`
}

type ConversationOrigin struct {
	Type string `json:"type"`
}

type Pricing struct {
	Billable     bool   `json:"billable"`
	PricingModel string `json:"pricing_model"`
	Category     string `json:"category"`
}

// WebhookError is an error reported inside a notification
type WebhookError struct {
	Code      int               `json:"code"`
	Title     string            `json:"title"`
	Message   string            `json:"message,omitempty"`
	ErrorData *WebhookErrorData `json:"error_data,omitempty"`
}

type WebhookErrorData struct {
	Details string `json:"details"`
}

// WebhookResult is a flattened notification. The slices are never nil.
type WebhookResult struct {
	Messages []InboundMessage `json:"messages"`
	Statuses []DeliveryStatus `json:"statuses"`
	Contacts []Contact        `json:"contacts"`
}
