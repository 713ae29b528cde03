package msgxwhatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx"
)

const (
	// DefaultAPIVersion is the Graph API version used when none is configured
	DefaultAPIVersion = "v22.0"
	// DefaultBaseURL is the Graph API host
	DefaultBaseURL = "https://graph.facebook.com"

	providerName = "whatsapp"
)

// Config holds the connection settings of a Client. It is fixed for the
// lifetime of the client.
//
// HTTPTimeout bounds every request, reading the response body included, so
// it also caps media downloads. Zero leaves calls bounded only by their
// context.
type Config struct {
	AccessToken   string        `json:"access_token"`
	PhoneNumberID string        `json:"phone_number_id"`
	APIVersion    string        `json:"api_version,omitempty"`
	BaseURL       string        `json:"base_url,omitempty"`
	HTTPTimeout   time.Duration `json:"http_timeout,omitempty"`
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. HTTPTimeout is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client sends messages on behalf of one business phone number. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	media      *MediaResolver
}

// NewClient creates a client. AccessToken and PhoneNumberID are required.
func NewClient(config Config, opts ...Option) (*Client, error) {
	if config.AccessToken == "" || config.PhoneNumberID == "" {
		return nil, msgx.Registry.NewWithMessage(msgx.ErrProviderConfigInvalid,
			"access token and phone number id are required").
			WithDetail("provider", providerName)
	}
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.media = NewMediaResolver(MediaConfig{
		APIVersion:    config.APIVersion,
		BaseURL:       config.BaseURL,
		PhoneNumberID: config.PhoneNumberID,
		HTTPClient:    c.httpClient,
	})
	return c, nil
}

// GetProviderName returns the provider name
func (c *Client) GetProviderName() string {
	return providerName
}

// Config returns the effective configuration
func (c *Client) Config() Config {
	return c.config
}

// Media returns the resolver bound to this client's API version and host
func (c *Client) Media() *MediaResolver {
	return c.media
}

// ========== Send options ==========

type sendOptions struct {
	previewURL bool
	replyTo    string
}

// SendOption adjusts a single send
type SendOption func(*sendOptions)

// WithPreviewURL asks WhatsApp to render a preview of the first URL in a text body
func WithPreviewURL() SendOption {
	return func(o *sendOptions) {
		o.previewURL = true
	}
}

// WithReplyTo sends the message as a reply quoting messageID
func WithReplyTo(messageID string) SendOption {
	return func(o *sendOptions) {
		o.replyTo = messageID
	}
}

func applySendOptions(opts []SendOption) sendOptions {
	var o sendOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ========== Sends ==========

// SendText sends a text message
func (c *Client) SendText(ctx context.Context, to, body string, opts ...SendOption) (*SendResponse, error) {
	o := applySendOptions(opts)
	msg := NewOutbound(to, TypeText)
	msg.Text = BuildText(body, o.previewURL)
	return c.send(ctx, msg, o)
}

func (c *Client) SendImage(ctx context.Context, to string, image Media, opts ...SendOption) (*SendResponse, error) {
	return c.sendMedia(ctx, to, TypeImage, image, opts)
}

func (c *Client) SendVideo(ctx context.Context, to string, video Media, opts ...SendOption) (*SendResponse, error) {
	return c.sendMedia(ctx, to, TypeVideo, video, opts)
}

// SendAudio sends an audio message. Captions are not supported for audio.
func (c *Client) SendAudio(ctx context.Context, to string, audio Media, opts ...SendOption) (*SendResponse, error) {
	return c.sendMedia(ctx, to, TypeAudio, audio, opts)
}

// SendDocument sends a document. Filename is required.
func (c *Client) SendDocument(ctx context.Context, to string, document Media, opts ...SendOption) (*SendResponse, error) {
	return c.sendMedia(ctx, to, TypeDocument, document, opts)
}

func (c *Client) SendSticker(ctx context.Context, to string, sticker Media, opts ...SendOption) (*SendResponse, error) {
	return c.sendMedia(ctx, to, TypeSticker, sticker, opts)
}

func (c *Client) sendMedia(ctx context.Context, to string, kind MessageType, m Media, opts []SendOption) (*SendResponse, error) {
	obj, err := BuildMedia(kind, m)
	if err != nil {
		return nil, err
	}
	msg := NewOutbound(to, kind)
	msg.setMedia(kind, obj)
	return c.send(ctx, msg, applySendOptions(opts))
}

func (c *Client) SendLocation(ctx context.Context, to string, location Location, opts ...SendOption) (*SendResponse, error) {
	msg := NewOutbound(to, TypeLocation)
	msg.Location = BuildLocation(location)
	return c.send(ctx, msg, applySendOptions(opts))
}

// SendInteractiveButtons sends a message with reply buttons titled by titles
func (c *Client) SendInteractiveButtons(ctx context.Context, to, body string, titles []string, opts ...SendOption) (*SendResponse, error) {
	interactive, err := BuildButtons(body, titles)
	if err != nil {
		return nil, err
	}
	msg := NewOutbound(to, TypeInteractive)
	msg.Interactive = interactive
	return c.send(ctx, msg, applySendOptions(opts))
}

// SendInteractiveList sends a list message opened by a button labelled buttonText
func (c *Client) SendInteractiveList(ctx context.Context, to, body, buttonText string, sections []ListSection, opts ...SendOption) (*SendResponse, error) {
	msg := NewOutbound(to, TypeInteractive)
	msg.Interactive = BuildList(body, buttonText, sections)
	return c.send(ctx, msg, applySendOptions(opts))
}

func (c *Client) SendTemplate(ctx context.Context, to string, template Template, opts ...SendOption) (*SendResponse, error) {
	obj, err := BuildTemplate(template)
	if err != nil {
		return nil, err
	}
	msg := NewOutbound(to, TypeTemplate)
	msg.Template = obj
	return c.send(ctx, msg, applySendOptions(opts))
}

// SendReaction reacts to messageID with emoji; an empty emoji removes the reaction
func (c *Client) SendReaction(ctx context.Context, to, messageID, emoji string) (*SendResponse, error) {
	obj, err := BuildReaction(messageID, emoji)
	if err != nil {
		return nil, err
	}
	msg := NewOutbound(to, TypeReaction)
	msg.Reaction = obj
	return c.send(ctx, msg, sendOptions{})
}

// Send posts a fully built message
func (c *Client) Send(ctx context.Context, msg *OutboundMessage) (*SendResponse, error) {
	return c.send(ctx, msg, sendOptions{})
}

func (c *Client) send(ctx context.Context, msg *OutboundMessage, o sendOptions) (*SendResponse, error) {
	if o.replyTo != "" {
		msg.Context = &ReplyContext{MessageID: o.replyTo}
	}

	var resp SendResponse
	if err := c.postJSON(ctx, c.messagesURL(), msg, &resp); err != nil {
		return nil, err
	}
	logx.Debug("WhatsApp %s message to %s accepted as %s", msg.Type, msg.To, resp.MessageID())
	return &resp, nil
}

// MarkMessageAsRead marks an inbound message as read
func (c *Client) MarkMessageAsRead(ctx context.Context, messageID string) (*ReadResponse, error) {
	return c.markRead(ctx, messageID, nil)
}

// SendTypingIndicator marks messageID as read and shows a typing indicator to
// its sender until the next reply or for up to 25 seconds.
func (c *Client) SendTypingIndicator(ctx context.Context, messageID string) (*ReadResponse, error) {
	return c.markRead(ctx, messageID, &typingIndicator{Type: "text"})
}

func (c *Client) markRead(ctx context.Context, messageID string, typing *typingIndicator) (*ReadResponse, error) {
	if messageID == "" {
		return nil, invalidMessage("message id required")
	}
	body := readReceipt{
		MessagingProduct: messagingProduct,
		Status:           "read",
		MessageID:        messageID,
		TypingIndicator:  typing,
	}

	var resp ReadResponse
	if err := c.postJSON(ctx, c.messagesURL(), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ========== Media ==========

// GetMediaInfo resolves a media id to its metadata using the client's token
func (c *Client) GetMediaInfo(ctx context.Context, mediaID string) (*MediaInfo, error) {
	return c.media.GetMediaInfo(ctx, mediaID, c.config.AccessToken)
}

// ResolveMediaURL resolves a media id to its short-lived download URL
func (c *Client) ResolveMediaURL(ctx context.Context, mediaID string) (string, error) {
	return c.media.ResolveMediaURL(ctx, mediaID, c.config.AccessToken)
}

// DownloadMedia resolves and downloads a media id
func (c *Client) DownloadMedia(ctx context.Context, mediaID string) ([]byte, error) {
	return c.media.DownloadMedia(ctx, mediaID, c.config.AccessToken)
}

// ========== Transport ==========

func (c *Client) messagesURL() string {
	return fmt.Sprintf("%s/%s/%s/messages", c.config.BaseURL, c.config.APIVersion, c.config.PhoneNumberID)
}

func (c *Client) mediaUploadURL() string {
	return fmt.Sprintf("%s/%s/%s/media", c.config.BaseURL, c.config.APIVersion, c.config.PhoneNumberID)
}

func (c *Client) postJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return mapFailure(failure{Err: err})
	}
	logx.Debug("Sending WhatsApp request to %s: %s", url, string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return mapFailure(failure{Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do sends req with the client's bearer token and decodes a 2xx body into out
func (c *Client) do(req *http.Request, out any) error {
	if xerr := notDispatched(req); xerr != nil {
		return xerr
	}
	status, body, err := roundTrip(c.httpClient, req, c.config.AccessToken)
	if err != nil {
		xerr := mapFailure(failure{Request: req, Err: err})
		logx.Error("WhatsApp request %s %s failed: %v", req.Method, req.URL.Path, xerr)
		return xerr
	}
	if status < 200 || status > 299 {
		xerr := mapFailure(failure{Status: status, Body: body, Request: req})
		logx.Error("WhatsApp API rejected %s %s: %v", req.Method, req.URL.Path, xerr)
		return xerr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return mapFailure(failure{Err: fmt.Errorf("decode WhatsApp response: %w", err)})
	}
	return nil
}

// roundTrip executes req and reads the whole body. A non-nil error means no
// usable response was received.
func roundTrip(hc *http.Client, req *http.Request, token string) (int, []byte, error) {
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
