package msgxwhatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/fsx"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx"
)

// MediaConfig selects the Graph API host and version used for media calls
type MediaConfig struct {
	APIVersion string
	BaseURL    string
	// PhoneNumberID, when set, is sent as the phone_number_id query parameter
	// so the media is resolved on behalf of that business number.
	PhoneNumberID string
	HTTPClient    *http.Client
}

// MediaResolver turns media ids from inbound messages into bytes. The access
// token is passed per call so one resolver can serve several numbers.
type MediaResolver struct {
	config     MediaConfig
	httpClient *http.Client
}

// NewMediaResolver creates a resolver with the default version and host
// filled in where config leaves them empty.
func NewMediaResolver(config MediaConfig) *MediaResolver {
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	hc := config.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &MediaResolver{config: config, httpClient: hc}
}

// GetMediaInfo fetches the metadata of mediaID, including its download URL
func (r *MediaResolver) GetMediaInfo(ctx context.Context, mediaID, accessToken string) (*MediaInfo, error) {
	if mediaID == "" {
		return nil, invalidMessage("media id required")
	}

	endpoint := fmt.Sprintf("%s/%s/%s", r.config.BaseURL, r.config.APIVersion, url.PathEscape(mediaID))
	if r.config.PhoneNumberID != "" {
		endpoint += "?" + url.Values{"phone_number_id": {r.config.PhoneNumberID}}.Encode()
	}

	body, err := r.get(ctx, endpoint, accessToken)
	if err != nil {
		return nil, err
	}

	var info MediaInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, mapFailure(failure{Err: fmt.Errorf("decode media info: %w", err)})
	}
	if info.URL == "" {
		return nil, mapFailure(failure{Err: fmt.Errorf("media %s resolved without a url", mediaID)})
	}
	return &info, nil
}

// ResolveMediaURL returns the short-lived download URL of mediaID
func (r *MediaResolver) ResolveMediaURL(ctx context.Context, mediaID, accessToken string) (string, error) {
	info, err := r.GetMediaInfo(ctx, mediaID, accessToken)
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// DownloadMedia resolves mediaID and downloads it with the same token. The
// download is not attempted when resolution fails.
func (r *MediaResolver) DownloadMedia(ctx context.Context, mediaID, accessToken string) ([]byte, error) {
	_, data, err := r.download(ctx, mediaID, accessToken)
	return data, err
}

func (r *MediaResolver) download(ctx context.Context, mediaID, accessToken string) (*MediaInfo, []byte, error) {
	info, err := r.GetMediaInfo(ctx, mediaID, accessToken)
	if err != nil {
		return nil, nil, err
	}
	data, err := r.get(ctx, info.URL, accessToken)
	if err != nil {
		return nil, nil, err
	}
	logx.Debug("Downloaded media %s (%s, %d bytes)", mediaID, info.MimeType, len(data))
	return info, data, nil
}

// SaveMedia downloads mediaID and writes it to fs at path. An empty path
// stores the file as <mediaID><ext>, with the extension derived from the
// media's MIME type.
func (r *MediaResolver) SaveMedia(ctx context.Context, fs fsx.FileSystem, mediaID, accessToken, path string) (*MediaInfo, error) {
	info, data, err := r.download(ctx, mediaID, accessToken)
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = mediaID + extensionFor(info.MimeType)
	}

	opts := []fsx.WriteOption{
		fsx.WithContentType(info.MimeType),
		fsx.WithMetadata("media-id", mediaID),
	}
	if info.Sha256 != "" {
		opts = append(opts, fsx.WithMetadata("sha256", info.Sha256))
	}
	if err := fs.WriteFile(ctx, path, data, opts...); err != nil {
		return nil, msgx.Registry.NewWithCause(msgx.ErrMediaStoreFailed, err).
			WithDetail("media_id", mediaID).
			WithDetail("path", path)
	}
	logx.Info("Saved media %s to %s", mediaID, path)
	return info, nil
}

// get issues an authorized GET. HTTP failures carry the status as the code.
func (r *MediaResolver) get(ctx context.Context, endpoint, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, mapFailure(failure{Err: err})
	}
	if xerr := notDispatched(req); xerr != nil {
		return nil, xerr
	}

	status, body, err := roundTrip(r.httpClient, req, accessToken)
	if err != nil {
		return nil, mapFailure(failure{Request: req, Err: err})
	}
	if status < 200 || status > 299 {
		xerr := httpStatusError(status, body)
		logx.Error("WhatsApp media request %s failed: %v", req.URL.Path, xerr)
		return nil, xerr
	}
	return body, nil
}

func extensionFor(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	// the platform's usual voice note and sticker types
	case "audio/ogg":
		return ".ogg"
	case "image/webp":
		return ".webp"
	case "image/jpeg":
		return ".jpg"
	}
	if exts, err := mime.ExtensionsByType(base); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// UploadMedia uploads content as a new media object usable by id in later
// sends. mimeType must be one the platform accepts for the intended kind.
func (c *Client) UploadMedia(ctx context.Context, filename, mimeType string, content io.Reader) (*UploadResponse, error) {
	if filename == "" || mimeType == "" {
		return nil, invalidMessage("filename and mime type required for upload")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("messaging_product", messagingProduct); err != nil {
		return nil, mapFailure(failure{Err: err})
	}
	if err := w.WriteField("type", mimeType); err != nil {
		return nil, mapFailure(failure{Err: err})
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, mapFailure(failure{Err: err})
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, mapFailure(failure{Err: err})
	}
	if err := w.Close(); err != nil {
		return nil, mapFailure(failure{Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.mediaUploadURL(), &buf)
	if err != nil {
		return nil, mapFailure(failure{Err: err})
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp UploadResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, errx.NewWithCode(CodeUnknownError, "upload response carried no media id", errx.TypeInternal)
	}
	logx.Info("Uploaded %s as media %s", filename, resp.ID)
	return &resp, nil
}

// SaveMedia downloads mediaID with the client's token and writes it to fs
func (c *Client) SaveMedia(ctx context.Context, fs fsx.FileSystem, mediaID, path string) (*MediaInfo, error) {
	return c.media.SaveMedia(ctx, fs, mediaID, c.config.AccessToken, path)
}
