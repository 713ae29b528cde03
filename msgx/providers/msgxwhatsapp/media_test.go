package msgxwhatsapp

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/fsx/providers/fsxlocal"
)

var jpegBytes = []byte("\xff\xd8\xff\xe0fake-jpeg")

// mediaServer serves media-1 metadata and its download. Every other id 404s.
func mediaServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var downloads int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/v22.0/media-1":
			if r.URL.Query().Get("phone_number_id") != "123" {
				t.Errorf("phone_number_id not forwarded: %q", r.URL.RawQuery)
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"messaging_product":"whatsapp","url":"%s/download/media-1","mime_type":"image/jpeg","sha256":"abc","file_size":%d,"id":"media-1"}`,
				srv.URL, len(jpegBytes))
		case "/download/media-1":
			atomic.AddInt32(&downloads, 1)
			w.Write(jpegBytes)
		default:
			if strings.HasPrefix(r.URL.Path, "/download/") {
				atomic.AddInt32(&downloads, 1)
			}
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":{"message":"Unsupported get request","code":100}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &downloads
}

func TestDownloadWithCanceledContext(t *testing.T) {
	srv, downloads := mediaServer(t)
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.DownloadMedia(ctx, "media-1")
	if !errx.IsCode(err, CodeUnknownError) {
		t.Fatalf("expected unknown error, got %v", err)
	}
	if atomic.LoadInt32(downloads) != 0 {
		t.Fatalf("download must not start")
	}
}

func TestResolveAndDownloadMedia(t *testing.T) {
	srv, downloads := mediaServer(t)
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	url, err := c.ResolveMediaURL(ctx, "media-1")
	if err != nil {
		t.Fatalf("ResolveMediaURL: %v", err)
	}
	if url != srv.URL+"/download/media-1" {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := c.DownloadMedia(ctx, "media-1")
	if err != nil {
		t.Fatalf("DownloadMedia: %v", err)
	}
	if string(data) != string(jpegBytes) {
		t.Fatalf("unexpected bytes %q", data)
	}
	if atomic.LoadInt32(downloads) != 1 {
		t.Fatalf("expected one download, got %d", *downloads)
	}
}

func TestDownloadMediaStopsWhenResolutionFails(t *testing.T) {
	srv, downloads := mediaServer(t)
	c := newTestClient(t, srv.URL)

	_, err := c.DownloadMedia(context.Background(), "missing")
	xerr, ok := errx.As(err)
	if !ok {
		t.Fatalf("expected *errx.Error, got %v", err)
	}
	if xerr.Code != "404" || xerr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected status-coded error, got %+v", xerr)
	}
	if xerr.Message != "Unsupported get request" {
		t.Fatalf("unexpected message %q", xerr.Message)
	}
	if atomic.LoadInt32(downloads) != 0 {
		t.Fatalf("download must not be attempted after a failed resolution")
	}
}

func TestMediaResolverWithExplicitToken(t *testing.T) {
	srv, _ := mediaServer(t)
	r := NewMediaResolver(MediaConfig{BaseURL: srv.URL, PhoneNumberID: "123"})

	if _, err := r.DownloadMedia(context.Background(), "media-1", "wrong"); !errx.IsCode(err, "401") {
		t.Fatalf("expected 401 with the wrong token, got %v", err)
	}
	info, err := r.GetMediaInfo(context.Background(), "media-1", testToken)
	if err != nil {
		t.Fatalf("GetMediaInfo: %v", err)
	}
	if info.MimeType != "image/jpeg" || info.FileSize != int64(len(jpegBytes)) {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestGetMediaInfoRequiresID(t *testing.T) {
	r := NewMediaResolver(MediaConfig{})
	if _, err := r.GetMediaInfo(context.Background(), "", "tok"); !errx.IsType(err, errx.TypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSaveMediaToLocalFS(t *testing.T) {
	srv, _ := mediaServer(t)
	c := newTestClient(t, srv.URL)
	dir := t.TempDir()
	fs := fsxlocal.NewLocalFS(dir)

	info, err := c.SaveMedia(context.Background(), fs, "media-1", "")
	if err != nil {
		t.Fatalf("SaveMedia: %v", err)
	}
	if info.Sha256 != "abc" {
		t.Fatalf("unexpected info %+v", info)
	}

	data, err := os.ReadFile(filepath.Join(dir, "media-1.jpg"))
	if err != nil {
		t.Fatalf("expected media-1.jpg to be written: %v", err)
	}
	if string(data) != string(jpegBytes) {
		t.Fatalf("unexpected stored bytes %q", data)
	}

	if _, err := c.SaveMedia(context.Background(), fs, "media-1", "inbox/photo.jpeg"); err != nil {
		t.Fatalf("SaveMedia with path: %v", err)
	}
	if ok, _ := fs.Exists(context.Background(), "inbox/photo.jpeg"); !ok {
		t.Fatalf("expected explicit path to be used")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		"audio/ogg; codecs=opus": ".ogg",
		"image/webp":             ".webp",
		"image/jpeg":             ".jpg",
		"application/pdf":        ".pdf",
		"application/x-unknown":  "",
	}
	for in, want := range tests {
		if got := extensionFor(in); got != want {
			t.Errorf("extensionFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUploadMedia(t *testing.T) {
	var gotType, gotProduct, gotFile, gotPartType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v22.0/123/media" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			t.Errorf("bad content type: %v", err)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			data, _ := io.ReadAll(part)
			switch part.FormName() {
			case "messaging_product":
				gotProduct = string(data)
			case "type":
				gotType = string(data)
			case "file":
				gotFile = part.FileName() + ":" + string(data)
				gotPartType = part.Header.Get("Content-Type")
			}
		}
		io.WriteString(w, `{"id":"uploaded-1"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.UploadMedia(context.Background(), "report.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if resp.ID != "uploaded-1" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if gotProduct != "whatsapp" || gotType != "application/pdf" {
		t.Fatalf("unexpected fields product=%q type=%q", gotProduct, gotType)
	}
	if gotFile != "report.pdf:%PDF-1.4" || gotPartType != "application/pdf" {
		t.Fatalf("unexpected file part %q (%s)", gotFile, gotPartType)
	}

	if _, err := c.UploadMedia(context.Background(), "", "application/pdf", strings.NewReader("x")); !errx.IsType(err, errx.TypeValidation) {
		t.Fatalf("expected validation error for missing filename, got %v", err)
	}
}
