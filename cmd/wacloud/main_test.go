package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Abraxas-365/wacloud/msgx/providers/msgxwhatsapp"
)

// run executes the CLI with args and returns stdout
func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), ".env")}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestSendTextCommand(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v21.0/999/messages" || r.Header.Get("Authorization") != "Bearer cli-token" {
			t.Errorf("unexpected request %s %s", r.URL.Path, r.Header.Get("Authorization"))
		}
		body, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"messaging_product":"whatsapp","contacts":[{"input":"1555","wa_id":"1555"}],"messages":[{"id":"wamid.CLI"}]}`)
	}))
	defer srv.Close()

	t.Setenv("WHATSAPP_TOKEN", "cli-token")
	t.Setenv("WHATSAPP_NUMBER_ID", "999")
	t.Setenv("WHATSAPP_API_VERSION", "v21.0")
	t.Setenv("WHATSAPP_BASE_URL", srv.URL)

	out := run(t, "", "send", "text", "1555", "hello there", "--reply-to", "wamid.IN")
	if !strings.Contains(out, "sent wamid.CLI to 1555") {
		t.Fatalf("unexpected output %q", out)
	}

	var msg msgxwhatsapp.OutboundMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Text.Body != "hello there" || msg.Context.MessageID != "wamid.IN" {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestConfigFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "WHATSAPP_VERIFY_TOKEN=from-file\nWHATSAPP_PORT=9090\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	env := &environment{flags: &globalFlags{envFile: envFile}}
	cfg, err := env.config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Get(keyPort).AsInt() != 9090 {
		t.Fatalf("port = %d", cfg.Get(keyPort).AsInt())
	}
	if cfg.Get(keyAPIVersion).AsString() != msgxwhatsapp.DefaultAPIVersion {
		t.Fatalf("default api version not applied")
	}
	if receiverConfig(cfg).VerifyToken != "from-file" {
		t.Fatalf("verify token not read from dotenv")
	}
}

func TestConfigRejectsBadPort(t *testing.T) {
	t.Setenv("WHATSAPP_PORT", "http")
	env := &environment{flags: &globalFlags{envFile: filepath.Join(t.TempDir(), ".env")}}
	if _, err := env.config(); err == nil {
		t.Fatalf("expected invalid port to fail")
	}
}

func TestWebhookParseCommand(t *testing.T) {
	payload := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"messages":[{"from":"1","id":"m","timestamp":"1","type":"text","text":{"body":"Hi"}}]}}]}]}`

	out := run(t, payload, "webhook", "parse", "-")

	var result struct {
		Messages []struct {
			Content struct {
				Body string `json:"body"`
			} `json:"content"`
		} `json:"messages"`
		Statuses []any `json:"statuses"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if len(result.Messages) != 1 || result.Messages[0].Content.Body != "Hi" || result.Statuses == nil {
		t.Fatalf("unexpected result %s", out)
	}
}

func TestWebhookVerifyCommand(t *testing.T) {
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "vt")
	out := run(t, "", "webhook", "verify", "subscribe", "vt", "777")
	if !strings.Contains(out, "challenge 777") {
		t.Fatalf("unexpected output %q", out)
	}
}
