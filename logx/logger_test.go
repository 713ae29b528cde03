package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newTestLogger(format OutputFormat) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetFormat(format)
	l.SetColored(false)
	l.SetShowCaller(false)
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   TraceLevel,
		"DEBUG":   DebugLevel,
		" info ":  InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"off":     OffLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newTestLogger(FormatCloudWatch)
	l.SetLevel(WarnLevel)

	l.Info("hidden")
	l.Warn("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN]: shown 1") {
		t.Fatalf("unexpected output: %q", out)
	}

	l.SetLevel(OffLevel)
	buf.Reset()
	l.Error("silenced")
	if buf.Len() != 0 {
		t.Fatalf("OFF must silence everything, got %q", buf.String())
	}
}

func TestJSONFormatWithFields(t *testing.T) {
	l, buf := newTestLogger(FormatJSON)
	l.With("request_id", "abc").Info("accepted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry["message"] != "accepted" || entry["level"] != "INFO" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	fields, _ := entry["fields"].(map[string]any)
	if fields["request_id"] != "abc" {
		t.Fatalf("fields missing: %v", entry)
	}
}

func TestWithDoesNotLeakIntoParent(t *testing.T) {
	l, buf := newTestLogger(FormatCloudWatch)
	_ = l.With("k", "v")
	l.Info("plain")
	if strings.Contains(buf.String(), "k=v") {
		t.Fatalf("parent picked up child field: %q", buf.String())
	}
}

func TestRedactsSecrets(t *testing.T) {
	l, buf := newTestLogger(FormatCloudWatch)
	l.SetLevel(DebugLevel)

	l.Info("Authorization: Bearer EAAG123abc")
	l.Debug("config %v", map[string]string{"access_token": "EAAG123abc", "number_id": "42"})

	out := buf.String()
	if strings.Contains(out, "EAAG123abc") {
		t.Fatalf("token leaked: %q", out)
	}
	if !strings.Contains(out, `"number_id":"42"`) {
		t.Fatalf("non-secret field missing: %q", out)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	env := map[string]string{
		"LOG_LEVEL":  "debug",
		"LOG_FORMAT": "json",
		"LOG_CALLER": "false",
	}
	l := New()
	ConfigureFromEnv(l, func(k string) string { return env[k] })

	if !l.IsLevelEnabled(DebugLevel) || l.IsLevelEnabled(TraceLevel) {
		t.Fatalf("level not applied")
	}
	if l.format != FormatJSON || l.colored || l.showCaller {
		t.Fatalf("unexpected settings: %+v", l)
	}
}
