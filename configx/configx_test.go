package configx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Abraxas-365/wacloud/errx"
)

func TestPriorityOrder(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	content := "# local overrides\nWHATSAPP_NUMBER_ID=from-dotenv\nexport PORT=\"9000\"\n"
	if err := os.WriteFile(dotenv, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	env := NewEnvSource("WHATSAPP_", 30)
	env.environ = func() []string {
		return []string{"WHATSAPP_TOKEN=secret", "WHATSAPP_NUMBER_ID=from-env", "HOME=/root"}
	}

	cfg, err := NewBuilder().
		WithDefaults(map[string]string{"api_version": "v22.0", "port": "8080"}).
		FromDotEnv(dotenv).
		AddSource(env).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if got := cfg.Get("number.id").AsString(); got != "from-env" {
		t.Errorf("env should win over dotenv, got %q", got)
	}
	if got := cfg.Get("PORT").AsInt(); got != 9000 {
		t.Errorf("dotenv should win over defaults, got %d", got)
	}
	if got := cfg.Get("api_version").AsString(); got != "v22.0" {
		t.Errorf("default missing, got %q", got)
	}
	if cfg.Has("home") {
		t.Errorf("unprefixed variables must be ignored")
	}
}

func TestRequire(t *testing.T) {
	_, err := NewBuilder().
		WithDefaults(map[string]string{"token": ""}).
		Require("token", "number_id").
		Build()
	if !errx.IsCode(err, ErrMissingRequired) {
		t.Fatalf("expected missing required error, got %v", err)
	}
}

func TestMissingDotEnvIsIgnored(t *testing.T) {
	if _, err := NewBuilder().FromDotEnv(filepath.Join(t.TempDir(), "nope.env")).Build(); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
}

func TestPrefixedDotEnvStripsPrefix(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	content := "WHATSAPP_VERIFY_TOKEN=vt\nOTHER=ignored\n"
	if err := os.WriteFile(dotenv, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewBuilder().FromDotEnvPrefixed(dotenv, "WHATSAPP_").Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if got := cfg.Get("verify_token").AsString(); got != "vt" {
		t.Errorf("expected stripped key, got %q", got)
	}
	if cfg.Has("other") {
		t.Errorf("keys without the prefix must be dropped")
	}
}

func TestFileSourceFlattens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"media":{"bucket":"b","prefix":"in/"},"port":8081}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewBuilder().FromFile(path).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if cfg.Get("media.bucket").AsString() != "b" || cfg.Get("MEDIA_PREFIX").AsString() != "in/" {
		t.Fatalf("nested keys not flattened: %v", cfg.AllSettings())
	}
	if cfg.Get("port").AsInt() != 8081 {
		t.Fatalf("number not converted: %v", cfg.AllSettings())
	}
}

func TestValueConversions(t *testing.T) {
	cfg, _ := NewBuilder().WithDefaults(map[string]string{
		"timeout": "45",
		"verbose": "yes",
		"bad":     "later",
	}).Build()

	if cfg.Get("timeout").AsDuration() != 45*time.Second {
		t.Errorf("bare seconds not parsed")
	}
	if !cfg.Get("verbose").AsBool() {
		t.Errorf("yes should be true")
	}
	if cfg.Get("bad").AsIntDefault(7) != 7 {
		t.Errorf("invalid int should fall back")
	}
	if cfg.Get("unset").AsStringDefault("x") != "x" {
		t.Errorf("unset should fall back")
	}
}
