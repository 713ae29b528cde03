package main

import (
	"strconv"

	"github.com/Abraxas-365/wacloud/configx"
	"github.com/Abraxas-365/wacloud/errx/errxcobra"
	"github.com/Abraxas-365/wacloud/msgx/providers/msgxwhatsapp"
)

// EnvPrefix is stripped from environment variables, so WHATSAPP_TOKEN is
// read as "token"
const EnvPrefix = "WHATSAPP_"

// Configuration keys
const (
	keyToken       = "token"
	keyNumberID    = "number_id"
	keyAPIVersion  = "api_version"
	keyBaseURL     = "base_url"
	keyVerifyToken = "verify_token"
	keyAppSecret   = "app_secret"
	keyPort        = "port"
	keyMediaBucket = "media_bucket"
	keyMediaPrefix = "media_prefix"
	keyMediaDir    = "media_dir"
	keyHTTPTimeout = "http_timeout"
)

var defaults = map[string]string{
	keyAPIVersion: msgxwhatsapp.DefaultAPIVersion,
	keyBaseURL:    msgxwhatsapp.DefaultBaseURL,
	keyPort:       "8080",
	keyMediaDir:   "media",
}

// environment is shared by every command; configuration is loaded lazily so
// commands that need no credentials work without them.
type environment struct {
	flags *globalFlags
	cli   *errxcobra.CLI
	cfg   configx.Config
}

func (e *environment) config() (configx.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}

	b := configx.NewBuilder().WithDefaults(defaults)
	if e.flags.configFile != "" {
		b.FromFile(e.flags.configFile)
	}
	cfg, err := b.
		FromDotEnvPrefixed(e.flags.envFile, EnvPrefix).
		FromEnv(EnvPrefix).
		WithValidation(validatePort).
		Build()
	if err != nil {
		return nil, err
	}
	e.cfg = cfg
	return cfg, nil
}

func validatePort(cfg configx.Config) error {
	port, err := strconv.Atoi(cfg.Get(keyPort).AsString())
	if err != nil || port <= 0 || port > 65535 {
		return configx.Invalid(keyPort, "port must be a number between 1 and 65535")
	}
	return nil
}

func (e *environment) client() (*msgxwhatsapp.Client, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	return msgxwhatsapp.NewClient(clientConfig(cfg))
}

func clientConfig(cfg configx.Config) msgxwhatsapp.Config {
	return msgxwhatsapp.Config{
		AccessToken:   cfg.Get(keyToken).AsString(),
		PhoneNumberID: cfg.Get(keyNumberID).AsString(),
		APIVersion:    cfg.Get(keyAPIVersion).AsString(),
		BaseURL:       cfg.Get(keyBaseURL).AsString(),
		HTTPTimeout:   cfg.Get(keyHTTPTimeout).AsDuration(),
	}
}

func receiverConfig(cfg configx.Config) msgxwhatsapp.ReceiverConfig {
	return msgxwhatsapp.ReceiverConfig{
		VerifyToken: cfg.Get(keyVerifyToken).AsString(),
		AppSecret:   cfg.Get(keyAppSecret).AsString(),
	}
}
