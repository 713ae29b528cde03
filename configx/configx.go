package configx

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/wacloud/errx"
)

var (
	errorRegistry = errx.NewRegistry("CONFIG")

	ErrMissingRequired = errorRegistry.Register("MISSING_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Required configuration is missing")
	ErrSourceLoad      = errorRegistry.Register("SOURCE_LOAD", errx.TypeSystem, http.StatusInternalServerError, "Failed to load configuration source")
	ErrInvalidValue    = errorRegistry.Register("INVALID_VALUE", errx.TypeValidation, http.StatusBadRequest, "Invalid configuration value")
)

// Config is a read view over merged configuration sources
type Config interface {
	// Get retrieves a value. Keys are case-insensitive and "." and "_" are
	// interchangeable, so "number.id" and "NUMBER_ID" name the same entry.
	Get(key string) Value

	// Has reports whether key is set by any source
	Has(key string) bool

	// Set overrides a value at runtime
	Set(key string, val string)

	// AllSettings returns a copy of every merged value
	AllSettings() map[string]string
}

// Source supplies raw key/value pairs
type Source interface {
	Load() (map[string]string, error)
	Name() string
	// Priority orders sources; higher values override lower
	Priority() int
}

// NormalizeKey lowercases key and maps "." and "-" to "_"
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer(".", "_", "-", "_").Replace(key)
}

type configuration struct {
	mu     sync.RWMutex
	values map[string]string
}

func (c *configuration) Get(key string) Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key = NormalizeKey(key)
	raw, ok := c.values[key]
	return value{key: key, raw: raw, set: ok}
}

func (c *configuration) Has(key string) bool {
	return c.Get(key).IsSet()
}

func (c *configuration) Set(key string, val string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[NormalizeKey(key)] = val
}

func (c *configuration) AllSettings() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Value is a raw configuration string with typed accessors. Conversions
// that fail fall back to the default (or the zero value).
type Value interface {
	IsSet() bool
	AsString() string
	AsStringDefault(def string) string
	AsInt() int
	AsIntDefault(def int) int
	AsBool() bool
	AsBoolDefault(def bool) bool
	AsDuration() time.Duration
	AsDurationDefault(def time.Duration) time.Duration
}

type value struct {
	key string
	raw string
	set bool
}

func (v value) IsSet() bool { return v.set }

func (v value) AsString() string { return v.raw }

func (v value) AsStringDefault(def string) string {
	if !v.set || v.raw == "" {
		return def
	}
	return v.raw
}

func (v value) AsInt() int { return v.AsIntDefault(0) }

func (v value) AsIntDefault(def int) int {
	if !v.set {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v.raw))
	if err != nil {
		return def
	}
	return i
}

func (v value) AsBool() bool { return v.AsBoolDefault(false) }

func (v value) AsBoolDefault(def bool) bool {
	if !v.set {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v.raw)) {
	case "true", "yes", "1", "on":
		return true
	case "false", "no", "0", "off":
		return false
	}
	return def
}

func (v value) AsDuration() time.Duration { return v.AsDurationDefault(0) }

// AsDurationDefault accepts Go duration strings ("30s") or a bare number of seconds
func (v value) AsDurationDefault(def time.Duration) time.Duration {
	if !v.set {
		return def
	}
	s := strings.TrimSpace(v.raw)
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// Builder assembles a Config from prioritized sources
type Builder struct {
	sources  []Source
	required []string
	validate []func(Config) error
}

// NewBuilder creates an empty Builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithDefaults adds values with the lowest priority
func (b *Builder) WithDefaults(defaults map[string]string) *Builder {
	return b.AddSource(NewMapSource("defaults", defaults, 0))
}

// FromFile adds a JSON file. Nested objects are flattened with "_".
func (b *Builder) FromFile(path string) *Builder {
	return b.AddSource(NewFileSource(path, 10))
}

// FromDotEnv adds a .env file. A missing file is not an error.
func (b *Builder) FromDotEnv(path string) *Builder {
	return b.AddSource(NewDotEnvSource(path, 20))
}

// FromDotEnvPrefixed adds a .env file keeping only keys that start with
// prefix, with the prefix stripped
func (b *Builder) FromDotEnvPrefixed(path, prefix string) *Builder {
	return b.AddSource(NewDotEnvSource(path, 20).WithPrefix(prefix))
}

// FromEnv adds process environment variables starting with prefix, with the
// prefix stripped.
func (b *Builder) FromEnv(prefix string) *Builder {
	return b.AddSource(NewEnvSource(prefix, 30))
}

// FromMap adds explicit values, e.g. from command line flags
func (b *Builder) FromMap(name string, values map[string]string) *Builder {
	return b.AddSource(NewMapSource(name, values, 40))
}

func (b *Builder) AddSource(s Source) *Builder {
	b.sources = append(b.sources, s)
	return b
}

// Require fails Build when any key is unset or empty
func (b *Builder) Require(keys ...string) *Builder {
	b.required = append(b.required, keys...)
	return b
}

// WithValidation runs fn against the built configuration
func (b *Builder) WithValidation(fn func(Config) error) *Builder {
	b.validate = append(b.validate, fn)
	return b
}

// Build loads every source in priority order and merges the results
func (b *Builder) Build() (Config, error) {
	sources := make([]Source, len(b.sources))
	copy(sources, b.sources)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	cfg := &configuration{values: make(map[string]string)}
	for _, s := range sources {
		data, err := s.Load()
		if err != nil {
			return nil, errorRegistry.NewWithCause(ErrSourceLoad, err).WithDetail("source", s.Name())
		}
		for k, v := range data {
			cfg.values[NormalizeKey(k)] = v
		}
	}

	var missing []string
	for _, key := range b.required {
		if cfg.Get(key).AsString() == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, errorRegistry.NewWithMessage(ErrMissingRequired,
			"missing required configuration: "+strings.Join(missing, ", ")).
			WithDetail("keys", missing)
	}

	for _, fn := range b.validate {
		if err := fn(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Invalid returns a validation error for key
func Invalid(key, message string) *errx.Error {
	return errorRegistry.NewWithMessage(ErrInvalidValue, message).WithDetail("key", key)
}
