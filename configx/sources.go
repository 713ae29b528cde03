package configx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvSource reads process environment variables
type EnvSource struct {
	prefix   string
	priority int
	environ  func() []string
}

// NewEnvSource creates a source over os.Environ filtered by prefix
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{prefix: prefix, priority: priority, environ: os.Environ}
}

func (s *EnvSource) Load() (map[string]string, error) {
	result := make(map[string]string)
	for _, kv := range s.environ() {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, s.prefix) {
			continue
		}
		key = strings.TrimPrefix(key, s.prefix)
		if key == "" {
			continue
		}
		result[key] = val
	}
	return result, nil
}

func (s *EnvSource) Name() string  { return fmt.Sprintf("env(%s)", s.prefix) }
func (s *EnvSource) Priority() int { return s.priority }

// DotEnvSource reads a .env file. A missing file yields no values.
type DotEnvSource struct {
	path     string
	prefix   string
	priority int
}

func NewDotEnvSource(path string, priority int) *DotEnvSource {
	return &DotEnvSource{path: path, priority: priority}
}

// WithPrefix keeps only keys starting with prefix and strips it, matching
// EnvSource
func (s *DotEnvSource) WithPrefix(prefix string) *DotEnvSource {
	s.prefix = prefix
	return s
}

func (s *DotEnvSource) Load() (map[string]string, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(s.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	if s.prefix == "" {
		return values, nil
	}

	result := make(map[string]string, len(values))
	for key, val := range values {
		if rest, ok := strings.CutPrefix(key, s.prefix); ok {
			result[rest] = val
		}
	}
	return result, nil
}

func (s *DotEnvSource) Name() string  { return fmt.Sprintf("dotenv(%s)", s.path) }
func (s *DotEnvSource) Priority() int { return s.priority }

// FileSource reads a JSON object
type FileSource struct {
	path     string
	priority int
}

func NewFileSource(path string, priority int) *FileSource {
	return &FileSource{path: path, priority: priority}
}

func (s *FileSource) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	result := make(map[string]string)
	flatten("", raw, result)
	return result, nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		case nil:
			out[key] = ""
		default:
			b, _ := json.Marshal(val)
			out[key] = string(b)
		}
	}
}

func (s *FileSource) Name() string  { return fmt.Sprintf("file(%s)", s.path) }
func (s *FileSource) Priority() int { return s.priority }

// MapSource serves fixed values
type MapSource struct {
	name     string
	values   map[string]string
	priority int
}

func NewMapSource(name string, values map[string]string, priority int) *MapSource {
	return &MapSource{name: name, values: values, priority: priority}
}

func (s *MapSource) Load() (map[string]string, error) {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

func (s *MapSource) Name() string  { return s.name }
func (s *MapSource) Priority() int { return s.priority }
