package fsx

import (
	"context"
	"time"
)

// FileInfo represents information about a stored file
type FileInfo struct {
	Name        string            // Base name of the file
	Size        int64             // File size in bytes
	ModTime     time.Time         // Modification time
	ContentType string            // MIME type (when available)
	Metadata    map[string]string // Additional metadata
}

// WriteOptions carries optional attributes for a write
type WriteOptions struct {
	ContentType string
	Metadata    map[string]string
}

// WriteOption configures a write
type WriteOption func(*WriteOptions)

// WithContentType records the MIME type of the written content
func WithContentType(contentType string) WriteOption {
	return func(o *WriteOptions) {
		o.ContentType = contentType
	}
}

// WithMetadata attaches a metadata entry where the backend supports it
func WithMetadata(key, value string) WriteOption {
	return func(o *WriteOptions) {
		if o.Metadata == nil {
			o.Metadata = make(map[string]string)
		}
		o.Metadata[key] = value
	}
}

// ApplyWriteOptions folds opts into a WriteOptions value
func ApplyWriteOptions(opts ...WriteOption) WriteOptions {
	var o WriteOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FileSystem is where downloaded media is written
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, opts ...WriteOption) error
	Stat(ctx context.Context, path string) (FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
	Join(elem ...string) string
}
