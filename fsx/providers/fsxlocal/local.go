package fsxlocal

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/fsx"
)

var (
	localErrors = errx.NewRegistry("LOCALFS")

	ErrNotFound    = localErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "File not found")
	ErrInvalidPath = localErrors.Register("INVALID_PATH", errx.TypeValidation, 400, "Path escapes the root directory")
	ErrFailedWrite = localErrors.Register("FAILED_WRITE", errx.TypeSystem, 500, "Failed to write file")
	ErrFailedRead  = localErrors.Register("FAILED_READ", errx.TypeSystem, 500, "Failed to read file")
)

// LocalFS stores files under a root directory
type LocalFS struct {
	root string
}

// NewLocalFS creates a LocalFS rooted at root. An empty root means the
// current working directory.
func NewLocalFS(root string) *LocalFS {
	if root == "" {
		root = "."
	}
	return &LocalFS{root: filepath.Clean(root)}
}

// resolvePath joins path onto the root and rejects paths that escape it
func (l *LocalFS) resolvePath(path string) (string, error) {
	full := filepath.Join(l.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(l.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", localErrors.New(ErrInvalidPath).WithDetail("path", path)
	}
	return full, nil
}

func (l *LocalFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	full, err := l.resolvePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, localErrors.NewWithCause(ErrNotFound, err).WithDetail("path", path)
	}
	if err != nil {
		return nil, localErrors.NewWithCause(ErrFailedRead, err).WithDetail("path", path)
	}
	return data, nil
}

// WriteFile creates parent directories as needed. Content type options are
// ignored; the type is derived from the extension on Stat.
func (l *LocalFS) WriteFile(_ context.Context, path string, data []byte, _ ...fsx.WriteOption) error {
	full, err := l.resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return localErrors.NewWithCause(ErrFailedWrite, err).WithDetail("path", path)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return localErrors.NewWithCause(ErrFailedWrite, err).WithDetail("path", path)
	}
	return nil
}

func (l *LocalFS) Stat(_ context.Context, path string) (fsx.FileInfo, error) {
	full, err := l.resolvePath(path)
	if err != nil {
		return fsx.FileInfo{}, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return fsx.FileInfo{}, localErrors.NewWithCause(ErrNotFound, err).WithDetail("path", path)
	}
	if err != nil {
		return fsx.FileInfo{}, localErrors.NewWithCause(ErrFailedRead, err).WithDetail("path", path)
	}
	return fsx.FileInfo{
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: mime.TypeByExtension(filepath.Ext(full)),
		Metadata:    map[string]string{"mode": info.Mode().String()},
	}, nil
}

func (l *LocalFS) Exists(_ context.Context, path string) (bool, error) {
	full, err := l.resolvePath(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, localErrors.NewWithCause(ErrFailedRead, err).WithDetail("path", path)
}

func (l *LocalFS) Join(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}
