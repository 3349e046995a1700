package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

var ErrNotFound = errors.New("stored file not found")

// FileInfo describes one stored upload.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// FileStorage keeps uploaded files under flat names.
type FileStorage interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]FileInfo, error)
}

// ValidName reports whether name is a flat upload name that cannot escape
// the storage root.
func ValidName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// ContentTypeFor guesses a content type from the file extension.
func ContentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
