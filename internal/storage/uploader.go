package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/pkg/logger"
)

var (
	ErrInvalidFileType = errors.New("only image uploads are allowed")
	ErrFileTooLarge    = errors.New("uploaded file is too large")
)

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// ImageUploader validates image uploads and stores them under generated names.
type ImageUploader struct {
	store    FileStorage
	maxBytes int64
	now      func() time.Time
}

func NewImageUploader(store FileStorage, maxBytes int64) *ImageUploader {
	return &ImageUploader{store: store, maxBytes: maxBytes, now: time.Now}
}

// Storage exposes the backing store.
func (u *ImageUploader) Storage() FileStorage {
	return u.store
}

// SaveImage stores the file sent under form field and returns its generated
// name: <field>-<unix millis>-<uuid><ext>.
func (u *ImageUploader) SaveImage(ctx context.Context, field string, fh *multipart.FileHeader) (string, error) {
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		logger.Warn("Rejected upload with non image content type", logger.Fields{
			"field":        field,
			"content_type": contentType,
		})
		return "", ErrInvalidFileType
	}
	if fh.Size > u.maxBytes {
		logger.Warn("Rejected oversized upload", logger.Fields{
			"field": field,
			"size":  fh.Size,
			"max":   u.maxBytes,
		})
		return "", ErrFileTooLarge
	}

	name := u.generateName(field, fh.Filename)

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	if err := u.store.Save(ctx, name, f, contentType); err != nil {
		logger.Error("Failed to store upload", err, logger.Fields{"name": name})
		return "", err
	}

	logger.Info("Upload stored", logger.Fields{
		"name": name,
		"size": fh.Size,
	})
	return name, nil
}

// Discard removes a stored upload whose owning record could not be saved.
func (u *ImageUploader) Discard(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := u.store.Delete(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Error("Failed to discard upload", err, logger.Fields{"name": name})
	}
}

func (u *ImageUploader) generateName(field, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("%s-%d-%s%s", field, u.now().UnixMilli(), uuid.NewString(), ext)
}
