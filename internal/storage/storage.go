package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"uniapply/internal/config"
)

// Destination prefixes for uploaded files.
const (
	PrefixAvatars    = "avatars"
	PrefixThumbnails = "thumbnails"
	PrefixImages     = "images"
	PrefixDocuments  = "documents"
	PrefixLetters    = "letters"
)

// Storage is a sink for uploaded files. Store returns a URL the file can be fetched from.
type Storage interface {
	Store(ctx context.Context, data io.Reader, filename, prefix string) (string, error)
}

// New returns the storage driver selected in cfg.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(cfg.S3)
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// GenerateKey builds a collision-free object key under prefix that keeps the original extension.
func GenerateKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = sanitize(base)
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s/%s_%s%s", prefix, uuid.New().String()[:8], base, ext)
}

// ContentType guesses the MIME type from the file extension.
func ContentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '.':
			b.WriteRune('_')
		}
	}
	return b.String()
}
