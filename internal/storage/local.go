package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes files below a directory that the HTTP server exposes at publicURL.
type LocalStorage struct {
	root      string
	publicURL string
}

// NewLocalStorage creates root if needed.
func NewLocalStorage(root, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStorage{root: root, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (s *LocalStorage) Store(ctx context.Context, data io.Reader, filename, prefix string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := GenerateKey(prefix, filename)
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", key, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}
