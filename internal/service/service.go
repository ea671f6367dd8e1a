package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"uniapply/internal/auth"
	apperrors "uniapply/internal/errors"
	"uniapply/internal/storage"
)

// Upload is a file received with a request.
type Upload struct {
	Filename string
	Content  io.Reader
}

// storeUpload saves up under prefix and returns its URL. A nil upload yields "".
func storeUpload(ctx context.Context, sink storage.Storage, up *Upload, prefix string) (string, error) {
	if up == nil {
		return "", nil
	}
	url, err := sink.Store(ctx, up.Content, up.Filename, prefix)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", prefix, err)
	}
	return url, nil
}

// notFound converts gorm's missing-row error into the domain error and wraps the rest.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func requireAuthenticated(caller *auth.Principal) error {
	if caller == nil {
		return apperrors.ErrUnauthenticated
	}
	return nil
}

func requireStaff(caller *auth.Principal) error {
	if caller == nil {
		return apperrors.ErrUnauthenticated
	}
	if !caller.IsStaff {
		return apperrors.ErrForbidden
	}
	return nil
}
