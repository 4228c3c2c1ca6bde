package credentials

import (
	"context"
	"time"

	apperrors "github.com/jrsteele09/go-social-frontend/internal/errors"
)

// ErrNotFound is returned by Get when the named secret is absent or expired.
var ErrNotFound = apperrors.ErrSecretNotFound

// Store keeps named secrets (the access and refresh tokens) in durable,
// server readable storage. Values are opaque to the store.
type Store interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string, ttl time.Duration) error
	Clear(ctx context.Context, name string) error
}
