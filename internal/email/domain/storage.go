package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrStorageWrite indicates the object store rejected or failed a write.
	// Callers must not assume partial writes are visible.
	ErrStorageWrite = errors.New("object store write failed")
	// ErrStorageRead indicates the key is absent or the backend is unreachable.
	ErrStorageRead = errors.New("object store read failed")
)

// LinkStore stores message bodies in a content-addressed object store and
// mints short-lived signed read URLs for them.
type LinkStore interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// SignedURL returns a time-bounded read-only URL for key. The URL embeds
	// its own expiry so staleness can be judged without consulting the store.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
