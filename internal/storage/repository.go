package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// KeyValueStore is a durable string store scoped to one user, the terminal
// counterpart of a browser's origin-scoped local storage. Set replaces the
// whole value in one step; there is no cross-process coordination.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
