package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend is the durable key-value capability behind the sleep store.
// Values are opaque strings and every Set overwrites the whole value.
type Backend interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// Location describes where the data lives (a path or a redacted DSN).
	Location() string
}

// FileBacked is implemented by backends whose data lives in a single local
// file, which is what backups and the change watcher operate on.
type FileBacked interface {
	Path() string
}
