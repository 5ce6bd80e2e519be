// Package kv defines the key-value persistence boundary the ledger writes
// its snapshots through, plus a read-through cached wrapper.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a small persistent key-value store. Implementations must be safe
// for concurrent use and must not retain the value slice passed to Set.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Closer is implemented by backends that hold connections or files.
type Closer interface {
	Close() error
}
