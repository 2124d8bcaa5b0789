// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Slot.Get when the key has never been written.
var ErrNotFound = errors.New("slot not found")

// DefaultKey is the slot the document is persisted under.
const DefaultKey = "mathnote_data"

// Slot defines a named key-value store holding opaque values.
// The document store keeps the whole document in one slot and overwrites it
// on every change, so backends only need whole-value reads and writes.
// This abstraction allows swapping storage backends (SQLite, Badger, files)
// without changing the document layer.
type Slot interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if nothing has been written under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	// A reader never observes a partially written value.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the store.
	Close() error
}
