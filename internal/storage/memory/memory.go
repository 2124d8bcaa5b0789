// Package memory provides an in-process storage.Slot. Nothing survives the
// process; it backs ephemeral sessions and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/mathnote/internal/storage"
)

// Ensure Store implements storage.Slot
var _ storage.Slot = (*Store)(nil)

// Store is a map-backed slot store.
type Store struct {
	mu     sync.Mutex
	values map[string][]byte
	getErr error
	putErr error
	puts   int
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key, or the injected failure.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key, or returns the injected failure.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}
	s.values[key] = append([]byte(nil), value...)
	s.puts++
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// FailPuts makes every following Put return err. Pass nil to recover.
func (s *Store) FailPuts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putErr = err
}

// FailGets makes every following Get return err. Pass nil to recover.
func (s *Store) FailGets(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
}

// Puts returns the number of successful writes.
func (s *Store) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}
