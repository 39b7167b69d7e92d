package memory

import (
	"context"
	"sync"

	"invoicepro/backend/internal/store"
)

var _ store.KV = (*Store)(nil)

// Store keeps blobs in process memory. Nothing survives a restart.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]string
}

func New() *Store {
	return &Store{blobs: make(map[string]string)}
}

// NewSeeded returns a store preloaded with raw blobs, keyed by name.
func NewSeeded(blobs map[string]string) *Store {
	s := New()
	for name, value := range blobs {
		s.blobs[name] = value
	}
	return s
}

func (s *Store) Get(_ context.Context, name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.blobs[name]
	return value, exists, nil
}

func (s *Store) Set(_ context.Context, name string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[name] = value
	return nil
}

func (s *Store) Close() error {
	return nil
}
