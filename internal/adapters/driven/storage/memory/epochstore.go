package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
)

// Ensure EpochStore implements the interface.
var _ driven.EpochStore = (*EpochStore)(nil)

// EpochStore is an in-memory implementation of driven.EpochStore.
type EpochStore struct {
	mu    sync.RWMutex
	token string
}

// NewEpochStore creates an epoch store holding token.
func NewEpochStore(token string) *EpochStore {
	return &EpochStore{token: token}
}

// Token returns the stored token.
func (s *EpochStore) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// SetToken stores token.
func (s *EpochStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the token.
func (s *EpochStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
