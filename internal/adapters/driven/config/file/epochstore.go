package file

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
)

// Ensure EpochStore implements the interface.
var _ driven.EpochStore = (*EpochStore)(nil)

// keyEscaper keeps a cache key to a single dotted segment.
var keyEscaper = strings.NewReplacer("%", "%25", ".", "%2E")

// EpochStore keeps the cache epoch token of one cache key in the TOML state
// file, under cache.<key>.epoch. Each cache key has its own slot because each
// has its own document table.
type EpochStore struct {
	state    *ConfigStore
	tokenKey string
	setAtKey string
}

// NewEpochStore creates the epoch store for cacheKey over a state store.
func NewEpochStore(state *ConfigStore, cacheKey string) *EpochStore {
	prefix := "cache." + keyEscaper.Replace(cacheKey)
	return &EpochStore{
		state:    state,
		tokenKey: prefix + ".epoch",
		setAtKey: prefix + ".updated_at",
	}
}

// Token returns the stored token, or "" when none is stored.
func (s *EpochStore) Token(_ context.Context) (string, error) {
	return s.state.GetString(s.tokenKey), nil
}

// SetToken persists token with the time it was written.
func (s *EpochStore) SetToken(_ context.Context, token string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.state.data[s.tokenKey] = token
	s.state.data[s.setAtKey] = time.Now().UTC().Format(time.RFC3339)
	return s.state.save()
}

// Clear removes the stored token.
func (s *EpochStore) Clear(_ context.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	delete(s.state.data, s.tokenKey)
	delete(s.state.data, s.setAtKey)
	return s.state.save()
}

// UpdatedAt returns when the token was last written.
func (s *EpochStore) UpdatedAt() (time.Time, bool) {
	raw := s.state.GetString(s.setAtKey)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
