package driven

import "context"

// EpochStore holds the cache epoch token: the identifier of the corpus
// version the document store and search index were built from. Each cache
// key has its own slot.
type EpochStore interface {
	// Token returns the stored token, or "" when none is stored.
	Token(ctx context.Context) (string, error)

	// SetToken persists token as the current epoch.
	SetToken(ctx context.Context, token string) error

	// Clear removes the stored token.
	Clear(ctx context.Context) error
}
