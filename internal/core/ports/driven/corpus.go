package driven

import (
	"context"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// CorpusSource provides the raw document corpus.
type CorpusSource interface {
	// Fetch loads every document of the corpus.
	Fetch(ctx context.Context) ([]domain.Document, error)

	// Fingerprint returns a cheap version marker for the corpus.
	// It must not download or parse the corpus itself.
	Fingerprint(ctx context.Context) (string, error)

	// Describe returns a human-readable location of the corpus.
	Describe() string
}
