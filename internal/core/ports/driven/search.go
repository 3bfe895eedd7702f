package driven

import (
	"context"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// SearchIndex provides multi-field full-text search over documents.
// Backed by bleve.
type SearchIndex interface {
	// Add indexes a single document. Re-adding an id replaces it.
	Add(ctx context.Context, doc domain.Document) error

	// AddBulk indexes documents in one batch. A later duplicate id wins.
	AddBulk(ctx context.Context, docs []domain.Document) error

	// Search finds documents whose fields match query and returns the
	// window [offset, offset+limit) of each field's matches, in the order
	// the fields were requested. Fields with no matches at all are omitted.
	// When every returned window is empty the result is empty.
	// A non-positive limit or negative offset yields domain.ErrInvalidArgument.
	Search(ctx context.Context, query string, fields []string, limit, offset int) ([]domain.FieldHits, error)

	// SearchAll is Search without a window.
	SearchAll(ctx context.Context, query string, fields []string) ([]domain.FieldHits, error)

	// Count returns the number of indexed documents.
	Count(ctx context.Context) (int, error)

	// Reset removes every document from the index.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
