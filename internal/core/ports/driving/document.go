package driving

import (
	"context"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// DocumentService reads documents from the cached corpus.
type DocumentService interface {
	// Get retrieves a document by id.
	// Returns domain.ErrNotFound if no document has that id.
	Get(ctx context.Context, id int) (*domain.Document, error)

	// Count returns the number of cached documents.
	Count(ctx context.Context) (int, error)
}
