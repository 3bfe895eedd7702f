package driven

import (
	"context"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// DocumentStore persists corpus documents in one logical table.
// Backed by SQLite, one table per cache key.
type DocumentStore interface {
	// BulkPut inserts or replaces documents in a single transaction.
	// Readers never observe a partial write.
	BulkPut(ctx context.Context, docs []domain.Document) error

	// Get retrieves a document by id.
	// Returns domain.ErrNotFound for an id that was never stored.
	Get(ctx context.Context, id int) (*domain.Document, error)

	// All returns every stored document ordered by id.
	All(ctx context.Context) ([]domain.Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Drop removes the entire table.
	Drop(ctx context.Context) error
}
