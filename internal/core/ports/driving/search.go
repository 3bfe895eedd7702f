package driving

import (
	"context"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// State returns the current lifecycle state.
	State() domain.ServiceState

	// Ready is closed once the service is Ready or Degraded.
	Ready() <-chan struct{}

	// Wait blocks until the service settles or ctx is done.
	Wait(ctx context.Context) (domain.ServiceState, error)

	// Err returns the failure that degraded the service, if any.
	Err() error

	// Query runs a new query over the default fields and returns the first page.
	Query(ctx context.Context, text string) ([]domain.FieldDocuments, error)

	// LoadMore returns the next page of the last query and appends it to Results.
	LoadMore(ctx context.Context) ([]domain.FieldDocuments, error)

	// Results returns every page loaded for the last query.
	Results() []domain.FieldDocuments

	// LastQuery returns the state of the last query, if any.
	LastQuery() (domain.QueryState, bool)
}
