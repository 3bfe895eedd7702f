package search

import (
	"context"
	"errors"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// Error definitions for the search view.
var (
	// ErrNoSearchService indicates that no search service was provided.
	ErrNoSearchService = errors.New("search service is required")

	// ErrNoPath indicates the selected document has no path to copy.
	ErrNoPath = errors.New("document has no path")
)

// Describe turns an error from the search service into a status line.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNoCorpus):
		return "no corpus configured, set corpus.source"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "document store unavailable, search is disabled"
	case errors.Is(err, domain.ErrBuildFailure):
		return "corpus build failed, results may be incomplete"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid query"
	case errors.Is(err, context.DeadlineExceeded):
		return "search timed out"
	case errors.Is(err, context.Canceled):
		return "search cancelled"
	default:
		return err.Error()
	}
}
