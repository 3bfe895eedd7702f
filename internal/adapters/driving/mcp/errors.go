// Package mcp provides an MCP (Model Context Protocol) server adapter for sercha-corpus.
// It lets AI assistants search the cached corpus and page through results.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

var (
	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrRateLimited is returned when tool calls exceed the configured rate.
	ErrRateLimited = errors.New("mcp: rate limit exceeded, retry shortly")

	// ErrEmptyQuery is returned when the search tool is called without a query.
	ErrEmptyQuery = errors.New("mcp: query must not be empty")
)

// toolError maps service errors to messages suitable for an assistant.
func toolError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return fmt.Errorf("mcp: invalid request: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return errors.New("mcp: search timed out while the corpus was loading")
	case errors.Is(err, context.Canceled):
		return errors.New("mcp: request cancelled")
	default:
		return fmt.Errorf("mcp: %w", err)
	}
}

// stateWarning describes why results may be missing, or "" when the service is ready.
func stateWarning(state domain.ServiceState, err error) string {
	switch state {
	case domain.StateReady:
		return ""
	case domain.StateDegraded:
		if errors.Is(err, domain.ErrStorageUnavailable) {
			return "search is disabled: document storage is unavailable"
		}
		if err != nil {
			return fmt.Sprintf("search is degraded, results may be incomplete: %v", err)
		}
		return "search is degraded, results may be incomplete"
	default:
		return "corpus is still loading"
	}
}
