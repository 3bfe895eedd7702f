package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates malformed arguments, such as a
	// non-positive limit or a negative offset.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageUnavailable indicates the persistent store cannot be used
	// in this environment. Search is disabled rather than retried.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrBuildFailure indicates the corpus fetch or index build failed.
	// The service degrades to the index it has.
	ErrBuildFailure = errors.New("build failure")

	// ErrResolutionGap indicates an index hit has no stored document.
	ErrResolutionGap = errors.New("resolution gap")

	// ErrNoCorpus indicates a rebuild is required but no corpus source is configured.
	ErrNoCorpus = errors.New("no corpus source configured")

	// ErrIndexClosed indicates the search index has been closed.
	ErrIndexClosed = errors.New("search index closed")
)
