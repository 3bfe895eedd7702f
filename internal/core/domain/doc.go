// Package domain defines the core business entities for sercha-corpus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a corpus record with an integer id and text fields
//   - FieldHits: ordered document ids matched in one field
//   - FieldDocuments: FieldHits resolved into documents
//   - QueryState: the last query, kept for load-more pagination
//   - ServiceState: the search lifecycle state
//   - Settings: typed application settings
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
