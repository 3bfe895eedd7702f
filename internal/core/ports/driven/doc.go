// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - SearchIndex: in-memory multi-field full-text index (bleve)
//   - DocumentStore: persistent document table for one cache key (SQLite)
//   - EpochStore: the persisted cache epoch token slot (TOML state file)
//   - CorpusSource: fetches the raw corpus and fingerprints it
//   - ConfigStore: application configuration
//
// A nil DocumentStore means storage is unavailable; the search service
// degrades instead of failing.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
