// Package sqlite provides the SQLite-backed persistent document store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single database holds one document
// table per corpus cache key; DocumentStore(cacheKey) returns the driven.DocumentStore
// for that table.
//
// # Schema
//
// The registry of document tables is managed through versioned migrations stored
// in the migrations/ directory. Document tables are created on first write and
// named after a hash of their cache key.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha-corpus/data/corpus.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode; bulk writes run in a single transaction so readers never
// see a partial corpus.
package sqlite
