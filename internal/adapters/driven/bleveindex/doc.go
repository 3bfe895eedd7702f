// Package bleveindex implements the driven.SearchIndex port with bleve.
//
// Every configured field gets its own text mapping analysed with a
// lower-casing unicode analyzer that keeps stop words, so short words such
// as "the" remain searchable. Queries are analysed the same way and every
// token must match.
//
// The index lives in memory by default. When a path is configured the index
// is kept on disk and survives restarts, so restoring a fresh cache does not
// re-index the corpus.
package bleveindex
