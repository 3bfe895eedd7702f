// Package corpus implements driven.CorpusSource for JSON corpora.
//
// A corpus is a JSON array of objects with id, title, path and content plus
// any extra string attributes. FileSource reads one file or every file
// matched by a doublestar glob; HTTPSource downloads a single payload.
//
// Both sources report a fingerprint without reading the corpus, which
// EpochToken turns into the cache epoch token.
package corpus
