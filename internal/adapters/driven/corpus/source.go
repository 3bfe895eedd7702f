package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
)

// Open returns the source for location: an HTTPSource for http(s) URLs and a
// FileSource for anything else.
func Open(location string, client *http.Client) driven.CorpusSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, client)
	}
	return NewFileSource(location)
}

// EpochToken derives a cache epoch token from a source fingerprint.
func EpochToken(fingerprint string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fingerprint)).String()
}

// BuildToken returns buildID when set, otherwise the token derived from the
// source fingerprint.
func BuildToken(ctx context.Context, source driven.CorpusSource, buildID string) (string, error) {
	if buildID != "" {
		return buildID, nil
	}
	if source == nil {
		return "", domain.ErrNoCorpus
	}
	fp, err := source.Fingerprint(ctx)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", source.Describe(), err)
	}
	return EpochToken(fp), nil
}

// decode reads a JSON array of documents.
func decode(r io.Reader) ([]domain.Document, error) {
	var docs []domain.Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding corpus: %w", err)
	}
	return docs, nil
}

// dedupe keeps the last document for each id at the position of the first.
func dedupe(docs []domain.Document) []domain.Document {
	pos := make(map[int]int, len(docs))
	out := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if i, ok := pos[doc.ID]; ok {
			out[i] = doc
			continue
		}
		pos[doc.ID] = len(out)
		out = append(out, doc)
	}
	return out
}
