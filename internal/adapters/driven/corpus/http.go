package corpus

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// Ensure HTTPSource implements the interface.
var _ driven.CorpusSource = (*HTTPSource)(nil)

// defaultTimeout bounds a corpus download when no client is supplied.
const defaultTimeout = 60 * time.Second

// HTTPSource downloads the corpus as a single JSON payload.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source for url. A nil client uses a client with a
// 60 second timeout.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPSource{url: url, client: client}
}

// Describe returns the URL.
func (s *HTTPSource) Describe() string {
	return s.url
}

// Fetch downloads and decodes the corpus.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", s.url, resp.Status)
	}

	docs, err := decode(resp.Body)
	if err != nil {
		return nil, err
	}
	logger.Debug("Downloaded %d documents from %s", len(docs), s.url)
	return dedupe(docs), nil
}

// Fingerprint uses the ETag or Last-Modified header of a HEAD request.
// When neither is available, or the server cannot be reached, the URL alone
// is the fingerprint so a cached corpus keeps being served offline.
func (s *HTTPSource) Fingerprint(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Debug("HEAD %s failed, using URL as fingerprint: %v", s.url, err)
		return s.url, nil
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debug("HEAD %s returned %s, using URL as fingerprint", s.url, resp.Status)
		return s.url, nil
	}
	if etag := resp.Header.Get("ETag"); etag != "" {
		return s.url + "|etag:" + etag, nil
	}
	if modified := resp.Header.Get("Last-Modified"); modified != "" {
		return s.url + "|modified:" + modified, nil
	}
	return s.url, nil
}
