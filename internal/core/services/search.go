package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchOptions configures the queries issued by a SearchService.
type SearchOptions struct {
	// Fields are searched in this order. Defaults to domain.DefaultFields.
	Fields []string

	// PageSize is the limit of every page. Defaults to domain.DefaultPageSize.
	PageSize int
}

// SearchService owns the search index and document store, brings them up
// from the cache or a fresh corpus build, and answers paged queries.
//
// The index and store are only written during initialization. Queries wait
// until the service has settled in Ready or Degraded.
type SearchService struct {
	index  driven.SearchIndex
	docs   driven.DocumentStore
	epochs driven.EpochStore

	fields   []string
	pageSize int

	started   atomic.Bool
	ready     chan struct{}
	readyOnce sync.Once

	// pageMu serializes Query and LoadMore so offsets advance one page at a time.
	pageMu sync.Mutex

	mu      sync.RWMutex
	state   domain.ServiceState
	err     error
	last    *domain.QueryState
	results []domain.FieldDocuments
}

// NewSearchService creates a new search service.
// docs may be nil when the document store could not be opened; the
// service then settles in Degraded with domain.ErrStorageUnavailable.
func NewSearchService(
	index driven.SearchIndex,
	docs driven.DocumentStore,
	epochs driven.EpochStore,
	opts SearchOptions,
) *SearchService {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = domain.DefaultFields
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	return &SearchService{
		index:    index,
		docs:     docs,
		epochs:   epochs,
		fields:   append([]string(nil), fields...),
		pageSize: pageSize,
		ready:    make(chan struct{}),
	}
}

// Initialize restores the cache when the stored epoch token equals token,
// otherwise rebuilds the index and store from source. It returns the settled
// state. Failures degrade the service and are available from Err.
//
// Only the first call to Initialize or InitializeAsync acts; later calls
// return the current state.
func (s *SearchService) Initialize(ctx context.Context, token string, source driven.CorpusSource) domain.ServiceState {
	if !s.begin() {
		return s.State()
	}
	s.run(ctx, token, source)
	return s.State()
}

// InitializeAsync runs Initialize in the background. Use Ready or Wait to
// observe completion.
func (s *SearchService) InitializeAsync(ctx context.Context, token string, source driven.CorpusSource) {
	if !s.begin() {
		return
	}
	go s.run(ctx, token, source)
}

func (s *SearchService) begin() bool {
	if !s.started.CompareAndSwap(false, true) {
		return false
	}
	s.mu.Lock()
	s.state = domain.StateLoading
	s.mu.Unlock()
	return true
}

func (s *SearchService) run(ctx context.Context, token string, source driven.CorpusSource) {
	err := s.load(ctx, token, source)

	s.mu.Lock()
	if err != nil {
		logger.Warn("Search degraded: %v", err)
		s.state = domain.StateDegraded
		s.err = err
	} else {
		s.state = domain.StateReady
	}
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *SearchService) load(ctx context.Context, token string, source driven.CorpusSource) error {
	logger.Section("Cache Restore")

	if s.docs == nil || s.epochs == nil {
		return domain.ErrStorageUnavailable
	}

	stored, err := s.epochs.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading cache token: %w", domain.ErrStorageUnavailable, err)
	}
	logger.Debug("Stored token: %q, build token: %q", stored, token)

	if token != "" && stored == token {
		restored, err := s.restore(ctx)
		if err != nil || restored {
			return err
		}
		logger.Warn("Cache token is current but the document store is empty, rebuilding")
	}
	return s.rebuild(ctx, token, source)
}

// restore serves the cached corpus. An empty index is hydrated from the
// document store so a fresh process does not refetch. It reports false when
// the index and the store are both empty.
func (s *SearchService) restore(ctx context.Context) (bool, error) {
	n, err := s.index.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: counting index: %w", domain.ErrBuildFailure, err)
	}
	if n > 0 {
		logger.Info("Cache is current, %d documents indexed", n)
		return true, nil
	}

	docs, err := s.docs.All(ctx)
	if err != nil {
		return false, fmt.Errorf("loading cached documents: %w", err)
	}
	if len(docs) == 0 {
		return false, nil
	}
	if err := s.index.AddBulk(ctx, docs); err != nil {
		return false, fmt.Errorf("%w: indexing cached documents: %w", domain.ErrBuildFailure, err)
	}
	logger.Info("Cache is current, indexed %d cached documents", len(docs))
	return true, nil
}

// rebuild replaces the cache with a fresh copy of the corpus. The stored
// token is cleared first and written last, so an interrupted rebuild is
// redone on the next start.
func (s *SearchService) rebuild(ctx context.Context, token string, source driven.CorpusSource) error {
	logger.Section("Index Build")

	if source == nil {
		return fmt.Errorf("%w: %w", domain.ErrBuildFailure, domain.ErrNoCorpus)
	}

	if err := s.epochs.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache token: %w", err)
	}
	if err := s.docs.Drop(ctx); err != nil {
		return fmt.Errorf("dropping cached documents: %w", err)
	}
	if err := s.index.Reset(ctx); err != nil {
		return fmt.Errorf("%w: resetting index: %w", domain.ErrBuildFailure, err)
	}

	logger.Debug("Fetching corpus from %s", source.Describe())
	docs, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("%w: fetching %s: %w", domain.ErrBuildFailure, source.Describe(), err)
	}
	logger.Debug("Fetched %d documents", len(docs))

	if err := s.index.AddBulk(ctx, docs); err != nil {
		return fmt.Errorf("%w: indexing: %w", domain.ErrBuildFailure, err)
	}
	if err := s.docs.BulkPut(ctx, docs); err != nil {
		return fmt.Errorf("storing documents: %w", err)
	}

	if token != "" {
		if err := s.epochs.SetToken(ctx, token); err != nil {
			return fmt.Errorf("saving cache token: %w", err)
		}
	}
	logger.Info("Built cache with %d documents", len(docs))
	return nil
}

// State returns the current lifecycle state.
func (s *SearchService) State() domain.ServiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the failure that degraded the service, if any.
func (s *SearchService) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Ready is closed once the service is Ready or Degraded.
func (s *SearchService) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the service settles or ctx is done.
func (s *SearchService) Wait(ctx context.Context) (domain.ServiceState, error) {
	select {
	case <-s.ready:
		return s.State(), nil
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

// Query runs a new query over the configured fields and returns its first
// page. Previous results are discarded. Empty text clears the query.
func (s *SearchService) Query(ctx context.Context, text string) ([]domain.FieldDocuments, error) {
	if _, err := s.Wait(ctx); err != nil {
		return nil, err
	}

	s.pageMu.Lock()
	defer s.pageMu.Unlock()

	logger.Section("Search Execution")
	logger.Debug("Query: %q", text)

	text = strings.TrimSpace(text)
	if text == "" {
		s.mu.Lock()
		s.last = nil
		s.results = nil
		s.mu.Unlock()
		return []domain.FieldDocuments{}, nil
	}

	q := domain.QueryState{
		Query:  text,
		Fields: append([]string(nil), s.fields...),
		Limit:  s.pageSize,
	}
	page, err := s.page(ctx, q)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = &q
	s.results = domain.MergeFieldDocuments(nil, page)
	s.mu.Unlock()

	logger.Info("First page: %d documents", domain.CountDocuments(page))
	return page, nil
}

// LoadMore fetches the page after the last one loaded and appends it to
// Results. It returns only the new documents; the result is empty when
// there was no query or nothing further matches.
func (s *SearchService) LoadMore(ctx context.Context) ([]domain.FieldDocuments, error) {
	if _, err := s.Wait(ctx); err != nil {
		return nil, err
	}

	s.pageMu.Lock()
	defer s.pageMu.Unlock()

	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last == nil {
		return []domain.FieldDocuments{}, nil
	}

	next := last.Next()
	logger.Debug("Loading more for %q at offset %d", next.Query, next.Offset)
	page, err := s.page(ctx, next)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = &next
	s.results = domain.MergeFieldDocuments(s.results, page)
	s.mu.Unlock()

	return page, nil
}

// Results returns every page loaded for the current query.
func (s *SearchService) Results() []domain.FieldDocuments {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.MergeFieldDocuments(nil, s.results)
}

// LastQuery returns the state of the current query, if any.
func (s *SearchService) LastQuery() (domain.QueryState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return domain.QueryState{}, false
	}
	q := *s.last
	q.Fields = append([]string(nil), s.last.Fields...)
	return q, true
}

// page searches one window and resolves its ids.
// Only invalid arguments and context errors are returned; other failures
// are logged and produce an empty page.
func (s *SearchService) page(ctx context.Context, q domain.QueryState) ([]domain.FieldDocuments, error) {
	hits, err := s.index.Search(ctx, q.Query, q.Fields, q.Limit, q.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || ctx.Err() != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		logger.Warn("Search %q failed: %v", q.Query, err)
		return []domain.FieldDocuments{}, nil
	}
	return s.resolve(ctx, hits)
}

// resolve loads the documents for each field's ids in index order.
// Ids without a stored document are skipped, as are groups left empty.
func (s *SearchService) resolve(ctx context.Context, hits []domain.FieldHits) ([]domain.FieldDocuments, error) {
	out := make([]domain.FieldDocuments, 0, len(hits))
	for _, h := range hits {
		group := domain.FieldDocuments{Field: h.Field, Documents: make([]domain.Document, 0, len(h.Result))}
		for _, id := range h.Result {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			doc, ok := s.lookup(ctx, id)
			if ok {
				group.Documents = append(group.Documents, doc)
			}
		}
		if len(group.Documents) > 0 {
			out = append(out, group)
		}
	}
	return out, nil
}

func (s *SearchService) lookup(ctx context.Context, id int) (domain.Document, bool) {
	if s.docs == nil {
		logger.Debug("%v: no document store for id %d", domain.ErrResolutionGap, id)
		return domain.Document{}, false
	}

	doc, err := s.docs.Get(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("%v: id %d", domain.ErrResolutionGap, id)
		return domain.Document{}, false
	case err != nil:
		logger.Warn("Resolving id %d: %v", id, err)
		return domain.Document{}, false
	}
	return *doc, true
}
