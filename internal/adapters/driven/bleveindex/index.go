package bleveindex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

// AnalyzerName is the analyzer used for indexed fields and query text.
const AnalyzerName = "corpus"

// fieldsKey is the internal key recording the indexed fields on disk.
var fieldsKey = []byte("corpus.fields")

// batchSize bounds the number of documents committed per bleve batch.
const batchSize = 500

// Config configures an Index.
type Config struct {
	// Fields are the indexed field names. Defaults to domain.DefaultFields.
	Fields []string

	// Order selects match ordering. Defaults to domain.IndexOrderOrdinal.
	Order domain.IndexOrder

	// Match selects token matching. Defaults to domain.MatchModeTerm.
	Match domain.MatchMode

	// Path is the on-disk index directory. Empty keeps the index in memory.
	Path string
}

func (c Config) withDefaults() Config {
	if len(c.Fields) == 0 {
		c.Fields = append([]string(nil), domain.DefaultFields...)
	}
	if !c.Order.IsValid() {
		c.Order = domain.IndexOrderOrdinal
	}
	if !c.Match.IsValid() {
		c.Match = domain.MatchModeTerm
	}
	return c
}

// Index is a bleve-backed multi-field search index.
type Index struct {
	mu     sync.RWMutex
	cfg    Config
	fields map[string]bool
	index  bleve.Index
	closed bool
}

// Open creates or opens an index. With an empty path the index is in memory;
// otherwise an existing index at the path is reopened, or a new one created.
func Open(cfg Config) (*Index, error) {
	cfg = cfg.withDefaults()

	idx := &Index{
		cfg:    cfg,
		fields: make(map[string]bool, len(cfg.Fields)),
	}
	for _, f := range cfg.Fields {
		idx.fields[f] = true
	}

	b, err := idx.openOrCreate()
	if err != nil {
		return nil, err
	}
	idx.index = b

	logger.Debug("Search index opened: fields=%v order=%s match=%s path=%q",
		cfg.Fields, cfg.Order, cfg.Match, cfg.Path)
	return idx, nil
}

func (i *Index) openOrCreate() (bleve.Index, error) {
	if i.cfg.Path == "" {
		m, err := i.buildMapping()
		if err != nil {
			return nil, err
		}
		b, err := bleve.NewMemOnly(m)
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return b, nil
	}

	b, err := bleve.Open(i.cfg.Path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		return i.create()
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", i.cfg.Path, err)
	}

	stored, err := b.GetInternal(fieldsKey)
	if err == nil && string(stored) == i.signature() {
		return b, nil
	}

	// The mapping only holds the fields the index was created with.
	logger.Warn("Index %s was built for fields %q, recreating for %v", i.cfg.Path, stored, i.cfg.Fields)
	if err := b.Close(); err != nil {
		return nil, fmt.Errorf("close index %s: %w", i.cfg.Path, err)
	}
	if err := os.RemoveAll(i.cfg.Path); err != nil {
		return nil, fmt.Errorf("remove index %s: %w", i.cfg.Path, err)
	}
	return i.create()
}

// signature identifies the indexed fields of an on-disk index.
func (i *Index) signature() string {
	return strings.Join(i.cfg.Fields, ",")
}

func (i *Index) create() (bleve.Index, error) {
	m, err := i.buildMapping()
	if err != nil {
		return nil, err
	}
	b, err := bleve.New(i.cfg.Path, m)
	if err != nil {
		return nil, fmt.Errorf("create index %s: %w", i.cfg.Path, err)
	}
	if err := b.SetInternal(fieldsKey, []byte(i.signature())); err != nil {
		b.Close()
		return nil, fmt.Errorf("record fields of %s: %w", i.cfg.Path, err)
	}
	return b, nil
}

func (i *Index) buildMapping() (mapping.IndexMapping, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(AnalyzerName, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}
	im.DefaultAnalyzer = AnalyzerName

	doc := bleve.NewDocumentStaticMapping()
	for _, f := range i.cfg.Fields {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = AnalyzerName
		fm.Store = false
		fm.IncludeInAll = false
		fm.IncludeTermVectors = false
		doc.AddFieldMappingsAt(f, fm)
	}
	im.DefaultMapping = doc
	return im, nil
}

// Config returns the effective configuration.
func (i *Index) Config() Config {
	return i.cfg
}

// ==================== Writes ====================

// Add indexes a single document, replacing any document with the same id.
func (i *Index) Add(_ context.Context, doc domain.Document) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return domain.ErrIndexClosed
	}

	if err := i.index.Index(strconv.Itoa(doc.ID), i.body(doc)); err != nil {
		return fmt.Errorf("index document %d: %w", doc.ID, err)
	}
	return nil
}

// AddBulk indexes documents in batches. Within the call a later duplicate id wins.
func (i *Index) AddBulk(ctx context.Context, docs []domain.Document) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return domain.ErrIndexClosed
	}

	for start := 0; start < len(docs); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+batchSize, len(docs))

		batch := i.index.NewBatch()
		for _, doc := range docs[start:end] {
			if err := batch.Index(strconv.Itoa(doc.ID), i.body(doc)); err != nil {
				return fmt.Errorf("batch document %d: %w", doc.ID, err)
			}
		}
		if err := i.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
	}

	logger.Debug("Indexed %d documents", len(docs))
	return nil
}

// body returns the indexable representation of doc.
func (i *Index) body(doc domain.Document) map[string]any {
	body := make(map[string]any, len(i.cfg.Fields))
	for _, f := range i.cfg.Fields {
		if v, ok := doc.Value(f); ok {
			body[f] = v
		}
	}
	return body
}

// Reset removes every document. An on-disk index is deleted and recreated.
func (i *Index) Reset(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return domain.ErrIndexClosed
	}

	if err := i.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if i.cfg.Path != "" {
		if err := os.RemoveAll(i.cfg.Path); err != nil {
			return fmt.Errorf("remove index %s: %w", i.cfg.Path, err)
		}
	}

	b, err := i.openOrCreate()
	if err != nil {
		i.closed = true
		return err
	}
	i.index = b
	return nil
}

// ==================== Reads ====================

// Count returns the number of indexed documents.
func (i *Index) Count(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return 0, domain.ErrIndexClosed
	}

	n, err := i.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return int(n), nil
}

// Search returns the window [offset, offset+limit) of each field's matches.
func (i *Index) Search(
	ctx context.Context, text string, fields []string, limit, offset int,
) ([]domain.FieldHits, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidArgument, limit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative, got %d", domain.ErrInvalidArgument, offset)
	}

	all, err := i.SearchAll(ctx, text, fields)
	if err != nil {
		return nil, err
	}
	return window(all, limit, offset), nil
}

// SearchAll returns every match of each field. Fields without matches are omitted.
func (i *Index) SearchAll(ctx context.Context, text string, fields []string) ([]domain.FieldHits, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return nil, domain.ErrIndexClosed
	}

	if len(fields) == 0 {
		fields = i.cfg.Fields
	}

	tokens := i.tokens(text)
	if len(tokens) == 0 {
		return []domain.FieldHits{}, nil
	}

	total, err := i.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if total == 0 {
		return []domain.FieldHits{}, nil
	}

	out := make([]domain.FieldHits, 0, len(fields))
	for _, field := range fields {
		if !i.fields[field] {
			logger.Debug("Field %q is not indexed, skipping", field)
			continue
		}
		ids, err := i.matchField(ctx, field, tokens, int(total))
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			continue
		}
		out = append(out, domain.FieldHits{Field: field, Result: ids})
	}
	return out, nil
}

// tokens analyses query text with the index analyzer.
func (i *Index) tokens(text string) []string {
	analyzer := i.index.Mapping().AnalyzerNamed(AnalyzerName)
	if analyzer == nil {
		return nil
	}
	stream := analyzer.Analyze([]byte(text))
	tokens := make([]string, 0, len(stream))
	for _, tok := range stream {
		tokens = append(tokens, string(tok.Term))
	}
	return tokens
}

type scoredID struct {
	id    int
	score float64
}

// matchField returns the ids of every document whose field matches all tokens.
func (i *Index) matchField(ctx context.Context, field string, tokens []string, size int) ([]int, error) {
	clauses := make([]query.Query, 0, len(tokens))
	for _, tok := range tokens {
		switch i.cfg.Match {
		case domain.MatchModePrefix:
			q := bleve.NewPrefixQuery(tok)
			q.SetField(field)
			clauses = append(clauses, q)
		default:
			q := bleve.NewTermQuery(tok)
			q.SetField(field)
			clauses = append(clauses, q)
		}
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(clauses...), size, 0, false)
	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search field %s: %w", field, err)
	}

	hits := make([]scoredID, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.Atoi(hit.ID)
		if err != nil {
			logger.Warn("Skipping hit with non-numeric id %q", hit.ID)
			continue
		}
		hits = append(hits, scoredID{id: id, score: hit.Score})
	}

	if i.cfg.Order == domain.IndexOrderRelevance {
		sort.SliceStable(hits, func(a, b int) bool {
			if hits[a].score != hits[b].score {
				return hits[a].score > hits[b].score
			}
			return hits[a].id < hits[b].id
		})
	} else {
		sort.Slice(hits, func(a, b int) bool { return hits[a].id < hits[b].id })
	}

	ids := make([]int, len(hits))
	for n, h := range hits {
		ids[n] = h.id
	}
	return ids, nil
}

// window applies [offset, offset+limit) to each field independently.
// When every window is empty the whole result collapses to an empty slice.
func window(all []domain.FieldHits, limit, offset int) []domain.FieldHits {
	out := make([]domain.FieldHits, 0, len(all))
	nonEmpty := false
	for _, fh := range all {
		start := min(offset, len(fh.Result))
		end := len(fh.Result)
		if limit < end-start {
			end = start + limit
		}
		page := append([]int{}, fh.Result[start:end]...)
		if len(page) > 0 {
			nonEmpty = true
		}
		out = append(out, domain.FieldHits{Field: fh.Field, Result: page})
	}
	if !nonEmpty {
		return []domain.FieldHits{}
	}
	return out
}

// Close releases the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	return i.index.Close()
}
