package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driving"
)

const testCorpus = `[
	{"id": 1, "title": "Introduction to Machine Learning", "path": "/ml/", "content": "Models learn from data."},
	{"id": 2, "title": "The Basics of Statistics", "path": "/stats/", "content": "Means and variance of data.", "tactic": "TA0001"},
	{"id": 3, "title": "The Art of Data Cleaning", "path": "/clean/", "content": "Cleaning data before learning."}
]`

// resetFlags restores every package-level flag variable between runs of
// the shared root command.
func resetFlags() {
	configDir = ""
	dataDir = ""
	corpusLocation = ""
	buildID = ""
	cacheKey = ""
	verbose = false

	searchLimit = 0
	searchPages = 1
	searchFields = nil
	searchJSON = false

	indexForce = false
	indexWatch = false
	statusJSON = false
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags()
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// setupTestServices injects services for the duration of the test.
func setupTestServices(t *testing.T, search driving.SearchService, document driving.DocumentService) {
	t.Helper()
	searchService = search
	documentService = document
	t.Cleanup(func() {
		searchService = nil
		documentService = nil
		settingsService = nil
	})
}

// testDirs holds the directories of a command run against real adapters.
type testDirs struct {
	config string
	data   string
	corpus string
}

// newTestDirs writes testCorpus into a temp dir and returns the dirs.
func newTestDirs(t *testing.T) testDirs {
	t.Helper()
	root := t.TempDir()
	d := testDirs{
		config: filepath.Join(root, "config"),
		data:   filepath.Join(root, "data"),
		corpus: filepath.Join(root, "corpus.json"),
	}
	require.NoError(t, os.WriteFile(d.corpus, []byte(testCorpus), 0600))
	return d
}

// args prefixes the persistent flags for d.
func (d testDirs) args(args ...string) []string {
	return append([]string{
		"--config-dir", d.config,
		"--data-dir", d.data,
		"--corpus", d.corpus,
	}, args...)
}

// MockSearchService implements driving.SearchService for CLI tests.
type MockSearchService struct {
	StateValue domain.ServiceState
	ErrValue   error
	Pages      [][]domain.FieldDocuments

	queries []string
	page    int
	results []domain.FieldDocuments
	ready   chan struct{}
}

func newMockSearchService(pages ...[]domain.FieldDocuments) *MockSearchService {
	ready := make(chan struct{})
	close(ready)
	return &MockSearchService{StateValue: domain.StateReady, Pages: pages, ready: ready}
}

func (m *MockSearchService) State() domain.ServiceState { return m.StateValue }

func (m *MockSearchService) Ready() <-chan struct{} { return m.ready }

func (m *MockSearchService) Wait(ctx context.Context) (domain.ServiceState, error) {
	return m.StateValue, ctx.Err()
}

func (m *MockSearchService) Err() error { return m.ErrValue }

func (m *MockSearchService) Query(_ context.Context, text string) ([]domain.FieldDocuments, error) {
	m.queries = append(m.queries, text)
	m.page = 0
	m.results = nil
	return m.next(), nil
}

func (m *MockSearchService) LoadMore(_ context.Context) ([]domain.FieldDocuments, error) {
	m.page++
	return m.next(), nil
}

func (m *MockSearchService) next() []domain.FieldDocuments {
	if m.page >= len(m.Pages) {
		return []domain.FieldDocuments{}
	}
	page := m.Pages[m.page]
	m.results = domain.MergeFieldDocuments(m.results, page)
	return page
}

func (m *MockSearchService) Results() []domain.FieldDocuments {
	return domain.MergeFieldDocuments(nil, m.results)
}

func (m *MockSearchService) LastQuery() (domain.QueryState, bool) {
	if len(m.queries) == 0 {
		return domain.QueryState{}, false
	}
	return domain.QueryState{Query: m.queries[len(m.queries)-1]}, true
}

// MockDocumentService implements driving.DocumentService for CLI tests.
type MockDocumentService struct {
	Docs map[int]domain.Document
	Err  error
}

func (m *MockDocumentService) Get(_ context.Context, id int) (*domain.Document, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	doc, ok := m.Docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *MockDocumentService) Count(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Docs), nil
}
