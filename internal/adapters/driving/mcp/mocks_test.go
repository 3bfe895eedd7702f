package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	state   domain.ServiceState
	stErr   error
	results []domain.FieldDocuments
	more    []domain.FieldDocuments
	last    *domain.QueryState
	err     error
	queries []string
}

func (m *mockSearchService) State() domain.ServiceState { return m.state }

func (m *mockSearchService) Ready() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (m *mockSearchService) Wait(_ context.Context) (domain.ServiceState, error) {
	return m.state, nil
}

func (m *mockSearchService) Err() error { return m.stErr }

func (m *mockSearchService) Query(_ context.Context, text string) ([]domain.FieldDocuments, error) {
	m.queries = append(m.queries, text)
	if m.err != nil {
		return nil, m.err
	}
	m.last = &domain.QueryState{Query: text, Limit: 10}
	return m.results, nil
}

func (m *mockSearchService) LoadMore(_ context.Context) ([]domain.FieldDocuments, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.more, nil
}

func (m *mockSearchService) Results() []domain.FieldDocuments {
	return domain.MergeFieldDocuments(m.results, m.more)
}

func (m *mockSearchService) LastQuery() (domain.QueryState, bool) {
	if m.last == nil {
		return domain.QueryState{}, false
	}
	return *m.last, true
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents map[int]domain.Document
	err       error
}

func (m *mockDocumentService) Get(_ context.Context, id int) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockDocumentService) Count(_ context.Context) (int, error) {
	return len(m.documents), m.err
}
