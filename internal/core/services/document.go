package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService reads documents from the document store.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service. docStore may be nil
// when storage is unavailable.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// Get retrieves a document by id.
func (s *DocumentService) Get(ctx context.Context, id int) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrStorageUnavailable
	}
	doc, err := s.docStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("document %d: %w", id, err)
	}
	return doc, nil
}

// Count returns the number of cached documents.
func (s *DocumentService) Count(ctx context.Context) (int, error) {
	if s.docStore == nil {
		return 0, domain.ErrStorageUnavailable
	}
	return s.docStore.Count(ctx)
}
