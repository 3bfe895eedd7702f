// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// ServiceSettled is sent once the search service leaves Loading.
type ServiceSettled struct {
	State domain.ServiceState
	Err   error
}

// QueryChanged is sent when a debounced query fires.
type QueryChanged struct {
	Query string
}

// SearchCompleted carries the first page of a query back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.FieldDocuments
	Err     error
}

// MoreLoaded carries the next page of the current query.
type MoreLoaded struct {
	Query   string
	Results []domain.FieldDocuments
	Err     error
}

// PathCopied reports the outcome of copying a document path to the clipboard.
type PathCopied struct {
	Path string
	Err  error
}

// DocumentSelected signals a result was opened.
type DocumentSelected struct {
	Document domain.Document
}

// DocumentLoaded carries a full document for the content view.
type DocumentLoaded struct {
	DocumentID int
	Document   *domain.Document
	Err        error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search input and results view.
	ViewSearch ViewType = iota
	// ViewDocContent shows a document's content.
	ViewDocContent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewDocContent:
		return "doc_content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
