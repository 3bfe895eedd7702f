package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// snippetLength is the maximum number of runes of content returned per document.
const snippetLength = 200

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the words to find in the corpus"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum documents per field (default: the page size)"`
}

// LoadMoreInput is the input schema for the load_more tool.
type LoadMoreInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum documents per field (default: the page size)"`
}

// SearchOutput is the output schema for the search and load_more tools.
type SearchOutput struct {
	Query   string        `json:"query"`
	State   string        `json:"state"`
	Warning string        `json:"warning,omitempty"`
	Fields  []FieldOutput `json:"fields"`
	Count   int           `json:"count"`
}

// FieldOutput holds the documents that matched in one field.
type FieldOutput struct {
	Field     string           `json:"field"`
	Documents []DocumentOutput `json:"documents"`
}

// DocumentOutput represents a single matched document.
type DocumentOutput struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Path    string `json:"path"`
	Snippet string `json:"snippet,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "search",
		Description: "Search the corpus. Returns the first page of matches grouped by field " +
			"(title matches first, then content). Use load_more for the next page.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_more",
		Description: "Return the next page of matches for the last search.",
	}, s.handleLoadMore)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if err := s.allow(); err != nil {
		return nil, SearchOutput{}, err
	}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, SearchOutput{}, ErrEmptyQuery
	}

	groups, err := s.ports.Search.Query(ctx, query)
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}

	return nil, s.output(query, groups, input.Limit), nil
}

// handleLoadMore handles the load_more tool invocation.
func (s *Server) handleLoadMore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadMoreInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if err := s.allow(); err != nil {
		return nil, SearchOutput{}, err
	}

	groups, err := s.ports.Search.LoadMore(ctx)
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}

	query := ""
	if last, ok := s.ports.Search.LastQuery(); ok {
		query = last.Query
	}
	return nil, s.output(query, groups, input.Limit), nil
}

// output converts field groups, keeping at most limit documents per field
// when limit is positive.
func (s *Server) output(query string, groups []domain.FieldDocuments, limit int) SearchOutput {
	state := s.ports.Search.State()
	out := SearchOutput{
		Query:   query,
		State:   state.String(),
		Warning: stateWarning(state, s.ports.Search.Err()),
		Fields:  make([]FieldOutput, 0, len(groups)),
	}

	for _, g := range groups {
		docs := g.Documents
		if limit > 0 && len(docs) > limit {
			docs = docs[:limit]
		}
		field := FieldOutput{Field: g.Field, Documents: make([]DocumentOutput, len(docs))}
		for i := range docs {
			field.Documents[i] = DocumentOutput{
				ID:      docs[i].ID,
				Title:   docs[i].Title,
				Path:    docs[i].Path,
				Snippet: snippet(docs[i].Content),
			}
		}
		out.Count += len(docs)
		out.Fields = append(out.Fields, field)
	}

	return out
}

// snippet collapses whitespace and truncates content to snippetLength runes.
func snippet(content string) string {
	text := strings.Join(strings.Fields(content), " ")
	runes := []rune(text)
	if len(runes) <= snippetLength {
		return text
	}
	return string(runes[:snippetLength]) + "…"
}
