// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// entry is one selectable row: a document under the field it matched in.
type entry struct {
	field string
	doc   domain.Document
}

// ResultList displays field-grouped search results in a navigable list.
// A document matching in several fields appears once per field.
type ResultList struct {
	groups   []domain.FieldDocuments
	entries  []entry
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.entries) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.entries)*3+2)
	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.entries)))
	lines = append(lines, header, "")

	// Two lines per document plus the odd field header.
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.entries) {
		end = len(r.entries)
	}

	for i := start; i < end; i++ {
		if i == start || r.entries[i].field != r.entries[i-1].field {
			lines = append(lines, r.renderHeader(r.entries[i].field))
		}
		lines = append(lines, r.renderEntry(i, &r.entries[i]))
	}

	if end < len(r.entries) {
		lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("  … %d more below", len(r.entries)-end)))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderHeader(field string) string {
	n := 0
	for _, g := range r.groups {
		if g.Field == field {
			n = len(g.Documents)
			break
		}
	}
	return r.styles.FieldHeader.Render(fmt.Sprintf("%s (%d)", field, n))
}

// renderEntry formats a document as a title line and a path line.
func (r *ResultList) renderEntry(index int, e *entry) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := e.doc.Title
	if title == "" {
		title = "(Untitled)"
	}
	maxTitleLen := r.width - 12
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title = truncate(title, maxTitleLen)
	id := fmt.Sprintf("#%d", e.doc.ID)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%s  %s", indicator, title, id))
	} else {
		titleLine = r.styles.Normal.Render(indicator+title+"  ") + r.styles.Muted.Render(id)
	}

	path := e.doc.Path
	if path == "" {
		path = "(no path)"
	}
	maxPathLen := r.width - 6
	if maxPathLen < 20 {
		maxPathLen = 20
	}
	return titleLine + "\n" + r.styles.Path.Render("    "+truncate(path, maxPathLen))
}

// truncate shortens s to at most n runes, ending in "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetResults replaces the list with a new result set and selects the first row.
func (r *ResultList) SetResults(groups []domain.FieldDocuments) {
	r.groups = domain.MergeFieldDocuments(nil, groups)
	r.rebuild()
	r.selected = 0
}

// AppendResults merges another page into the list, keeping the selection.
func (r *ResultList) AppendResults(groups []domain.FieldDocuments) {
	r.groups = domain.MergeFieldDocuments(r.groups, groups)
	r.rebuild()
}

func (r *ResultList) rebuild() {
	r.entries = r.entries[:0]
	for _, g := range r.groups {
		for _, doc := range g.Documents {
			r.entries = append(r.entries, entry{field: g.Field, doc: doc})
		}
	}
	if r.selected >= len(r.entries) {
		r.selected = 0
	}
}

// Groups returns the field groups shown.
func (r *ResultList) Groups() []domain.FieldDocuments {
	return r.groups
}

// Selected returns the index of the selected row.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.entries) {
		r.selected = index
	}
}

// SelectedDocument returns the currently selected document, or nil if none.
func (r *ResultList) SelectedDocument() *domain.Document {
	if r.selected < 0 || r.selected >= len(r.entries) {
		return nil
	}
	doc := r.entries[r.selected].doc
	return &doc
}

// SelectedField returns the field the selected document matched in.
func (r *ResultList) SelectedField() string {
	if r.selected < 0 || r.selected >= len(r.entries) {
		return ""
	}
	return r.entries[r.selected].field
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.entries)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of rows.
func (r *ResultList) Count() int {
	return len(r.entries)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.entries) == 0
}
