// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-corpus/internal/debounce"
)

// DefaultDebounce is used when NewView is given a non-positive interval.
const DefaultDebounce = 300 * time.Millisecond

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// View represents the search view with input, results list, and status bar.
//
// Typing schedules a query through a Debouncer; the fired query is delivered
// on a channel that a long-lived command reads, so the program receives a
// messages.QueryChanged once the input has been quiet for the interval.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	debouncer *debounce.Debouncer
	fired     chan string

	width      int
	height     int
	ready      bool
	settled    bool
	err        error
	focusInput bool // true = input mode (typing), false = results mode (navigating)

	// issued is the query of the newest search in flight; older completions are dropped.
	issued string
	// query is the query whose results are shown.
	query string
	// submitted is set by enter so the completion moves focus to the results.
	submitted bool
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	interval time.Duration,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if interval <= 0 {
		interval = DefaultDebounce
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		debouncer:     debounce.New(interval),
		fired:         make(chan string, 1),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blink, waits for the service to settle and begins
// listening for debounced queries.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.waitSettled(), v.listen())
}

// Close cancels any pending debounced query.
func (v *View) Close() {
	v.debouncer.Stop()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ServiceSettled:
		v.handleSettled(msg)
		return v, nil

	case messages.QueryChanged:
		var search tea.Cmd
		if msg.Query == v.currentInput() {
			search = v.performSearch(msg.Query)
		}
		return v, tea.Batch(search, v.listen())

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.MoreLoaded:
		v.handleMoreLoaded(msg)
		return v, nil

	case messages.PathCopied:
		if msg.Err != nil {
			v.statusbar.SetMessage("Copy failed: " + msg.Err.Error())
		} else {
			v.statusbar.SetMessage("Copied " + msg.Path)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(Describe(msg.Err))
		return v, nil
	}

	// Forward anything else (cursor blink) to the input
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return v, tea.Quit
	}
	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		v.debouncer.Stop()
		v.submitted = true
		return v, v.performSearch(v.currentInput())

	case tea.KeyEsc:
		if v.input.Value() == "" {
			return v, nil
		}
		v.debouncer.Stop()
		v.input.Reset()
		return v, v.performSearch("")

	case tea.KeyDown:
		if !v.list.IsEmpty() {
			v.focusResults()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.input.Changed() {
		v.schedule(v.currentInput())
	}
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		v.focusOnInput()
		return v, nil
	case keymap.Matches(key, v.keymap.Quit):
		return v, tea.Quit
	case keymap.Matches(key, v.keymap.Up):
		v.list.MoveUp()
		return v, nil
	case keymap.Matches(key, v.keymap.Down):
		v.list.MoveDown()
		return v, nil
	case keymap.Matches(key, v.keymap.LoadMore):
		return v, v.loadMore()
	case keymap.Matches(key, v.keymap.Copy):
		return v, v.copySelected()
	case keymap.Matches(key, v.keymap.Open):
		doc := v.list.SelectedDocument()
		if doc == nil {
			return v, nil
		}
		selected := *doc
		return v, func() tea.Msg {
			return messages.DocumentSelected{Document: selected}
		}
	case keymap.Matches(key, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}
	case key == "n" || key == "/":
		v.focusOnInput()
		v.input.Reset()
		return v, nil
	}
	return v, nil
}

// schedule debounces a search-as-you-type query.
func (v *View) schedule(query string) {
	v.debouncer.Debounce(func() {
		v.deliver(query)
	})
}

// deliver hands a fired query to the listener, replacing one it has not read yet.
func (v *View) deliver(query string) {
	for {
		select {
		case v.fired <- query:
			return
		default:
		}
		select {
		case <-v.fired:
		default:
		}
	}
}

// listen waits for the next debounced query.
func (v *View) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case query := <-v.fired:
			return messages.QueryChanged{Query: query}
		case <-v.ctx.Done():
			return nil
		}
	}
}

// waitSettled reports when the search service leaves Loading.
func (v *View) waitSettled() tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		state, err := v.searchService.Wait(v.ctx)
		if err != nil {
			return nil
		}
		return messages.ServiceSettled{State: state, Err: v.searchService.Err()}
	}
}

func (v *View) handleSettled(msg messages.ServiceSettled) {
	v.settled = true
	if msg.State == domain.StateDegraded {
		v.statusbar.SetWarning(Describe(msg.Err))
	}
	if v.statusbar.State() == status.StateLoading {
		v.statusbar.SetState(status.StateReady)
	}
}

// performSearch runs query and returns its first page.
func (v *View) performSearch(query string) tea.Cmd {
	v.issued = query
	if query != "" {
		v.statusbar.SetState(status.StateSearching)
	}
	svc := v.searchService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := svc.Query(ctx, query)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// handleSearchCompleted processes a first page.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Query != v.issued {
		return
	}
	submitted := v.submitted
	v.submitted = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(Describe(msg.Err))
		return
	}

	v.err = nil
	v.query = msg.Query
	v.list.SetResults(msg.Results)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(v.list.Count())
	if msg.Query == "" {
		v.statusbar.SetState(status.StateReady)
		return
	}
	v.statusbar.SetState(status.StateResults)

	if submitted && !v.list.IsEmpty() {
		v.focusResults()
	}
}

// loadMore fetches the next page of the shown query.
func (v *View) loadMore() tea.Cmd {
	if v.query == "" || v.searchService == nil {
		return nil
	}
	v.statusbar.SetMessage("Loading more...")
	svc := v.searchService
	ctx := v.ctx
	query := v.query
	return func() tea.Msg {
		results, err := svc.LoadMore(ctx)
		return messages.MoreLoaded{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleMoreLoaded(msg messages.MoreLoaded) {
	if msg.Query != v.query {
		return
	}
	if msg.Err != nil {
		v.statusbar.SetMessage("Load more failed: " + Describe(msg.Err))
		return
	}
	if domain.CountDocuments(msg.Results) == 0 {
		v.statusbar.SetMessage("No more results")
		return
	}
	v.list.AppendResults(msg.Results)
	v.statusbar.SetResultCount(v.list.Count())
	v.statusbar.SetMessage("")
}

// copySelected copies the selected document's path to the clipboard.
func (v *View) copySelected() tea.Cmd {
	doc := v.list.SelectedDocument()
	if doc == nil {
		return nil
	}
	path := doc.Path
	return func() tea.Msg {
		if path == "" {
			return messages.PathCopied{Err: ErrNoPath}
		}
		return messages.PathCopied{Path: path, Err: copyToClipboard(path)}
	}
}

func (v *View) focusResults() {
	v.focusInput = false
	v.input.Blur()
}

func (v *View) focusOnInput() {
	v.focusInput = true
	v.input.Focus()
}

func (v *View) currentInput() string {
	return strings.TrimSpace(v.input.Value())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("sercha-corpus"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+Describe(v.err)), "")
	}

	if !v.settled && v.list.IsEmpty() {
		sections = append(sections, v.styles.Muted.Render("Loading corpus, results will appear once it is ready..."))
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Settled returns whether the search service has finished loading.
func (v *View) Settled() bool {
	return v.settled
}

// Query returns the query whose results are shown.
func (v *View) Query() string {
	return v.query
}

// Input returns the current input text.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput sets the input text without scheduling a search.
func (v *View) SetInput(text string) {
	v.input.SetValue(text)
}

// Results returns the field groups shown.
func (v *View) Results() []domain.FieldDocuments {
	return v.list.Groups()
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	return v.list.SelectedDocument()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}

// Warning returns the degraded reason shown in the status bar.
func (v *View) Warning() string {
	return v.statusbar.Warning()
}
