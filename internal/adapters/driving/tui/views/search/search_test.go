package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	QueryFunc    func(ctx context.Context, text string) ([]domain.FieldDocuments, error)
	LoadMoreFunc func(ctx context.Context) ([]domain.FieldDocuments, error)
	WaitFunc     func(ctx context.Context) (domain.ServiceState, error)
	ErrValue     error
}

func (m *MockSearchService) State() domain.ServiceState { return domain.StateReady }

func (m *MockSearchService) Ready() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (m *MockSearchService) Wait(ctx context.Context) (domain.ServiceState, error) {
	if m.WaitFunc != nil {
		return m.WaitFunc(ctx)
	}
	return domain.StateReady, nil
}

func (m *MockSearchService) Err() error { return m.ErrValue }

func (m *MockSearchService) Query(ctx context.Context, text string) ([]domain.FieldDocuments, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, text)
	}
	return []domain.FieldDocuments{}, nil
}

func (m *MockSearchService) LoadMore(ctx context.Context) ([]domain.FieldDocuments, error) {
	if m.LoadMoreFunc != nil {
		return m.LoadMoreFunc(ctx)
	}
	return []domain.FieldDocuments{}, nil
}

func (m *MockSearchService) Results() []domain.FieldDocuments { return nil }

func (m *MockSearchService) LastQuery() (domain.QueryState, bool) { return domain.QueryState{}, false }

func titleGroup(ids ...int) []domain.FieldDocuments {
	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, domain.Document{ID: id, Title: fmt.Sprintf("Doc %d", id), Path: fmt.Sprintf("/docs/%d", id)})
	}
	return []domain.FieldDocuments{{Field: "title", Documents: docs}}
}

func echoService() *MockSearchService {
	return &MockSearchService{
		QueryFunc: func(_ context.Context, text string) ([]domain.FieldDocuments, error) {
			if text == "" {
				return []domain.FieldDocuments{}, nil
			}
			return titleGroup(1, 2, 3), nil
		},
	}
}

func newTestView(svc *MockSearchService) *View {
	v := NewView(nil, nil, svc, 10*time.Millisecond)
	v.SetDimensions(100, 40)
	return v
}

func typeText(v *View, text string) {
	for _, r := range text {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds its message back into the view.
func run(t *testing.T, v *View, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	v.Update(msg)
	return msg
}

// search types query, presses enter and applies the completion.
func search(t *testing.T, v *View, query string) {
	t.Helper()
	typeText(v, query)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, v, cmd)
}

func TestNewView_Defaults(t *testing.T) {
	v := NewView(nil, nil, nil, 0)

	require.NotNil(t, v)
	assert.Equal(t, DefaultDebounce, v.debouncer.Interval())
	assert.True(t, v.InputFocused())
	assert.False(t, v.Ready())
	assert.Equal(t, "Initialising...", v.View())
	assert.Equal(t, status.StateLoading, v.StatusState())
}

func TestView_Init(t *testing.T) {
	v := newTestView(echoService())

	assert.NotNil(t, v.Init())
}

func TestView_WaitSettled(t *testing.T) {
	svc := echoService()
	svc.WaitFunc = func(context.Context) (domain.ServiceState, error) {
		return domain.StateDegraded, nil
	}
	svc.ErrValue = fmt.Errorf("%w: %w", domain.ErrBuildFailure, domain.ErrNoCorpus)
	v := newTestView(svc)

	msg := run(t, v, v.waitSettled())

	assert.Equal(t, messages.ServiceSettled{State: domain.StateDegraded, Err: svc.ErrValue}, msg)
	assert.True(t, v.Settled())
	assert.Equal(t, status.StateReady, v.StatusState())
	assert.Equal(t, "no corpus configured, set corpus.source", v.Warning())
}

func TestView_WaitSettled_NoService(t *testing.T) {
	v := NewView(nil, nil, nil, time.Millisecond)

	msg := v.waitSettled()()

	assert.Equal(t, messages.ErrorOccurred{Err: ErrNoSearchService}, msg)
}

func TestView_WaitSettled_Cancelled(t *testing.T) {
	svc := echoService()
	svc.WaitFunc = func(ctx context.Context) (domain.ServiceState, error) {
		<-ctx.Done()
		return domain.StateLoading, ctx.Err()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := newTestView(svc).WithContext(ctx)

	assert.Nil(t, v.waitSettled()())
}

func TestView_LoadingPlaceholder(t *testing.T) {
	v := newTestView(echoService())

	assert.Contains(t, v.View(), "Loading corpus")

	v.Update(messages.ServiceSettled{State: domain.StateReady})

	assert.NotContains(t, v.View(), "Loading corpus")
	assert.Contains(t, v.View(), "No results")
}

func TestView_TypingDebouncesSearch(t *testing.T) {
	v := newTestView(echoService())

	typeText(v, "doc")

	assert.True(t, v.debouncer.Pending())
	msg := v.listen()()
	assert.Equal(t, messages.QueryChanged{Query: "doc"}, msg)
	assert.False(t, v.debouncer.Pending())
}

func TestView_TypingCoalescesBurst(t *testing.T) {
	v := newTestView(echoService())

	typeText(v, "a")
	typeText(v, "b")
	typeText(v, "c")

	msg := v.listen()()
	assert.Equal(t, messages.QueryChanged{Query: "abc"}, msg)
	select {
	case extra := <-v.fired:
		t.Fatalf("unexpected second query %q", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestView_CursorKeysDoNotSchedule(t *testing.T) {
	v := newTestView(echoService())
	v.SetInput("doc")

	v.Update(tea.KeyMsg{Type: tea.KeyLeft})

	assert.False(t, v.debouncer.Pending())
}

func TestView_Deliver_ReplacesUnreadQuery(t *testing.T) {
	v := newTestView(echoService())

	v.deliver("old")
	v.deliver("new")

	assert.Equal(t, "new", <-v.fired)
}

func TestView_QueryChanged_RunsSearch(t *testing.T) {
	v := newTestView(echoService())
	v.SetInput("doc")

	_, cmd := v.Update(messages.QueryChanged{Query: "doc"})

	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	v.Update(batch[0]())

	assert.Equal(t, "doc", v.Query())
	assert.Len(t, v.Results()[0].Documents, 3)
	assert.True(t, v.InputFocused(), "search-as-you-type keeps focus on the input")
	assert.Equal(t, status.StateResults, v.StatusState())
}

func TestView_QueryChanged_StaleQueryOnlyRelistens(t *testing.T) {
	called := false
	svc := echoService()
	svc.QueryFunc = func(context.Context, string) ([]domain.FieldDocuments, error) {
		called = true
		return nil, nil
	}
	v := newTestView(svc)
	v.SetInput("newer")

	_, cmd := v.Update(messages.QueryChanged{Query: "new"})

	require.NotNil(t, cmd)
	assert.False(t, called)
	assert.Empty(t, v.issued)
}

func TestView_EnterSearchesImmediately(t *testing.T) {
	v := newTestView(echoService())
	typeText(v, "doc")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, v.debouncer.Pending(), "enter cancels the pending debounce")
	assert.Equal(t, status.StateSearching, v.StatusState())
	run(t, v, cmd)
	assert.False(t, v.InputFocused())
	assert.Equal(t, 1, v.SelectedDocument().ID)
}

func TestView_EnterWithNoMatchesKeepsInputFocus(t *testing.T) {
	svc := echoService()
	svc.QueryFunc = func(context.Context, string) ([]domain.FieldDocuments, error) {
		return []domain.FieldDocuments{}, nil
	}
	v := newTestView(svc)

	search(t, v, "zzz")

	assert.True(t, v.InputFocused())
	assert.Contains(t, v.View(), "No matches")
}

func TestView_SearchCompleted_DropsStaleResults(t *testing.T) {
	v := newTestView(echoService())
	v.issued = "second"

	v.Update(messages.SearchCompleted{Query: "first", Results: titleGroup(9)})

	assert.Empty(t, v.Results())
	assert.Empty(t, v.Query())
}

func TestView_SearchCompleted_Error(t *testing.T) {
	svc := echoService()
	svc.QueryFunc = func(context.Context, string) ([]domain.FieldDocuments, error) {
		return nil, fmt.Errorf("search: %w", domain.ErrInvalidArgument)
	}
	v := newTestView(svc)

	search(t, v, "bad")

	assert.Error(t, v.Err())
	assert.Equal(t, status.StateError, v.StatusState())
	assert.Equal(t, "invalid query", v.StatusMessage())
	assert.Contains(t, v.View(), "Error: invalid query")
}

func TestView_EscClearsInputAndResults(t *testing.T) {
	v := newTestView(echoService())
	typeText(v, "doc")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, v, cmd)
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, v.InputFocused())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	run(t, v, cmd)

	assert.Empty(t, v.Input())
	assert.Empty(t, v.Results())
	assert.Equal(t, status.StateReady, v.StatusState())
}

func TestView_EscOnEmptyInputDoesNothing(t *testing.T) {
	v := newTestView(echoService())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
}

func TestView_ResultsNavigation(t *testing.T) {
	v := newTestView(echoService())
	search(t, v, "doc")

	v.Update(key("j"))
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, v.SelectedDocument().ID)

	v.Update(key("k"))
	assert.Equal(t, 2, v.SelectedDocument().ID)
}

func TestView_DownMovesFocusToResults(t *testing.T) {
	v := newTestView(echoService())
	v.SetInput("doc")
	_, cmd := v.Update(messages.QueryChanged{Query: "doc"})
	v.Update(cmd().(tea.BatchMsg)[0]())
	require.True(t, v.InputFocused())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.False(t, v.InputFocused())
}

func TestView_LoadMore(t *testing.T) {
	svc := echoService()
	pages := [][]domain.FieldDocuments{titleGroup(4, 5), {}}
	svc.LoadMoreFunc = func(context.Context) ([]domain.FieldDocuments, error) {
		page := pages[0]
		pages = pages[1:]
		return page, nil
	}
	v := newTestView(svc)
	search(t, v, "doc")

	_, cmd := v.Update(key("m"))
	assert.Equal(t, "Loading more...", v.StatusMessage())
	run(t, v, cmd)

	require.Len(t, v.Results(), 1)
	assert.Len(t, v.Results()[0].Documents, 5)
	assert.Contains(t, v.View(), "5 results")

	_, cmd = v.Update(key("m"))
	run(t, v, cmd)
	assert.Equal(t, "No more results", v.StatusMessage())
	assert.Len(t, v.Results()[0].Documents, 5)
}

func TestView_LoadMore_Error(t *testing.T) {
	svc := echoService()
	svc.LoadMoreFunc = func(context.Context) ([]domain.FieldDocuments, error) {
		return nil, context.DeadlineExceeded
	}
	v := newTestView(svc)
	search(t, v, "doc")

	_, cmd := v.Update(key("m"))
	run(t, v, cmd)

	assert.Equal(t, "Load more failed: search timed out", v.StatusMessage())
}

func TestView_LoadMore_IgnoresOtherQuery(t *testing.T) {
	v := newTestView(echoService())
	search(t, v, "doc")

	v.Update(messages.MoreLoaded{Query: "other", Results: titleGroup(8)})

	assert.Len(t, v.Results()[0].Documents, 3)
}

func TestView_LoadMore_WithoutQuery(t *testing.T) {
	v := newTestView(echoService())

	assert.Nil(t, v.loadMore())
}

func TestView_CopyPath(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(text string) error {
		copied = text
		return nil
	}
	defer func() { copyToClipboard = orig }()

	v := newTestView(echoService())
	search(t, v, "doc")
	v.Update(key("j"))

	_, cmd := v.Update(key("c"))
	run(t, v, cmd)

	assert.Equal(t, "/docs/2", copied)
	assert.Equal(t, "Copied /docs/2", v.StatusMessage())
}

func TestView_CopyPath_Failure(t *testing.T) {
	orig := copyToClipboard
	copyToClipboard = func(string) error { return errors.New("no clipboard utility") }
	defer func() { copyToClipboard = orig }()

	v := newTestView(echoService())
	search(t, v, "doc")

	_, cmd := v.Update(key("c"))
	run(t, v, cmd)

	assert.Equal(t, "Copy failed: no clipboard utility", v.StatusMessage())
}

func TestView_CopyPath_NoPath(t *testing.T) {
	svc := echoService()
	svc.QueryFunc = func(context.Context, string) ([]domain.FieldDocuments, error) {
		return []domain.FieldDocuments{{Field: "title", Documents: []domain.Document{{ID: 1, Title: "x"}}}}, nil
	}
	v := newTestView(svc)
	search(t, v, "x")

	_, cmd := v.Update(key("c"))
	msg := run(t, v, cmd)

	assert.Equal(t, messages.PathCopied{Err: ErrNoPath}, msg)
}

func TestView_OpenSelected(t *testing.T) {
	v := newTestView(echoService())
	search(t, v, "doc")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.DocumentSelected)
	require.True(t, ok)
	assert.Equal(t, 1, msg.Document.ID)
}

func TestView_ResultsKeys(t *testing.T) {
	v := newTestView(echoService())
	search(t, v, "doc")

	_, cmd := v.Update(key("?"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHelp}, cmd())

	_, cmd = v.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	v.Update(key("n"))
	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Input())
}

func TestView_QInInputTypes(t *testing.T) {
	v := newTestView(echoService())

	v.Update(key("q"))

	assert.Equal(t, "q", v.Input())
}

func TestView_CtrlCQuits(t *testing.T) {
	v := newTestView(echoService())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newTestView(echoService())

	v.Update(messages.ErrorOccurred{Err: domain.ErrStorageUnavailable})

	assert.Equal(t, status.StateError, v.StatusState())
	assert.Equal(t, "document store unavailable, search is disabled", v.StatusMessage())
}

func TestView_Close(t *testing.T) {
	v := newTestView(echoService())
	typeText(v, "doc")

	v.Close()

	assert.False(t, v.debouncer.Pending())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"no corpus", fmt.Errorf("%w: %w", domain.ErrBuildFailure, domain.ErrNoCorpus), "no corpus configured, set corpus.source"},
		{"storage", domain.ErrStorageUnavailable, "document store unavailable, search is disabled"},
		{"build", domain.ErrBuildFailure, "corpus build failed, results may be incomplete"},
		{"invalid", domain.ErrInvalidArgument, "invalid query"},
		{"timeout", context.DeadlineExceeded, "search timed out"},
		{"cancelled", context.Canceled, "search cancelled"},
		{"other", errors.New("disk on fire"), "disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Describe(tt.err))
		})
	}
}
