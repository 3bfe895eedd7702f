package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	search := &MockSearchService{
		QueryFunc: func(_ context.Context, text string) ([]domain.FieldDocuments, error) {
			return []domain.FieldDocuments{{Field: "title", Documents: []domain.Document{
				{ID: 1, Title: "Intro", Path: "/intro", Content: "cached body"},
			}}}, nil
		},
	}
	docs := &MockDocumentService{Docs: map[int]domain.Document{
		1: {ID: 1, Title: "Intro", Path: "/intro", Content: "stored body"},
	}}

	app, err := NewApp(NewPorts(search, docs), Options{})
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

// searchFor types text, presses enter and applies the completion.
func searchFor(t *testing.T, app *App, text string) {
	t.Helper()
	for _, r := range text {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}}, Options{})

	require.NoError(t, err)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{}, Options{})

	assert.ErrorIs(t, err, ErrMissingSearchService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}}, Options{})
	require.NoError(t, err)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}}, Options{})
	require.NoError(t, err)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "sercha-corpus")
}

func TestApp_SearchFlow(t *testing.T) {
	app := newTestApp(t)

	searchFor(t, app, "intro")

	assert.Equal(t, "intro", app.Query())
	require.Len(t, app.Results(), 1)
	assert.NoError(t, app.Err())
	assert.Contains(t, app.View(), "Intro")
}

func TestApp_OpenDocument(t *testing.T) {
	app := newTestApp(t)
	searchFor(t, app, "intro")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())

	assert.Equal(t, messages.ViewDocContent, app.CurrentView())
	assert.Contains(t, app.View(), "cached body")

	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Contains(t, app.View(), "stored body")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t)
	searchFor(t, app, "intro")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "copy path")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_HelpView_Quit(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_CtrlCQuitsFromAnyView(t *testing.T) {
	for _, view := range []messages.ViewType{messages.ViewSearch, messages.ViewDocContent, messages.ViewHelp} {
		t.Run(view.String(), func(t *testing.T) {
			app := newTestApp(t)
			app.Update(messages.ViewChanged{View: view})

			_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		})
	}
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_SettledReachesSearchView(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	app.Update(messages.ServiceSettled{State: domain.StateDegraded, Err: domain.ErrStorageUnavailable})
	app.Update(messages.ViewChanged{View: messages.ViewSearch})

	assert.Contains(t, app.View(), "Degraded: document store unavailable")
}
