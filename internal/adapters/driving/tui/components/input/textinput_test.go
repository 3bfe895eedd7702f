package input

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui/styles"
)

func typeRunes(in *SearchInput, text string) {
	for _, r := range text {
		in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewSearchInput(t *testing.T) {
	in := NewSearchInput(styles.DefaultStyles())

	require.NotNil(t, in)
	assert.Empty(t, in.Value())
	assert.True(t, in.Focused())
	assert.False(t, in.Changed())
	assert.NotNil(t, in.Init())
}

func TestNewSearchInput_NilStyles(t *testing.T) {
	in := NewSearchInput(nil)

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
}

func TestSearchInput_Update_TracksChanges(t *testing.T) {
	in := NewSearchInput(nil)

	typeRunes(in, "ab")
	assert.Equal(t, "ab", in.Value())
	assert.True(t, in.Changed())

	in.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.False(t, in.Changed())

	in.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.True(t, in.Changed())
	assert.Equal(t, "b", in.Value())
}

func TestSearchInput_Update_BlurredIgnoresKeys(t *testing.T) {
	in := NewSearchInput(nil)
	in.Blur()

	typeRunes(in, "x")

	assert.Empty(t, in.Value())
	assert.False(t, in.Changed())
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestSearchInput_CharLimit(t *testing.T) {
	in := NewSearchInput(nil)

	in.SetValue(strings.Repeat("a", charLimit+10))

	assert.Len(t, in.Value(), charLimit)
}

func TestSearchInput_SetValueAndReset(t *testing.T) {
	in := NewSearchInput(nil)
	typeRunes(in, "q")

	in.SetValue("hello")
	assert.Equal(t, "hello", in.Value())
	assert.False(t, in.Changed())

	in.Reset()
	assert.Empty(t, in.Value())
}

func TestSearchInput_SetWidth(t *testing.T) {
	in := NewSearchInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 86, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestSearchInput_View(t *testing.T) {
	in := NewSearchInput(nil)

	assert.Contains(t, in.View(), "Search")
}
