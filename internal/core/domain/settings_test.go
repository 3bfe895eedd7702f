package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, DefaultCacheKey, s.Storage.CacheKey)
	assert.Equal(t, []string{"title", "content"}, s.Search.Fields)
	assert.Equal(t, 10, s.Search.PageSize)
	assert.Equal(t, DefaultDebounce, s.Search.Debounce())
	assert.Equal(t, IndexOrderOrdinal, s.Index.Order)
	assert.Equal(t, MatchModeTerm, s.Index.Match)
	assert.Empty(t, s.Index.Path)
	assert.Empty(t, s.Corpus.Source)
	assert.InDelta(t, 10.0, s.MCP.RateLimit, 0.001)
}

func TestDefaultSettings_FieldsNotShared(t *testing.T) {
	s := DefaultSettings()
	s.Search.Fields[0] = "path"

	assert.Equal(t, "title", DefaultFields[0])
}

func TestSearchSettings_Debounce(t *testing.T) {
	s := SearchSettings{DebounceMillis: 150}
	assert.Equal(t, 150*time.Millisecond, s.Debounce())
}
