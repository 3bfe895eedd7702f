package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFile), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFile), []byte("not = = toml"), 0600))

	_, err := NewConfigStore(tmpDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestConfigStore_SetPersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("search.page_size", 5))
	require.NoError(t, store.Set("corpus.source", "corpus.json"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[search]")
	assert.Contains(t, string(data), "[corpus]")

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 5, reopened.GetInt("search.page_size"))
	assert.Equal(t, "corpus.json", reopened.GetString("corpus.source"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("s", "hello"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("f", 2.5))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("l", []string{"title", "content"}))

	assert.Equal(t, "hello", store.GetString("s"))
	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.Equal(t, 0, store.GetInt("s"))
	assert.InDelta(t, 2.5, store.GetFloat("f"), 0.0001)
	assert.InDelta(t, 42.0, store.GetFloat("i"), 0.0001)
	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("missing"))
	assert.Equal(t, []string{"title", "content"}, store.GetStringSlice("l"))
	assert.Equal(t, []string{"hello"}, store.GetStringSlice("s"))
	assert.Nil(t, store.GetStringSlice("i"))
}

func TestConfigStore_ReloadedTypes(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("search.fields", []string{"title", "path"}))
	require.NoError(t, store.Set("search.page_size", 7))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// TOML arrays come back as []any and integers as int64.
	assert.Equal(t, []string{"title", "path"}, reopened.GetStringSlice("search.fields"))
	assert.Equal(t, 7, reopened.GetInt("search.page_size"))
}

func TestConfigStore_Delete(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("a.b", "x"))

	require.NoError(t, store.Delete("a.b"))

	_, ok := store.Get("a.b")
	assert.False(t, ok)
}

func TestConfigStore_EnvOverrides(t *testing.T) {
	t.Setenv("SERCHA_SEARCH_PAGE_SIZE", "3")
	t.Setenv("SERCHA_SEARCH_FIELDS", "title, path")
	t.Setenv("SERCHA_INDEX_PATH", "/tmp/idx")

	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("search.page_size", 20))

	assert.Equal(t, 3, store.GetInt("search.page_size"))
	assert.Equal(t, []string{"title", "path"}, store.GetStringSlice("search.fields"))
	assert.Equal(t, "/tmp/idx", store.GetString("index.path"))
	assert.Equal(t, []string{"index.path", "search.fields", "search.page_size"}, store.Overrides())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "/tmp/idx"), "overrides must not be persisted")
}

func TestStateStore_IgnoresEnv(t *testing.T) {
	t.Setenv("SERCHA_CACHE_CONTENT_EPOCH", "from-env")

	store, err := NewStateStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", store.GetString("cache.content.epoch"))
	assert.Empty(t, store.Overrides())
	assert.Equal(t, StateFile, filepath.Base(store.Path()))
}

func TestFlattenAndNest(t *testing.T) {
	nested := map[string]any{
		"search": map[string]any{"page_size": 5, "fields": []string{"title"}},
		"top":    "x",
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, map[string]any{
		"search.page_size": 5,
		"search.fields":    []string{"title"},
		"top":              "x",
	}, flat)
	assert.Equal(t, nested, nestMap(flat))
}

// ==================== EpochStore ====================

func TestEpochStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	state, err := NewStateStore(dir)
	require.NoError(t, err)
	epochs := NewEpochStore(state, "content")
	ctx := context.Background()

	token, err := epochs.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	_, ok := epochs.UpdatedAt()
	assert.False(t, ok)

	require.NoError(t, epochs.SetToken(ctx, "build-42"))

	reopened, err := NewStateStore(dir)
	require.NoError(t, err)
	token, err = NewEpochStore(reopened, "content").Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "build-42", token)
	_, ok = NewEpochStore(reopened, "content").UpdatedAt()
	assert.True(t, ok)
}

func TestEpochStore_Clear(t *testing.T) {
	dir := t.TempDir()
	state, err := NewStateStore(dir)
	require.NoError(t, err)
	epochs := NewEpochStore(state, "content")
	ctx := context.Background()
	require.NoError(t, epochs.SetToken(ctx, "build-1"))

	require.NoError(t, epochs.Clear(ctx))

	reopened, err := NewStateStore(dir)
	require.NoError(t, err)
	token, err := NewEpochStore(reopened, "content").Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestEpochStore_SeparateFromConfig(t *testing.T) {
	dir := t.TempDir()
	config, err := NewConfigStore(dir)
	require.NoError(t, err)
	state, err := NewStateStore(dir)
	require.NoError(t, err)

	require.NoError(t, NewEpochStore(state, "content").SetToken(context.Background(), "build-1"))

	assert.NoFileExists(t, config.Path())
	assert.FileExists(t, state.Path())
}

func TestEpochStore_ScopedByCacheKey(t *testing.T) {
	dir := t.TempDir()
	state, err := NewStateStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, NewEpochStore(state, "content").SetToken(ctx, "build-1"))

	token, err := NewEpochStore(state, "other").Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	_, ok := NewEpochStore(state, "other").UpdatedAt()
	assert.False(t, ok)

	require.NoError(t, NewEpochStore(state, "other").SetToken(ctx, "build-2"))
	require.NoError(t, NewEpochStore(state, "content").Clear(ctx))

	reopened, err := NewStateStore(dir)
	require.NoError(t, err)
	token, err = NewEpochStore(reopened, "other").Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "build-2", token)
	token, err = NewEpochStore(reopened, "content").Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestEpochStore_DottedCacheKey(t *testing.T) {
	dir := t.TempDir()
	state, err := NewStateStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, NewEpochStore(state, "v1.2").SetToken(ctx, "dotted"))
	require.NoError(t, NewEpochStore(state, "v1").SetToken(ctx, "plain"))

	reopened, err := NewStateStore(dir)
	require.NoError(t, err)
	token, err := NewEpochStore(reopened, "v1.2").Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dotted", token)
	token, err = NewEpochStore(reopened, "v1").Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "plain", token)
}
