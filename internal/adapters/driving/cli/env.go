package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driven/bleveindex"
	"github.com/custodia-labs/sercha-corpus/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-corpus/internal/adapters/driven/corpus"
	"github.com/custodia-labs/sercha-corpus/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-corpus/internal/core/services"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// fetchTimeout bounds a single corpus download.
const fetchTimeout = 30 * time.Second

// env holds the adapters one command runs against.
type env struct {
	configDir string
	dataDir   string

	config   *file.ConfigStore
	settings *domain.Settings
	epochs   *file.EpochStore

	// store and docs are nil when the document store could not be opened.
	store *sqlite.Store
	docs  driven.DocumentStore

	index  *bleveindex.Index
	source driven.CorpusSource
}

// resolveDirs returns the config and data directories from the flags.
func resolveDirs() (string, string, error) {
	cfg := configDir
	if cfg == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return "", "", err
		}
		cfg = dir
	}
	data := dataDir
	if data == "" {
		data = filepath.Join(cfg, "data")
	}
	return cfg, data, nil
}

// openSettings returns the injected settings service or one over the config file.
func openSettings() (driving.SettingsService, *file.ConfigStore, error) {
	if settingsService != nil {
		return settingsService, nil, nil
	}
	cfg, _, err := resolveDirs()
	if err != nil {
		return nil, nil, err
	}
	store, err := file.NewConfigStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	return services.NewSettingsService(store), store, nil
}

// openEnv opens the config, state, document store, index and corpus source.
// A document store that cannot be opened is logged and left nil so the
// search service can report it.
func openEnv(fields []string) (*env, error) {
	cfgDir, dDir, err := resolveDirs()
	if err != nil {
		return nil, err
	}

	config, err := file.NewConfigStore(cfgDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settings, err := services.NewSettingsService(config).Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	applyFlagOverrides(settings, fields)

	state, err := file.NewStateStore(cfgDir)
	if err != nil {
		return nil, fmt.Errorf("opening state: %w", err)
	}

	e := &env{
		configDir: cfgDir,
		dataDir:   dDir,
		config:    config,
		settings:  settings,
		epochs:    file.NewEpochStore(state, settings.Storage.CacheKey),
	}

	store, err := sqlite.NewStore(dDir)
	if err != nil {
		logger.Error("%v", err)
	} else {
		e.store = store
		e.docs = store.DocumentStore(settings.Storage.CacheKey)
	}

	e.index, err = bleveindex.Open(bleveindex.Config{
		Fields: settings.Search.Fields,
		Order:  settings.Index.Order,
		Match:  settings.Index.Match,
		Path:   indexPath(settings.Index.Path, settings.Storage.CacheKey),
	})
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("opening search index: %w", err)
	}

	if settings.Corpus.Source != "" {
		e.source = corpus.Open(settings.Corpus.Source, &http.Client{Timeout: fetchTimeout})
	}
	return e, nil
}

// indexPath returns the on-disk index of cacheKey under root, or "" for an
// in-memory index.
func indexPath(root, cacheKey string) string {
	if root == "" {
		return ""
	}
	return filepath.Join(root, url.PathEscape(cacheKey)+".bleve")
}

func applyFlagOverrides(settings *domain.Settings, fields []string) {
	if corpusLocation != "" {
		settings.Corpus.Source = corpusLocation
	}
	if buildID != "" {
		settings.Corpus.BuildID = buildID
	}
	if cacheKey != "" {
		settings.Storage.CacheKey = cacheKey
	}
	if len(fields) > 0 {
		settings.Search.Fields = fields
	}
}

// token returns the build token of the configured corpus. Without a source
// or build id the token is empty, which forces a rebuild attempt.
func (e *env) token(ctx context.Context) string {
	token, err := corpus.BuildToken(ctx, e.source, e.settings.Corpus.BuildID)
	switch {
	case errors.Is(err, domain.ErrNoCorpus):
		return ""
	case err != nil:
		logger.Warn("Computing build token: %v", err)
		return ""
	}
	return token
}

// newSearchService creates a search service over the env's adapters.
// pageSize overrides the configured page size when positive.
func (e *env) newSearchService(pageSize int) *services.SearchService {
	if pageSize <= 0 {
		pageSize = e.settings.Search.PageSize
	}
	return services.NewSearchService(e.index, e.docs, e.epochs, services.SearchOptions{
		Fields:   e.settings.Search.Fields,
		PageSize: pageSize,
	})
}

// documentService returns a document service over the env's store.
func (e *env) documentService() *services.DocumentService {
	return services.NewDocumentService(e.docs)
}

// Close releases the index and document store.
func (e *env) Close() error {
	var errs []error
	if e.index != nil {
		errs = append(errs, e.index.Close())
	}
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	return errors.Join(errs...)
}

// session is the pair of services the search, tui and mcp commands use.
type session struct {
	search   driving.SearchService
	document driving.DocumentService
	settings *domain.Settings
	env      *env
}

// openSession returns the injected services, or wires a search service over
// a fresh env and starts initializing it in the background.
func openSession(ctx context.Context, fields []string, pageSize int) (*session, error) {
	if searchService != nil {
		settings := domain.DefaultSettings()
		if settingsService != nil {
			if s, err := settingsService.Get(); err == nil {
				settings = s
			}
		}
		return &session{search: searchService, document: documentService, settings: settings}, nil
	}

	e, err := openEnv(fields)
	if err != nil {
		return nil, err
	}
	svc := e.newSearchService(pageSize)
	svc.InitializeAsync(ctx, e.token(ctx), e.source)

	return &session{
		search:   svc,
		document: e.documentService(),
		settings: e.settings,
		env:      e,
	}, nil
}

// Close waits for initialization to stop and releases the env.
func (s *session) Close() error {
	if s.env == nil {
		return nil
	}
	<-s.search.Ready()
	return s.env.Close()
}
