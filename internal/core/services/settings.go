package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyCorpusSource   = "corpus.source"
	keyCorpusBuildID  = "corpus.build_id"
	keyCacheKey       = "storage.cache_key"
	keySearchFields   = "search.fields"
	keySearchPageSize = "search.page_size"
	keySearchDebounce = "search.debounce_ms"
	keyIndexOrder     = "index.order"
	keyIndexMatch     = "index.match"
	keyIndexPath      = "index.path"
	keyMCPRateLimit   = "mcp.rate_limit"
)

var settingKeys = []string{
	keyCorpusSource,
	keyCorpusBuildID,
	keyCacheKey,
	keySearchFields,
	keySearchPageSize,
	keySearchDebounce,
	keyIndexOrder,
	keyIndexMatch,
	keyIndexPath,
	keyMCPRateLimit,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Corpus: domain.CorpusSettings{
			Source:  s.configStore.GetString(keyCorpusSource),
			BuildID: s.configStore.GetString(keyCorpusBuildID),
		},
		Storage: domain.StorageSettings{
			CacheKey: s.getString(keyCacheKey, defaults.Storage.CacheKey),
		},
		Search: domain.SearchSettings{
			Fields:         s.getFields(defaults.Search.Fields),
			PageSize:       s.getPositiveInt(keySearchPageSize, defaults.Search.PageSize),
			DebounceMillis: s.getPositiveInt(keySearchDebounce, defaults.Search.DebounceMillis),
		},
		Index: domain.IndexSettings{
			Order: s.getOrder(defaults.Index.Order),
			Match: s.getMatch(defaults.Index.Match),
			Path:  s.configStore.GetString(keyIndexPath),
		},
		MCP: domain.MCPSettings{
			RateLimit: s.getPositiveFloat(keyMCPRateLimit, defaults.MCP.RateLimit),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyCorpusSource, settings.Corpus.Source},
		{keyCorpusBuildID, settings.Corpus.BuildID},
		{keyCacheKey, settings.Storage.CacheKey},
		{keySearchFields, append([]string(nil), settings.Search.Fields...)},
		{keySearchPageSize, settings.Search.PageSize},
		{keySearchDebounce, settings.Search.DebounceMillis},
		{keyIndexOrder, string(settings.Index.Order)},
		{keyIndexMatch, string(settings.Index.Match)},
		{keyIndexPath, settings.Index.Path},
		{keyMCPRateLimit, settings.MCP.RateLimit},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var parsed any
	switch key {
	case keyCorpusSource, keyCorpusBuildID, keyIndexPath:
		parsed = value
	case keyCacheKey:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidArgument, key)
		}
		parsed = value
	case keySearchFields:
		fields := splitList(value)
		if len(fields) == 0 {
			return fmt.Errorf("%w: %s needs at least one field", domain.ErrInvalidArgument, key)
		}
		parsed = fields
	case keySearchPageSize, keySearchDebounce:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidArgument, key, value)
		}
		parsed = n
	case keyIndexOrder:
		order := domain.IndexOrder(value)
		if !order.IsValid() {
			return fmt.Errorf("%w: %s must be %q or %q", domain.ErrInvalidArgument, key,
				domain.IndexOrderOrdinal, domain.IndexOrderRelevance)
		}
		parsed = value
	case keyIndexMatch:
		match := domain.MatchMode(value)
		if !match.IsValid() {
			return fmt.Errorf("%w: %s must be %q or %q", domain.ErrInvalidArgument, key,
				domain.MatchModeTerm, domain.MatchModePrefix)
		}
		parsed = value
	case keyMCPRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number, got %q", domain.ErrInvalidArgument, key, value)
		}
		parsed = f
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidArgument, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised setting keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFields(defaultVal []string) []string {
	fields := s.configStore.GetStringSlice(keySearchFields)
	if len(fields) == 0 {
		return defaultVal
	}
	return fields
}

func (s *SettingsService) getOrder(defaultVal domain.IndexOrder) domain.IndexOrder {
	order := domain.IndexOrder(s.configStore.GetString(keyIndexOrder))
	if !order.IsValid() {
		return defaultVal
	}
	return order
}

func (s *SettingsService) getMatch(defaultVal domain.MatchMode) domain.MatchMode {
	match := domain.MatchMode(s.configStore.GetString(keyIndexMatch))
	if !match.IsValid() {
		return defaultVal
	}
	return match
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
