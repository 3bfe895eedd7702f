package domain

import "time"

// Default setting values.
const (
	DefaultCacheKey       = "content"
	DefaultPageSize       = 10
	DefaultDebounce       = 300 * time.Millisecond
	DefaultMCPRateLimit   = 10.0
	defaultDebounceMillis = 300
)

// DefaultFields are the fields searched when none are configured.
var DefaultFields = []string{FieldTitle, FieldContent}

// CorpusSettings configures where the corpus comes from.
type CorpusSettings struct {
	// Source is a file path, glob or http(s) URL of the JSON corpus.
	Source string

	// BuildID is the explicit cache epoch token. When empty the token is
	// derived from the source fingerprint.
	BuildID string
}

// StorageSettings configures the persistent document store.
type StorageSettings struct {
	// CacheKey names the logical document table.
	CacheKey string
}

// SearchSettings configures queries.
type SearchSettings struct {
	// Fields are searched in this order.
	Fields []string

	// PageSize is the limit used by query and load-more.
	PageSize int

	// DebounceMillis is the quiet interval for search-as-you-type.
	DebounceMillis int
}

// Debounce returns the debounce interval as a duration.
func (s SearchSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// IndexSettings configures the search index.
type IndexSettings struct {
	Order IndexOrder
	Match MatchMode

	// Path is the on-disk index directory. Empty keeps the index in memory.
	Path string
}

// MCPSettings configures the MCP server.
type MCPSettings struct {
	// RateLimit is the number of tool calls allowed per second.
	RateLimit float64
}

// Settings is the full set of application settings.
type Settings struct {
	Corpus  CorpusSettings
	Storage StorageSettings
	Search  SearchSettings
	Index   IndexSettings
	MCP     MCPSettings
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	return &Settings{
		Storage: StorageSettings{CacheKey: DefaultCacheKey},
		Search: SearchSettings{
			Fields:         append([]string(nil), DefaultFields...),
			PageSize:       DefaultPageSize,
			DebounceMillis: defaultDebounceMillis,
		},
		Index: IndexSettings{
			Order: IndexOrderOrdinal,
			Match: MatchModeTerm,
		},
		MCP: MCPSettings{RateLimit: DefaultMCPRateLimit},
	}
}
