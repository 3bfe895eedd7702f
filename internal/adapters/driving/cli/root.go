// Package cli provides the cobra command-line interface for sercha-corpus.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// version is set at build time.
var version = "dev"

// Persistent flags.
var (
	configDir      string
	dataDir        string
	corpusLocation string
	buildID        string
	cacheKey       string
	verbose        bool
)

// Services injected by tests. When nil, commands wire their own services
// from the config and data directories.
var (
	searchService   driving.SearchService
	documentService driving.DocumentService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "sercha-corpus",
	Short: "Field-scoped search over a static JSON corpus",
	Long: `sercha-corpus searches a static corpus of JSON documents.

The corpus is fetched once, indexed per field and cached in a local document
store. Later runs restore the cache while the corpus build token is unchanged,
and rebuild it when the token changes.

Configure the corpus with:
  sercha-corpus settings set corpus.source ./docs/search.json`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "", "config directory (default ~/.sercha-corpus)")
	flags.StringVar(&dataDir, "data-dir", "", "data directory (default <config-dir>/data)")
	flags.StringVar(&corpusLocation, "corpus", "", "corpus file, glob or URL (overrides corpus.source)")
	flags.StringVar(&buildID, "build-id", "", "cache epoch token (overrides corpus.build_id)")
	flags.StringVar(&cacheKey, "cache-key", "", "document table key (overrides storage.cache_key)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
