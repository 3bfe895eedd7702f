package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the corpus, storage, search, index and MCP settings.

Settings are stored in config.toml in the config directory. Environment
variables of the form SERCHA_SECTION_KEY override stored values.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting and save it to the config file.

Examples:
  sercha-corpus settings set corpus.source ./public/search.json
  sercha-corpus settings set search.fields title,content
  sercha-corpus settings set index.match prefix`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, store, err := openSettings()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  Source: %s\n", orNone(settings.Corpus.Source))
	cmd.Printf("  Build ID: %s\n", orNone(settings.Corpus.BuildID))
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Cache key: %s\n", settings.Storage.CacheKey)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Fields: %s\n", strings.Join(settings.Search.Fields, ", "))
	cmd.Printf("  Page size: %d\n", settings.Search.PageSize)
	cmd.Printf("  Debounce: %s\n", settings.Search.Debounce())
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Order: %s\n", settings.Index.Order)
	cmd.Printf("  Match: %s\n", settings.Index.Match)
	if settings.Index.Path != "" {
		cmd.Printf("  Path: %s\n", settings.Index.Path)
	} else {
		cmd.Println("  Path: (in memory)")
	}
	cmd.Println()

	cmd.Println("[MCP]")
	cmd.Printf("  Rate limit: %g/s\n", settings.MCP.RateLimit)

	if store != nil {
		cmd.Println()
		cmd.Printf("Config file: %s\n", store.Path())
		if overrides := store.Overrides(); len(overrides) > 0 {
			cmd.Printf("Overridden by environment: %s\n", strings.Join(overrides, ", "))
		}
	}

	if settings.Corpus.Source == "" {
		cmd.Println()
		cmd.Println("No corpus configured. Run 'sercha-corpus settings set corpus.source <path-or-url>'.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, _, err := openSettings()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := svc.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", key, strings.TrimSpace(value))

	if affectsCache(key) {
		cmd.Println("Run 'sercha-corpus index' to rebuild the cache.")
	}
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	svc, _, err := openSettings()
	if err != nil {
		return err
	}
	for _, k := range svc.Keys() {
		cmd.Println(k)
	}
	return nil
}

// affectsCache reports whether changing key invalidates the cached corpus.
func affectsCache(key string) bool {
	switch key {
	case "corpus.source", "corpus.build_id", "storage.cache_key", "search.fields", "index.match", "index.path":
		return true
	}
	return false
}
