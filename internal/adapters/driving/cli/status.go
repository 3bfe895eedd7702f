package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driven/storage/sqlite"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the corpus cache",
	Long: `Shows the configured corpus, the stored and current build tokens, and
the document tables held in the local store.

The cache is fresh when the stored token equals the current build token.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	ConfigPath  string        `json:"config_path"`
	Source      string        `json:"source"`
	CacheKey    string        `json:"cache_key"`
	StoredToken string        `json:"stored_token"`
	BuildToken  string        `json:"build_token"`
	Fresh       bool          `json:"fresh"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
	Documents   int           `json:"documents"`
	Database    string        `json:"database,omitempty"`
	Tables      []statusTable `json:"tables"`
	Overrides   []string      `json:"env_overrides"`
	StoreError  string        `json:"store_error,omitempty"`
}

type statusTable struct {
	CacheKey  string    `json:"cache_key"`
	Table     string    `json:"table"`
	UpdatedAt time.Time `json:"updated_at"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	e, err := openEnv(nil)
	if err != nil {
		return err
	}
	defer e.Close()

	stored, err := e.epochs.Token(ctx)
	if err != nil {
		return fmt.Errorf("reading cache token: %w", err)
	}
	build := e.token(ctx)

	out := statusOutput{
		ConfigPath:  e.config.Path(),
		Source:      e.settings.Corpus.Source,
		CacheKey:    e.settings.Storage.CacheKey,
		StoredToken: stored,
		BuildToken:  build,
		Fresh:       build != "" && stored == build,
		Tables:      []statusTable{},
		Overrides:   e.config.Overrides(),
	}
	if t, ok := e.epochs.UpdatedAt(); ok {
		out.UpdatedAt = &t
	}

	if e.store == nil {
		out.StoreError = "document store unavailable"
	} else {
		out.Database = e.store.Path()
		if out.Documents, err = e.docs.Count(ctx); err != nil {
			return fmt.Errorf("counting documents: %w", err)
		}
		tables, err := e.store.CacheTables(ctx)
		if err != nil {
			return err
		}
		out.Tables = toStatusTables(tables)
	}

	if statusJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printStatus(cmd, out)
	return nil
}

func toStatusTables(tables []sqlite.CacheTable) []statusTable {
	out := make([]statusTable, 0, len(tables))
	for _, t := range tables {
		out = append(out, statusTable{CacheKey: t.CacheKey, Table: t.Table, UpdatedAt: t.UpdatedAt})
	}
	return out
}

func printStatus(cmd *cobra.Command, out statusOutput) {
	source := out.Source
	if source == "" {
		source = "(not configured)"
	}

	cmd.Printf("Config:       %s\n", out.ConfigPath)
	cmd.Printf("Corpus:       %s\n", source)
	cmd.Printf("Cache key:    %s\n", out.CacheKey)
	cmd.Printf("Stored token: %s\n", orNone(out.StoredToken))
	cmd.Printf("Build token:  %s\n", orNone(out.BuildToken))
	if out.Fresh {
		cmd.Println("Cache:        fresh")
	} else {
		cmd.Println("Cache:        stale")
	}
	if out.UpdatedAt != nil {
		cmd.Printf("Built at:     %s\n", out.UpdatedAt.Local().Format(time.DateTime))
	}

	if out.StoreError != "" {
		cmd.Printf("Store:        %s\n", out.StoreError)
	} else {
		cmd.Printf("Database:     %s\n", out.Database)
		cmd.Printf("Documents:    %d\n", out.Documents)
		if len(out.Tables) > 0 {
			cmd.Println("\nTables:")
			for _, t := range out.Tables {
				cmd.Printf("  %-20s %s  %s\n", t.CacheKey, t.Table, t.UpdatedAt.Local().Format(time.DateTime))
			}
		}
	}

	if len(out.Overrides) > 0 {
		cmd.Println("\nEnvironment overrides:")
		for _, k := range out.Overrides {
			cmd.Printf("  %s\n", k)
		}
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
