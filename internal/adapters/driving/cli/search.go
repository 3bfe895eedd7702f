package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
)

var (
	searchLimit  int
	searchPages  int
	searchFields []string
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the corpus",
	Long: `Searches the configured fields of the corpus and prints the matches
grouped by field, in field order.

The cache is restored or rebuilt first if needed. Use --pages to load more
than one page of results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "page size (default search.page_size)")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "number of pages to load")
	searchCmd.Flags().StringSliceVar(&searchFields, "fields", nil, "fields to search (default search.fields)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchOutput is the JSON shape of a search.
type searchOutput struct {
	Query   string                  `json:"query"`
	State   string                  `json:"state"`
	Warning string                  `json:"warning,omitempty"`
	Count   int                     `json:"count"`
	Results []domain.FieldDocuments `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if searchLimit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", domain.ErrInvalidArgument)
	}
	if searchPages < 1 {
		return fmt.Errorf("%w: --pages must be at least 1", domain.ErrInvalidArgument)
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx, searchFields, searchLimit)
	if err != nil {
		return err
	}
	defer sess.Close()

	state, err := sess.search.Wait(ctx)
	if err != nil {
		return err
	}
	warning := ""
	if state == domain.StateDegraded {
		warning = describe(sess.search.Err())
		cmd.PrintErrf("warning: %s\n", warning)
	}

	if _, err := sess.search.Query(ctx, query); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	for page := 1; page < searchPages; page++ {
		more, err := sess.search.LoadMore(ctx)
		if err != nil {
			return fmt.Errorf("loading page %d: %w", page+1, err)
		}
		if domain.CountDocuments(more) == 0 {
			break
		}
	}
	results := sess.search.Results()

	if searchJSON {
		return outputSearchJSON(cmd, searchOutput{
			Query:   query,
			State:   state.String(),
			Warning: warning,
			Count:   domain.CountDocuments(results),
			Results: results,
		})
	}
	outputSearchGroups(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, out searchOutput) error {
	if out.Results == nil {
		out.Results = []domain.FieldDocuments{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchGroups(cmd *cobra.Command, groups []domain.FieldDocuments) {
	if domain.CountDocuments(groups) == 0 {
		cmd.Println("No results found.")
		return
	}

	for i, g := range groups {
		if i > 0 {
			cmd.Println()
		}
		cmd.Printf("%s (%d)\n", g.Field, len(g.Documents))
		for _, doc := range g.Documents {
			title := doc.Title
			if title == "" {
				title = "(untitled)"
			}
			cmd.Printf("  [%d] %s\n", doc.ID, title)
			if doc.Path != "" {
				cmd.Printf("      %s\n", doc.Path)
			}
		}
	}
}

// describe turns a degraded-state error into a short explanation.
func describe(err error) string {
	switch {
	case err == nil:
		return "search is degraded"
	case errors.Is(err, domain.ErrNoCorpus):
		return "no corpus configured; set corpus.source or pass --corpus"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "document store unavailable; search is disabled"
	case errors.Is(err, domain.ErrBuildFailure):
		return fmt.Sprintf("corpus build failed: %v", err)
	default:
		return err.Error()
	}
}
