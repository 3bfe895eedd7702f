package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driven/corpus"
	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// watchQuiet coalesces bursts of corpus file events.
const watchQuiet = 500 * time.Millisecond

var (
	indexForce bool
	indexWatch bool
)

// ErrWatchNeedsFiles is returned when --watch is used with a URL corpus.
var ErrWatchNeedsFiles = errors.New("--watch needs a file or glob corpus")

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or restore the corpus cache",
	Long: `Restores the cached corpus when its build token still matches, and
otherwise fetches the corpus and rebuilds the index and document store.

Use --force to rebuild regardless of the token, and --watch to rebuild
whenever the corpus files change.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "rebuild even if the cache is current")
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "rebuild when corpus files change")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	e, err := openEnv(nil)
	if err != nil {
		return err
	}
	defer e.Close()

	var watched *corpus.FileSource
	if indexWatch {
		fs, ok := e.source.(*corpus.FileSource)
		if !ok {
			return ErrWatchNeedsFiles
		}
		watched = fs
	}

	if indexForce {
		if err := e.epochs.Clear(ctx); err != nil {
			return fmt.Errorf("clearing cache token: %w", err)
		}
	}

	if err := buildIndex(ctx, cmd, e); err != nil {
		if watched == nil {
			return err
		}
		cmd.PrintErrf("warning: %v\n", err)
	}
	if watched == nil {
		return nil
	}

	changes, err := watched.Watch(ctx, watchQuiet)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s for changes (ctrl+c to stop)\n", watched.Describe())
	for range changes {
		cmd.Println("Corpus changed, rebuilding...")
		if err := buildIndex(ctx, cmd, e); err != nil {
			cmd.PrintErrf("warning: %v\n", err)
		}
	}
	return nil
}

// buildIndex initializes a fresh search service over e and reports the outcome.
func buildIndex(ctx context.Context, cmd *cobra.Command, e *env) error {
	token := e.token(ctx)
	svc := e.newSearchService(0)

	start := time.Now()
	svc.InitializeAsync(ctx, token, e.source)
	spin(cmd.ErrOrStderr(), svc.Ready())

	if svc.State() == domain.StateDegraded {
		return fmt.Errorf("index degraded: %s", describe(svc.Err()))
	}

	count, err := e.index.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting index: %w", err)
	}
	cmd.Printf("Index ready: %d documents in %s\n", count, time.Since(start).Round(time.Millisecond))
	if token != "" {
		cmd.Printf("Build token: %s\n", token)
	}
	return nil
}

// spin shows a spinner on w until done is closed. Without a terminal it
// only waits.
func spin(w io.Writer, done <-chan struct{}) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		logger.Info("Building corpus cache...")
		<-done
		return
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Building corpus cache"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			_ = bar.Finish()
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
