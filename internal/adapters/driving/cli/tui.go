package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/tui"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("tui needs an interactive terminal")

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive search interface.

Results update as you type. Search starts as soon as the corpus cache has
loaded; a degraded cache is reported in the status bar.

Controls:
  type     - Search as you type
  Enter    - Search now / Open result
  ↑/k, ↓/j - Navigate results
  m        - Load more results
  c        - Copy result path
  Esc      - Back / Clear
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	// Log lines would tear the alt screen.
	if !verbose {
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	ctx := cmd.Context()
	sess, err := openSession(ctx, nil, 0)
	if err != nil {
		return err
	}
	defer sess.Close()

	app, err := tui.NewApp(tui.NewPorts(sess.search, sess.document), tui.Options{
		Debounce: sess.settings.Search.Debounce(),
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := app.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
