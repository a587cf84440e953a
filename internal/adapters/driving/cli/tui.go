package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notelink/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [note-id]",
	Short: "Browse related notes interactively",
	Long: `Launch the interactive terminal browser for one note's
relationships.

Controls:
  ↑/k, ↓/j - Navigate candidates
  Enter    - Show evidence
  Esc      - Back
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

// tuiLimit caps how many candidates the browser loads.
var tuiLimit int

func init() {
	tuiCmd.Flags().IntVarP(&tuiLimit, "limit", "n", 20, "maximum number of candidates")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if noteService == nil || linkService == nil {
		return errors.New("note and link services not configured")
	}

	app, err := tui.NewApp(&tui.Ports{
		Notes: noteService,
		Links: linkService,
	}, args[0], tuiLimit)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
