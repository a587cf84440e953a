package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [note-id]",
	Short: "Enrich a note now",
	Long: `Runs embedding, tag extraction, and entity extraction for one note
synchronously. Tasks are independent: a failed extraction still leaves
the other results saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	if enricherService == nil {
		return errors.New("enrichment service not configured")
	}

	if err := enricherService.EnrichNote(context.Background(), args[0]); err != nil {
		return fmt.Errorf("enrichment incomplete: %w", err)
	}

	cmd.Printf("Enriched note %s\n", args[0])
	return nil
}
