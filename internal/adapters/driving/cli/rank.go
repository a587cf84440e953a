package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

var rankCmd = &cobra.Command{
	Use:   "rank [note-id]",
	Short: "Rank all notes by relatedness to one note",
	Long: `Scores the given note against every other note in the corpus and
prints the candidates sorted by link score.`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

// Flags for the rank command.
var (
	rankLimit    int
	rankDecision string
	rankJSON     bool
)

func init() {
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 10, "maximum number of results")
	rankCmd.Flags().StringVar(&rankDecision, "decision", "", "minimum decision to include: hard or soft")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	if linkService == nil {
		return errors.New("link service not configured")
	}

	minDecision, err := parseDecision(rankDecision)
	if err != nil {
		return err
	}

	results, err := linkService.RankCandidates(context.Background(), args[0], domain.RankOptions{
		Limit:       rankLimit,
		MinDecision: minDecision,
	})
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	if rankJSON {
		return outputJSON(cmd, results)
	}

	if len(results) == 0 {
		cmd.Println("No related notes found.")
		return nil
	}

	cmd.Printf("Candidates for %s:\n\n", args[0])
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s  %.3f  %s\n", i+1, r.CandidateID, r.Score, r.Decision)
		cmd.Printf("      semantic %.2f  entity %.2f  tag %.2f\n",
			r.Features.Semantic, r.Features.Entity, r.Features.Tag)
	}
	return nil
}

// parseDecision maps the --decision flag onto a link decision floor.
func parseDecision(s string) (domain.LinkDecision, error) {
	switch s {
	case "":
		return "", nil
	case "hard":
		return domain.LinkHard, nil
	case "soft":
		return domain.LinkSoft, nil
	default:
		return "", fmt.Errorf("invalid decision %q: want hard or soft", s)
	}
}
