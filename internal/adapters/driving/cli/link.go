package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

var linkCmd = &cobra.Command{
	Use:   "link [source-id] [target-id]",
	Short: "Score the relationship between two notes",
	Long: `Scores one note pair: chunk-level semantic similarity, shared
entities, shared tags, and structural hints fused into a single link
score with an explanation of the evidence.`,
	Args: cobra.ExactArgs(2),
	RunE: runLink,
}

var linksCmd = &cobra.Command{
	Use:   "links [note-id]",
	Short: "List saved links for a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinks,
}

// Flags for the link commands.
var (
	linkMinSim float64
	linkTopK   int
	linkMax    bool
	linkJSON   bool
	linkSave   bool
)

func init() {
	linkCmd.Flags().Float64Var(&linkMinSim, "min-sim", 0, "minimum chunk cosine to count as evidence (default 0.7)")
	linkCmd.Flags().IntVar(&linkTopK, "top-k", 0, "maximum evidence matches to keep (default 3)")
	linkCmd.Flags().BoolVar(&linkMax, "max", false, "aggregate cosines with max instead of mean")
	linkCmd.Flags().BoolVar(&linkJSON, "json", false, "output result as JSON")
	linkCmd.Flags().BoolVar(&linkSave, "save", false, "persist the scored link")

	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(linksCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	if linkService == nil {
		return errors.New("link service not configured")
	}

	sourceID, targetID := args[0], args[1]
	ctx := context.Background()

	result, err := linkService.ScorePair(ctx, sourceID, targetID, domain.ScoreOptions{
		MinSimilarity: linkMinSim,
		TopK:          linkTopK,
		MaxAggregate:  linkMax,
	})
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	if linkSave {
		if linkStore == nil {
			return errors.New("link store not configured")
		}
		err := linkStore.SaveLink(ctx, domain.Link{
			SourceID: sourceID,
			TargetID: targetID,
			Score:    result.Score,
			Decision: result.Decision,
		})
		if err != nil {
			return fmt.Errorf("failed to save link: %w", err)
		}
	}

	if linkJSON {
		return outputJSON(cmd, result)
	}

	outputLinkResult(cmd, sourceID, result)
	return nil
}

func runLinks(cmd *cobra.Command, args []string) error {
	if linkStore == nil {
		return errors.New("link store not configured")
	}

	links, err := linkStore.LinksFrom(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list links: %w", err)
	}

	if len(links) == 0 {
		cmd.Printf("No saved links for %s\n", args[0])
		return nil
	}

	cmd.Printf("Links from %s:\n\n", args[0])
	for _, link := range links {
		cmd.Printf("  %s  %.3f  %s\n", link.TargetID, link.Score, link.Decision)
	}
	return nil
}

// outputLinkResult prints one scored pair with its evidence.
func outputLinkResult(cmd *cobra.Command, sourceID string, r *domain.LinkResult) {
	cmd.Printf("%s -> %s\n\n", sourceID, r.CandidateID)
	cmd.Printf("  Score:    %.3f (%s)\n", r.Score, r.Decision)
	cmd.Printf("  Semantic: %.3f  Entity: %.3f  Tag: %.3f\n",
		r.Features.Semantic, r.Features.Entity, r.Features.Tag)
	if r.Features.Reference > 0 || r.Features.Temporal > 0 || r.Features.Session > 0 {
		cmd.Printf("  Reference: %.2f  Temporal: %.2f  Session: %.2f\n",
			r.Features.Reference, r.Features.Temporal, r.Features.Session)
	}

	if len(r.Explain.SharedEntities) > 0 {
		cmd.Println("\n  Shared entities:")
		for _, e := range r.Explain.SharedEntities {
			cmd.Printf("    %s (%.2f)\n", e.Name, e.Weight)
		}
	}
	if len(r.Explain.SharedTags) > 0 {
		cmd.Println("\n  Shared tags:")
		for _, tag := range r.Explain.SharedTags {
			cmd.Printf("    %s\n", tag)
		}
	}
	if len(r.Matches) > 0 {
		cmd.Println("\n  Evidence:")
		for _, m := range r.Matches {
			cmd.Printf("    [%.3f] chunk %d <-> chunk %d\n", m.Similarity, m.SourceOrder, m.TargetOrder)
			if m.SourceText != "" {
				cmd.Printf("      A: %s\n", m.SourceText)
			}
			if m.TargetText != "" {
				cmd.Printf("      B: %s\n", m.TargetText)
			}
		}
	}
}
