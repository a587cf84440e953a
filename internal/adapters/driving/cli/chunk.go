package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notelink/internal/chunker"
	"github.com/custodia-labs/notelink/internal/markdown"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Show how a file would be chunked",
	Long: `Strips markdown, normalises whitespace, and prints the chunks the
file would be split into, with their byte offsets. Useful for tuning
chunking parameters.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

// Flags for the chunk command.
var (
	chunkTargetTokens  int
	chunkOverlapTokens int
	chunkJSON          bool
)

func init() {
	chunkCmd.Flags().IntVar(&chunkTargetTokens, "target-tokens", 0, "target chunk size in tokens (default 350)")
	chunkCmd.Flags().IntVar(&chunkOverlapTokens, "overlap-tokens", 0, "overlap between chunks in tokens (default 80)")
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "output chunks as JSON")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var opts []chunker.Option
	if chunkTargetTokens > 0 {
		opts = append(opts, chunker.WithTargetTokens(chunkTargetTokens))
	}
	if chunkOverlapTokens > 0 {
		opts = append(opts, chunker.WithOverlapTokens(chunkOverlapTokens))
	}

	text := chunker.Normalize(markdown.ToPlainText(string(data)))
	chunks := chunker.New(opts...).Split(text)

	if chunkJSON {
		return outputJSON(cmd, chunks)
	}

	for _, c := range chunks {
		cmd.Printf("--- chunk %d [%d:%d] ---\n", c.Order, c.StartOffset, c.EndOffset)
		cmd.Println(c.Text)
	}
	cmd.Printf("\nTotal: %d chunks, %d chars\n", len(chunks), len(text))
	return nil
}
