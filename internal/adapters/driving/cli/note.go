package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
	Long:  `Add, list, view, import, or remove notes from the corpus.`,
}

var noteAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a note",
	Long: `Adds a note with the given title. Content is read from --content,
or from stdin when the flag is omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	RunE:  runNoteList,
}

var noteShowCmd = &cobra.Command{
	Use:   "show [note-id]",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShow,
}

var noteRmCmd = &cobra.Command{
	Use:   "rm [note-id]",
	Short: "Remove a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteRm,
}

var noteImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a markdown or text file as a note",
	Long: `Imports a file as a note. The note ID is derived from the file path,
so importing the same file again updates the existing note.`,
	Args: cobra.ExactArgs(1),
	RunE: runNoteImport,
}

// Flags for the note commands.
var (
	noteAddContent string
	noteAddTags    []string
	noteListJSON   bool
)

func init() {
	noteAddCmd.Flags().StringVarP(&noteAddContent, "content", "c", "", "note content (reads stdin when omitted)")
	noteAddCmd.Flags().StringSliceVarP(&noteAddTags, "tag", "t", nil, "tags to attach (repeatable)")
	noteListCmd.Flags().BoolVar(&noteListJSON, "json", false, "output notes as JSON")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteRmCmd)
	noteCmd.AddCommand(noteImportCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	content := noteAddContent
	if content == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = string(data)
	}

	note := &domain.Note{
		Title:   args[0],
		Content: content,
		Tags:    noteAddTags,
	}

	if err := noteService.Save(context.Background(), note); err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	cmd.Printf("Added note %s\n", note.ID)
	return nil
}

func runNoteList(cmd *cobra.Command, _ []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	notes, err := noteService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if noteListJSON {
		return outputJSON(cmd, notes)
	}

	if len(notes) == 0 {
		cmd.Println("No notes yet.")
		return nil
	}

	for i := range notes {
		title := notes[i].Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("  %s  %s\n", notes[i].ID, title)
		if len(notes[i].Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(notes[i].Tags, ", "))
		}
	}
	cmd.Printf("\nTotal: %d notes\n", len(notes))
	return nil
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	cmd.Printf("Note: %s\n\n", note.ID)
	cmd.Printf("  Title:    %s\n", note.Title)
	cmd.Printf("  Created:  %s\n", note.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", note.UpdatedAt.Format("2006-01-02 15:04:05"))
	if len(note.Tags) > 0 {
		cmd.Printf("  Tags:     %s\n", strings.Join(note.Tags, ", "))
	}
	if len(note.Entities) > 0 {
		cmd.Println("  Entities:")
		for _, e := range note.Entities {
			cmd.Printf("    %s (%.2f)\n", e.Name, e.Weight)
		}
	}
	if !note.Embedding.IsZero() {
		cmd.Printf("  Embedding: %d dimensions, %d chunk vectors\n",
			note.Embedding.Dimension, len(note.ChunkEmbeddings))
	}

	cmd.Printf("\n%s\n", note.Content)
	return nil
}

func runNoteRm(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	if err := noteService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove note: %w", err)
	}

	cmd.Printf("Removed note %s\n", args[0])
	return nil
}

func runNoteImport(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.ImportFile(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to import file: %w", err)
	}

	cmd.Printf("Imported %s as note %s\n", args[0], note.ID)
	return nil
}

// outputJSON marshals any value as indented JSON to the command output.
func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
