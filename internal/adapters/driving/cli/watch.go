package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notelink/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and import changed notes",
	Long: `Watches a directory for markdown and text file changes and imports
each changed file as a note. The background enrichment worker runs for
as long as the watcher does. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watchedExtensions are the file types imported by the watcher.
var watchedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if enricherService != nil {
		go func() {
			if err := enricherService.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Enrichment worker stopped: %v", err)
			}
		}()
		defer enricherService.Stop() //nolint:errcheck
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !watchedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			note, err := noteService.ImportFile(ctx, event.Name)
			if err != nil {
				logger.Warn("Import %s failed: %v", event.Name, err)
				continue
			}
			cmd.Printf("Imported %s as %s\n", filepath.Base(event.Name), note.ID)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
