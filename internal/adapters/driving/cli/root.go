// Package cli provides the cobra-based command line interface.
// Commands are thin: they parse flags, call driving ports, and format
// output. Service wiring happens in main via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notelink/internal/core/ports/driven"
	"github.com/custodia-labs/notelink/internal/core/ports/driving"
	"github.com/custodia-labs/notelink/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	noteService     driving.NoteService
	linkService     driving.LinkService
	enricherService driving.Enricher
	linkStore       driven.LinkStore
)

// verbose enables debug logging for all commands.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "notelink",
	Short: "Score and explain relationships between your notes",
	Long: `Notelink keeps a local corpus of plain-text and markdown notes and
scores how strongly each pair is related: semantic chunk similarity,
shared entities, shared tags, and structural hints fused into a single
link score with an evidence trail.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles everything the commands need.
type Services struct {
	Notes      driving.NoteService
	Links      driving.LinkService
	Enricher   driving.Enricher
	SavedLinks driven.LinkStore
}

// SetServices injects the service implementations used by commands.
func SetServices(s Services) {
	noteService = s.Notes
	linkService = s.Links
	enricherService = s.Enricher
	linkStore = s.SavedLinks
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
