// Command notelink is a local-first note relationship engine: it stores
// notes, enriches them with embeddings, tags, and entities, and scores
// how strongly any two notes relate.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/notelink/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/notelink/internal/adapters/driven/config/file"
	"github.com/custodia-labs/notelink/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/notelink/internal/adapters/driving/cli"
	"github.com/custodia-labs/notelink/internal/core/services"
	"github.com/custodia-labs/notelink/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	aiServices := ai.InitFromConfig(cfg)
	defer aiServices.Close()
	for _, warning := range aiServices.Warnings {
		logger.Warn("%s", warning)
	}

	bus := services.NewEventBus()
	defer bus.Close()

	enricher := services.NewEnrichmentService(
		store.NoteStore(),
		aiServices.EmbeddingService,
		aiServices.TagExtractor,
		aiServices.EntityExtractor,
		bus,
	)
	if rps := cfg.GetInt("enrichment.embed_rate"); rps > 0 {
		enricher.SetEmbedRate(float64(rps))
	}

	noteService := services.NewNoteService(store.NoteStore(), nil, enricher, bus)

	linkService := services.NewLinkService(store.NoteStore(), configfile.TagRulesFromConfig(cfg))
	if workers := cfg.GetInt("scoring.workers"); workers > 0 {
		linkService.SetWorkers(workers)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Notes:      noteService,
		Links:      linkService,
		Enricher:   enricher,
		SavedLinks: store.LinkStore(),
	})

	return cli.Execute()
}
