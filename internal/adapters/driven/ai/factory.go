// Package ai provides factory functions for creating AI service adapters
// from configuration.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/notelink/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/notelink/internal/adapters/driven/embedding/openai"
	ollamaextract "github.com/custodia-labs/notelink/internal/adapters/driven/extraction/ollama"
	"github.com/custodia-labs/notelink/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Providers that can back the embedding service.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// InitResult contains the adapters built from configuration. Any field
// may be nil when its provider is not configured; the services degrade
// gracefully without them.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	TagExtractor     driven.TagExtractor
	EntityExtractor  driven.EntityExtractor
	Warnings         []string // Non-fatal issues that disabled a service.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
}

// InitFromConfig builds the embedding and extraction adapters described
// by the configuration. An unreachable or misconfigured provider is
// reported as a warning and its service left nil, never fatal: the
// engine still scores with persisted vectors and tags.
func InitFromConfig(cfg driven.ConfigStore) *InitResult {
	result := &InitResult{}

	embedder, err := CreateEmbeddingService(cfg)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("embedding disabled: %v", err))
	} else if embedder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err := embedder.Ping(ctx)
		cancel()
		if err != nil {
			embedder.Close()
			result.Warnings = append(result.Warnings, fmt.Sprintf("embedding disabled: provider unreachable: %v", err))
		} else {
			result.EmbeddingService = embedder
		}
	}

	extractor, err := CreateExtractor(cfg)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("extraction disabled: %v", err))
	} else if extractor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err := extractor.Ping(ctx)
		cancel()
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("extraction disabled: provider unreachable: %v", err))
		} else {
			result.TagExtractor = extractor
			result.EntityExtractor = extractor
		}
	}

	return result
}

// CreateEmbeddingService creates the embedding service selected by
// "embedding.provider". Returns nil if no provider is configured.
func CreateEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	switch provider := cfg.GetString("embedding.provider"); provider {
	case "":
		return nil, nil

	case ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil

	case ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.GetString("embedding.api_key"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// CreateExtractor creates the tag and entity extractor selected by
// "extraction.provider". Returns nil if no provider is configured.
func CreateExtractor(cfg driven.ConfigStore) (*ollamaextract.Extractor, error) {
	switch provider := cfg.GetString("extraction.provider"); provider {
	case "":
		return nil, nil

	case ProviderOllama:
		return ollamaextract.NewExtractor(ollamaextract.Config{
			BaseURL: cfg.GetString("extraction.base_url"),
			Model:   cfg.GetString("extraction.model"),
		}), nil

	default:
		return nil, fmt.Errorf("unsupported extraction provider: %s", provider)
	}
}
