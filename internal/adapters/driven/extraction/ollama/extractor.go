// Package ollama provides tag and entity extraction adapters using a
// local Ollama model.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/notelink/internal/core/domain"
	"github.com/custodia-labs/notelink/internal/core/ports/driven"
)

// Ensure Extractor implements the interfaces.
var (
	_ driven.TagExtractor    = (*Extractor)(nil)
	_ driven.EntityExtractor = (*Extractor)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// maxPromptChars caps how much note text is sent per extraction call.
const maxPromptChars = 6000

// Config holds configuration for the Ollama extractor.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Extractor derives tags and weighted entity mentions from note text
// using an Ollama model.
type Extractor struct {
	client  *http.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewExtractor creates a new Ollama extractor.
func NewExtractor(cfg Config) *Extractor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// tagPrompt asks for a flat JSON array of tag strings.
const tagPrompt = `Extract up to 10 short topic tags for the following note.
Respond with ONLY a JSON array of lowercase strings, e.g. ["kubernetes", "deploy"].

Note:
%s`

// entityPrompt asks for a JSON array of weighted entity mentions.
const entityPrompt = `Extract the named entities (people, projects, tools, organisations)
mentioned in the following note. Weight each entity 0.0-1.0 by how central
it is to the note. Respond with ONLY a JSON array like
[{"entity": "kubernetes", "weight": 0.9}].

Note:
%s`

// ExtractTags returns raw tag strings for the given text.
func (e *Extractor) ExtractTags(ctx context.Context, text string) ([]string, error) {
	raw, err := e.generate(ctx, fmt.Sprintf(tagPrompt, truncate(text)))
	if err != nil {
		return nil, fmt.Errorf("extract tags: %w", err)
	}

	var tags []string
	if err := json.Unmarshal(extractJSONArray(raw), &tags); err != nil {
		return nil, fmt.Errorf("extract tags: unparseable model output: %w", err)
	}
	return tags, nil
}

// ExtractEntities returns raw entity mentions for the given text.
func (e *Extractor) ExtractEntities(ctx context.Context, text string) ([]domain.EntityMention, error) {
	raw, err := e.generate(ctx, fmt.Sprintf(entityPrompt, truncate(text)))
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}

	var mentions []domain.EntityMention
	if err := json.Unmarshal(extractJSONArray(raw), &mentions); err != nil {
		return nil, fmt.Errorf("extract entities: unparseable model output: %w", err)
	}
	return mentions, nil
}

// ModelName returns the name of the model being used.
func (e *Extractor) ModelName() string {
	return e.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
func (e *Extractor) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// generate runs one non-streaming completion.
func (e *Extractor) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  e.model,
		Prompt: prompt,
		Stream: false,
		Options: &options{
			NumPredict:  512,
			Temperature: 0.1,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return genResp.Response, nil
}

// extractJSONArray pulls the first JSON array out of model output,
// tolerating surrounding prose and markdown code fences.
func extractJSONArray(raw string) []byte {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return []byte(s)
	}
	return []byte(s[start : end+1])
}

// truncate caps the note text included in a prompt.
func truncate(text string) string {
	if len(text) <= maxPromptChars {
		return text
	}
	return text[:maxPromptChars]
}
