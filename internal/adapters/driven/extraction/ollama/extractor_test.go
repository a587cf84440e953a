package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOllama(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		json.NewEncoder(w).Encode(generateResponse{Response: response, Done: true}) //nolint:errcheck
	}))
}

func TestExtractor_ExtractTags(t *testing.T) {
	server := newFakeOllama(t, `["kubernetes", "deploy"]`)
	defer server.Close()

	ext := NewExtractor(Config{BaseURL: server.URL})

	tags, err := ext.ExtractTags(context.Background(), "rollout plan")
	require.NoError(t, err)
	assert.Equal(t, []string{"kubernetes", "deploy"}, tags)
}

func TestExtractor_ExtractTags_ToleratesProse(t *testing.T) {
	server := newFakeOllama(t, "Here are the tags:\n```json\n[\"go\", \"sqlite\"]\n```\nHope that helps!")
	defer server.Close()

	ext := NewExtractor(Config{BaseURL: server.URL})

	tags, err := ext.ExtractTags(context.Background(), "db notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sqlite"}, tags)
}

func TestExtractor_ExtractTags_Garbage(t *testing.T) {
	server := newFakeOllama(t, "I cannot help with that.")
	defer server.Close()

	ext := NewExtractor(Config{BaseURL: server.URL})

	_, err := ext.ExtractTags(context.Background(), "text")
	assert.Error(t, err)
}

func TestExtractor_ExtractEntities(t *testing.T) {
	server := newFakeOllama(t, `[{"entity": "kubernetes", "weight": 0.9}, {"entity": "helm", "weight": 0.4}]`)
	defer server.Close()

	ext := NewExtractor(Config{BaseURL: server.URL})

	mentions, err := ext.ExtractEntities(context.Background(), "rollout plan")
	require.NoError(t, err)
	require.Len(t, mentions, 2)
	assert.Equal(t, "kubernetes", mentions[0].Name)
	assert.InDelta(t, 0.9, mentions[0].Weight, 1e-9)
}

func TestExtractor_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	ext := NewExtractor(Config{BaseURL: server.URL})

	_, err := ext.ExtractTags(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `["a"]`, string(extractJSONArray(`["a"]`)))
	assert.Equal(t, `["a"]`, string(extractJSONArray("prefix [\"a\"] suffix")))
	assert.Equal(t, `[{"entity":"x","weight":1}]`, string(extractJSONArray("```json\n[{\"entity\":\"x\",\"weight\":1}]\n```")))
	assert.Equal(t, "no array here", string(extractJSONArray("no array here")))
}

func TestExtractor_Defaults(t *testing.T) {
	ext := NewExtractor(Config{})
	assert.Equal(t, DefaultModel, ext.ModelName())
}
