package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkCmd_Use(t *testing.T) {
	assert.Equal(t, "link [source-id] [target-id]", linkCmd.Use)
}

func TestLinkCmd_RequiresTwoArgs(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"link", "only-one"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestLinkCmd_ScoresPair(t *testing.T) {
	store, cleanup := setupTestServices()
	defer cleanup()
	seedScoredPair(t, store)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"link", "src", "tgt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "src -> tgt")
	assert.Contains(t, buf.String(), "hard")
	assert.Contains(t, buf.String(), "Shared tags")
}

func TestLinkCmd_JSONOutput(t *testing.T) {
	store, cleanup := setupTestServices()
	defer cleanup()
	seedScoredPair(t, store)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"link", "--json", "src", "tgt"})
	defer func() {
		rootCmd.SetArgs(nil)
		linkJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"candidateId\"")
	assert.Contains(t, buf.String(), "\"decision\"")
}

func TestLinkCmd_SaveAndList(t *testing.T) {
	store, cleanup := setupTestServices()
	defer cleanup()
	seedScoredPair(t, store)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"link", "--save", "src", "tgt"})
	defer func() {
		rootCmd.SetArgs(nil)
		linkSave = false
	}()

	require.NoError(t, rootCmd.Execute())

	links, err := store.LinksFrom(context.Background(), "src")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "tgt", links[0].TargetID)

	buf.Reset()
	rootCmd.SetArgs([]string{"links", "src"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "tgt")
}

func TestLinkCmd_MissingNote(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"link", "nope", "also-nope"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scoring failed")
}

func TestLinkCmd_ServiceNotConfigured(t *testing.T) {
	oldService := linkService
	linkService = nil
	defer func() {
		linkService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"link", "a", "b"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "link service not configured")
}
