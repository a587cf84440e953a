package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkCmd_SplitsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	content := "# Plan\n\n" + strings.Repeat("word ", 500)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"chunk", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "--- chunk 0")
	assert.Contains(t, buf.String(), "--- chunk 1")
	assert.Contains(t, buf.String(), "Total:")
}

func TestChunkCmd_JSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("just one short note"), 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"chunk", "--json", path})
	defer func() {
		rootCmd.SetArgs(nil)
		chunkJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "just one short note")
}

func TestChunkCmd_MissingFile(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"chunk", filepath.Join(t.TempDir(), "missing.md")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read file")
}
