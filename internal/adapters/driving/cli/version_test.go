package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	oldVersion := version
	version = "1.2.3"
	defer func() {
		version = oldVersion
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "notelink version 1.2.3\n", buf.String())
}

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() {
		version = oldVersion
	}()

	SetVersion("9.9.9")

	assert.Equal(t, "9.9.9", version)
}
