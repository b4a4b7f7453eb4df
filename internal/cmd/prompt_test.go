package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLog_BadLevelKeepsFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "selectpro.log")

	logger, closer := openLog(path, "chatty")
	logger.Warn("still logging")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "invalid log level")
	assert.Contains(t, string(data), `"log_level":"chatty"`)
	assert.Contains(t, string(data), "still logging")
}

func TestOpenLog_UnwritablePathDiscards(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	logger, closer := openLog(filepath.Join(blocker, "selectpro.log"), "warn")
	require.NotNil(t, logger)
	logger.Warn("dropped")
	assert.NoError(t, closer.Close())
}
