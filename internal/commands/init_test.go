package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfeed-dev/bankfeed/internal/config"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runInit(dir))

	cfg, err := config.Load(filepath.Join(dir, "bankfeed.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestRunInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bankfeed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: {}\n"), 0o644))

	err := runInit(dir)
	assert.ErrorContains(t, err, "already exists")
}

func TestRunInitCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "project")

	require.NoError(t, runInit(dir))

	_, err := os.Stat(filepath.Join(dir, "bankfeed.yaml"))
	assert.NoError(t, err)
}
