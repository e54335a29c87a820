package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/tagger/config.yml", GlobalConfigPath())

	// Empty XDG_CONFIG_HOME falls back to ~/.config
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	assert.Equal(t, filepath.Join(home, ".config", "tagger", "config.yml"), GlobalConfigPath())
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "config.yml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.DBPath)
}

func TestLoadGlobalConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, "# tagger\ndb_path: /srv/tags.db\nunknown: ignored\n")

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/tags.db", cfg.DBPath)
}

func TestLoadGlobalConfig_Unreadable(t *testing.T) {
	// A directory can't be read as a file
	_, err := LoadGlobalConfig(t.TempDir())
	assert.Error(t, err)
}
