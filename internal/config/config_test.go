package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(LoadOptions{
		UserINI:   filepath.Join(tmpDir, "missing.conf"),
		UserYAML:  filepath.Join(tmpDir, "missing.yml"),
		SystemINI: filepath.Join(tmpDir, "etc.conf"),
		LookupEnv: noEnv,
	})
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, cfg.Kind)
	assert.Empty(t, cfg.Source)
	assert.Equal(t, ExpandPath(DefaultDBPath), cfg.DBPath)
	if _, err := os.UserHomeDir(); err == nil {
		assert.NotContains(t, cfg.DBPath, "~", "DBPath not expanded")
	}
}

func TestLoad_UserINI(t *testing.T) {
	tmpDir := t.TempDir()
	userConf := filepath.Join(tmpDir, ".tagger.conf")
	systemConf := filepath.Join(tmpDir, "etc", "tagger.conf")
	writeFile(t, userConf, "[default]\ndb_path = /data/user.db\n")
	writeFile(t, systemConf, "[default]\ndb_path = /data/system.db\n")

	cfg, err := Load(LoadOptions{UserINI: userConf, SystemINI: systemConf, LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, "/data/user.db", cfg.DBPath)
	assert.Equal(t, SourceUser, cfg.Kind)
	assert.Equal(t, userConf, cfg.Source)
}

func TestLoad_SystemINIFallback(t *testing.T) {
	tmpDir := t.TempDir()
	systemConf := filepath.Join(tmpDir, "tagger.conf")
	writeFile(t, systemConf, "[default]\ndb_path = /var/lib/tagger.db\n")

	cfg, err := Load(LoadOptions{
		UserINI:   filepath.Join(tmpDir, "nope"),
		SystemINI: systemConf,
		LookupEnv: noEnv,
	})
	require.NoError(t, err)
	assert.Equal(t, SourceSystem, cfg.Kind)
	assert.Equal(t, "/var/lib/tagger.db", cfg.DBPath)
}

func TestLoad_INIWithoutDBPathKeepsDefault(t *testing.T) {
	tmpDir := t.TempDir()
	userConf := filepath.Join(tmpDir, ".tagger.conf")
	writeFile(t, userConf, "[default]\nother = 1\n")

	cfg, err := Load(LoadOptions{UserINI: userConf, LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, userConf, cfg.Source)
	assert.Equal(t, ExpandPath(DefaultDBPath), cfg.DBPath)
}

func TestLoad_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlConf := filepath.Join(tmpDir, "tagger", "config.yml")
	writeFile(t, yamlConf, "db_path: ~/tags/main.db\n")

	cfg, err := Load(LoadOptions{UserYAML: yamlConf, LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, SourceUser, cfg.Kind)
	assert.Equal(t, ExpandPath("~/tags/main.db"), cfg.DBPath)
}

func TestLoad_MalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlConf := filepath.Join(tmpDir, "config.yml")
	writeFile(t, yamlConf, "db_path: [unterminated\n")

	_, err := Load(LoadOptions{UserYAML: yamlConf, LookupEnv: noEnv})
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	userConf := filepath.Join(tmpDir, ".tagger.conf")
	writeFile(t, userConf, "[default]\ndb_path = /data/user.db\n")

	env := func(key string) (string, bool) {
		if key == EnvDBPath {
			return "/override.db", true
		}
		return "", false
	}

	cfg, err := Load(LoadOptions{UserINI: userConf, LookupEnv: env})
	require.NoError(t, err)
	assert.Equal(t, "/override.db", cfg.DBPath)
	assert.True(t, cfg.FromEnv)
	assert.Equal(t, userConf, cfg.Source, "the config file is still reported")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~", home},
		{"~/tagger.db", filepath.Join(home, "tagger.db")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.in), "ExpandPath(%q)", tt.in)
	}
}
