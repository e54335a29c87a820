// Package config discovers where the tag database lives.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

const (
	// DefaultDBPath is used when no config file names a database.
	DefaultDBPath = "~/tagger.db"

	// UserConfigFile is the INI file in the user's home directory.
	UserConfigFile = ".tagger.conf"
	// SystemConfigPath is the system-wide INI file.
	SystemConfigPath = "/etc/tagger.conf"

	// EnvDBPath overrides the database path from any config file.
	EnvDBPath = "TAGGER_DB_PATH"

	// iniSection is the section holding db_path.
	iniSection = "default"
	keyDBPath  = "db_path"
)

// SourceKind says where the configuration came from.
type SourceKind string

const (
	SourceUser    SourceKind = "user"
	SourceSystem  SourceKind = "system"
	SourceDefault SourceKind = "default"
)

// Config is the resolved runtime configuration.
type Config struct {
	DBPath  string     // Absolute or ~-expanded path of the SQLite file
	Source  string     // Config file used, empty for defaults
	Kind    SourceKind // Which kind of source Source is
	FromEnv bool       // DBPath was overridden by TAGGER_DB_PATH
}

// LoadOptions lists the candidate config files, in lookup order.
// Empty paths are skipped.
type LoadOptions struct {
	UserINI   string
	UserYAML  string
	SystemINI string

	// LookupEnv reads environment overrides. nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// DefaultLoadOptions returns the standard lookup locations.
func DefaultLoadOptions() LoadOptions {
	opts := LoadOptions{
		UserYAML:  GlobalConfigPath(),
		SystemINI: SystemConfigPath,
	}
	if home, err := os.UserHomeDir(); err == nil {
		opts.UserINI = filepath.Join(home, UserConfigFile)
	}
	return opts
}

// Load walks the candidate files and returns the first one found, or the
// defaults. A config file that exists but can't be parsed is an error.
func Load(opts LoadOptions) (*Config, error) {
	cfg := &Config{DBPath: DefaultDBPath, Kind: SourceDefault}

	candidates := []struct {
		path string
		kind SourceKind
		load func(string) (string, error)
	}{
		{opts.UserINI, SourceUser, loadINI},
		{opts.UserYAML, SourceUser, loadYAML},
		{opts.SystemINI, SourceSystem, loadINI},
	}

	for _, c := range candidates {
		if c.path == "" || !fileExists(c.path) {
			continue
		}
		dbPath, err := c.load(c.path)
		if err != nil {
			return nil, err
		}
		cfg.Source = c.path
		cfg.Kind = c.kind
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		break
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvDBPath); ok && v != "" {
		cfg.DBPath = v
		cfg.FromEnv = true
	}

	cfg.DBPath = ExpandPath(cfg.DBPath)
	return cfg, nil
}

// loadINI reads db_path from the [default] section of an INI file.
func loadINI(path string) (string, error) {
	f, err := ini.Load(path)
	if err != nil {
		return "", fmt.Errorf("parsing config %s: %w", path, err)
	}

	for _, name := range []string{iniSection, ini.DefaultSection} {
		sec, err := f.GetSection(name)
		if err != nil {
			continue
		}
		if sec.HasKey(keyDBPath) {
			return sec.Key(keyDBPath).String(), nil
		}
	}
	return "", nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
