// Package config handles gosysctl configuration.
//
// Configuration loads with overlay semantics: built-in defaults
// (embedded from default.toml) first, then the config file if it
// exists. CLI flags and environment variables override at runtime in
// the CLI layer. A missing file means defaults; an invalid file is an
// error rather than a silent fallback.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultConfigTOML string

// DefaultConfigPath is where gosysctl looks for its config file.
const DefaultConfigPath = "/usr/local/etc/gosysctl.toml"

// Config is the top-level gosysctl configuration.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Snapshot SnapshotConfig `toml:"snapshot"`
}

// LoggingConfig controls logging behaviour.
type LoggingConfig struct {
	// Level is a log spec, e.g. "info" or "warn,sysctl=debug".
	Level string `toml:"level"`
	// Format is "text" or "json".
	Format string `toml:"format"`
	// Components is an alternative way to give per-component levels.
	Components map[string]string `toml:"components"`
}

// ToSpec renders the logging config as a log spec string. Level wins
// over Components when both are set.
func (c *LoggingConfig) ToSpec() string {
	if c.Level != "" {
		return c.Level
	}
	if len(c.Components) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c.Components)+1)
	parts = append(parts, "info")
	for component, level := range c.Components {
		parts = append(parts, component+"="+level)
	}
	return strings.Join(parts, ",")
}

// SnapshotConfig controls the snapshot store.
type SnapshotConfig struct {
	// Path is the SQLite database holding captured snapshots.
	Path string `toml:"path"`
}

// Load reads the config at path over the embedded defaults. An empty
// path uses DefaultConfigPath.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.Decode(defaultConfigTOML, &cfg); err != nil {
		return Config{}, fmt.Errorf("embedded defaults: %w", err)
	}

	if path == "" {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
