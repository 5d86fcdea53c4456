// Package config loads yaclog's configuration using koanf. Values are merged
// with priority: environment variables > project config (.yaclog.yml) >
// user config (~/.config/yaclog/config.yml) > defaults. A legacy project
// config in JSON (.yaclog.json) is still read when no YAML file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds yaclog's settings.
type Config struct {
	// Path is the changelog file to operate on.
	Path string `koanf:"path"`

	// Manifest is the Cargo.toml manifest updated by `yaclog release --cargo`.
	Manifest string `koanf:"manifest"`

	// SkipConfirmations answers yes to every confirmation prompt. Also set
	// by the YACLOG_YES environment variable.
	SkipConfirmations bool `koanf:"skip_confirmations"`

	// Plain disables colored output even on a terminal.
	Plain bool `koanf:"plain"`
}

// Default returns the built-in configuration values.
func Default() *Config {
	return &Config{
		Path:     "CHANGELOG.md",
		Manifest: "Cargo.toml",
	}
}

// UserConfigPath returns the XDG-style user config path,
// ~/.config/yaclog/config.yml.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "yaclog", "config.yml"), nil
}

// ProjectConfigPath returns the project config path in the current directory.
func ProjectConfigPath() string {
	return ".yaclog.yml"
}

// LegacyProjectConfigPath returns the deprecated JSON project config path.
func LegacyProjectConfigPath() string {
	return ".yaclog.json"
}

// Load merges configuration from all sources and returns the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("YACLOG_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	// unmarshal over the defaults so unset keys keep their default values
	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if os.Getenv("YACLOG_YES") != "" {
		cfg.SkipConfirmations = true
	}

	return cfg, nil
}

func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading user config %s: %w", path, err)
	}
	return nil
}

func loadProjectConfig(k *koanf.Koanf) error {
	if path := ProjectConfigPath(); fileExists(path) {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("loading project config %s: %w", path, err)
		}
		return nil
	}
	if path := LegacyProjectConfigPath(); fileExists(path) {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("loading legacy project config %s: %w", path, err)
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: YACLOG_SKIP_CONFIRMATIONS -> skip_confirmations
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "YACLOG_"))
}
