// Package file provides TOML-based configuration loading.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/allthriveai/showcase/internal/parser"
)

// Config is the full application configuration. Every field has a working
// compiled-in default; a config file only overrides what it names.
type Config struct {
	// DataDir is the directory holding the SQLite database.
	DataDir string `toml:"data_dir"`

	// Workers bounds batch ingestion concurrency.
	Workers int `toml:"workers"`

	// Manifests overrides the dependency-manifest paths probed during
	// fetching. Empty keeps the built-in set.
	Manifests []string `toml:"manifests"`

	GitHub    GitHubConfig    `toml:"github"`
	Anthropic AnthropicConfig `toml:"anthropic"`

	// Parser is the content parsing policy.
	Parser parser.Policy `toml:"parser"`
}

// GitHubConfig holds repository platform settings.
type GitHubConfig struct {
	// Token is the fallback access token when a request carries none.
	Token string `toml:"token"`
}

// AnthropicConfig holds AI enrichment settings.
type AnthropicConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() Config {
	return Config{
		Workers: 4,
		Parser:  parser.DefaultPolicy(),
	}
}

// DefaultPath returns the default config file location,
// ~/.showcase/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".showcase", "config.toml"), nil
}

// Load reads a TOML config file over the defaults. A missing file is not
// an error; it yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
