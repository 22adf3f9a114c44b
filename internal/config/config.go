// Package config resolves runtime settings.
//
// Sources are applied in order, later ones winning:
//
//  1. defaults (Default)
//  2. an optional YAML file
//  3. an optional .env file
//  4. process environment, STORYTELLER_ prefixed
//
// Relative paths are resolved against Root.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/storyteller/internal/llm"
	"github.com/roach88/storyteller/internal/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "STORYTELLER_"

// Config holds all runtime settings.
type Config struct {
	// Root is the working directory holding stories/, images/ and the files below.
	Root string `yaml:"root" env:"ROOT"`

	// Database is the SQLite file.
	Database string `yaml:"database" env:"DATABASE"`

	// Driver selects the SQLite driver: "sqlite3" (cgo) or "sqlite" (pure Go).
	Driver string `yaml:"driver" env:"DRIVER"`

	// Catalog is the tab-separated dice table.
	Catalog string `yaml:"catalog" env:"CATALOG"`

	// LogFile receives the application log.
	LogFile string `yaml:"log_file" env:"LOG_FILE"`

	Ollama Ollama `yaml:"ollama" envPrefix:"OLLAMA_"`
}

// Ollama configures the generation backend.
type Ollama struct {
	BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
	Model     string        `yaml:"model" env:"MODEL"`
	KeepAlive string        `yaml:"keep_alive" env:"KEEP_ALIVE"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Root:     ".",
		Database: "stories.db",
		Driver:   store.DriverCGO,
		Catalog:  "dices.tsv",
		LogFile:  "the_story_teller.log",
		Ollama: Ollama{
			BaseURL:   llm.DefaultBaseURL,
			Model:     llm.DefaultModel,
			KeepAlive: llm.DefaultKeepAlive,
			Timeout:   llm.DefaultTimeout,
		},
	}
}

// Options selects the sources Load reads.
type Options struct {
	// File is a YAML config file. Empty skips it; a missing file is an error.
	File string

	// DotEnv is a .env file. Empty or missing skips it.
	DotEnv string

	// Environ replaces the process environment when non-nil.
	Environ map[string]string
}

// Load resolves the configuration from opts.
func Load(opts Options) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		if err := loadFile(opts.File, &cfg); err != nil {
			return Config{}, err
		}
	}

	environ, err := environment(opts)
	if err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg. Unknown keys are rejected.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// environment merges the .env file under the process environment.
// Variables already set in the environment win, as with godotenv.Load.
func environment(opts Options) (map[string]string, error) {
	environ := opts.Environ
	if environ == nil {
		environ = processEnv()
	}
	if opts.DotEnv == "" {
		return environ, nil
	}

	dotenv, err := godotenv.Read(opts.DotEnv)
	if errors.Is(err, fs.ErrNotExist) {
		return environ, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.DotEnv, err)
	}

	merged := make(map[string]string, len(dotenv)+len(environ))
	for k, v := range dotenv {
		merged[k] = v
	}
	for k, v := range environ {
		merged[k] = v
	}
	return merged, nil
}

func processEnv() map[string]string {
	m := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	if c.Driver != store.DriverCGO && c.Driver != store.DriverPure {
		return fmt.Errorf("config: driver %q: want %q or %q", c.Driver, store.DriverCGO, store.DriverPure)
	}
	if c.Database == "" {
		return errors.New("config: database is required")
	}
	if c.Catalog == "" {
		return errors.New("config: catalog is required")
	}
	if c.Ollama.Timeout < 0 {
		return fmt.Errorf("config: ollama timeout %s is negative", c.Ollama.Timeout)
	}
	return nil
}

// Path resolves p against Root unless it is absolute.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// DatabasePath returns the resolved database file.
func (c Config) DatabasePath() string { return c.Path(c.Database) }

// CatalogPath returns the resolved catalog file.
func (c Config) CatalogPath() string { return c.Path(c.Catalog) }

// LogPath returns the resolved log file.
func (c Config) LogPath() string { return c.Path(c.LogFile) }

// OllamaConfig converts the backend settings for llm.NewOllama.
func (c Config) OllamaConfig() llm.OllamaConfig {
	return llm.OllamaConfig{
		BaseURL:   c.Ollama.BaseURL,
		Model:     c.Ollama.Model,
		KeepAlive: c.Ollama.KeepAlive,
		Timeout:   c.Ollama.Timeout,
	}
}
