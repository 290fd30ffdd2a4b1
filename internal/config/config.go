// Package config loads kidsdiag settings from TOML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/happykids/kidsdiag/internal/llm"
	"github.com/happykids/kidsdiag/internal/profile"
	"github.com/happykids/kidsdiag/internal/strategy"
)

// Config holds all kidsdiag configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Engine    EngineConfig    `toml:"engine"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Logging   LoggingConfig   `toml:"logging"`
	Narrative NarrativeConfig `toml:"narrative"`

	// Source is the file the config was read from, empty for defaults.
	Source string `toml:"-"`
}

type StorageConfig struct {
	DBPath       string `toml:"db_path"`
	KeepProfiles int    `toml:"keep_profiles"`
	Compress     bool   `toml:"compress"`
}

type EngineConfig struct {
	MaxRecords int                 `toml:"max_records"`
	Workers    int                 `toml:"workers"`
	Jitter     bool                `toml:"jitter"`
	Seed       uint64              `toml:"seed"`
	Strategy   strategy.Thresholds `toml:"strategy"`
}

type CatalogConfig struct {
	// Path to a diagnosis catalog. Empty uses the built-in catalog.
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text or json
	File   string `toml:"file"`
}

type NarrativeConfig struct {
	Enabled        bool   `toml:"enabled"`
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			KeepProfiles: 20,
			Compress:     true,
		},
		Engine: EngineConfig{
			MaxRecords: 500,
			Jitter:     true,
			Strategy:   strategy.DefaultThresholds(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Narrative: NarrativeConfig{
			Enabled:        false,
			Provider:       "anthropic",
			APIKeyEnv:      "ANTHROPIC_API_KEY",
			TimeoutSeconds: 30,
		},
	}
}

// Load reads config from path, or from the standard locations when path is
// empty, then applies KIDSDIAG_* environment overrides. A missing file at a
// standard location is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Source = path
	} else {
		for _, p := range configPaths() {
			if _, err := os.Stat(p); err == nil {
				if _, err := toml.DecodeFile(p, &cfg); err != nil {
					return cfg, fmt.Errorf("parse config %s: %w", p, err)
				}
				cfg.Source = p
				break
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	cfg.Storage.DBPath = expandHome(cfg.Storage.DBPath)
	cfg.Catalog.Path = expandHome(cfg.Catalog.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("KIDSDIAG_DB"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("KIDSDIAG_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("KIDSDIAG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KIDSDIAG_MAX_RECORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KIDSDIAG_MAX_RECORDS: %w", err)
		}
		c.Engine.MaxRecords = n
	}
	if v := os.Getenv("KIDSDIAG_LLM_PROVIDER"); v != "" {
		c.Narrative.Provider = v
		c.Narrative.Enabled = true
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Engine.MaxRecords < 0 {
		return fmt.Errorf("engine.max_records must be >= 0, got %d", c.Engine.MaxRecords)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be >= 0, got %d", c.Engine.Workers)
	}
	if c.Storage.KeepProfiles < 0 {
		return fmt.Errorf("storage.keep_profiles must be >= 0, got %d", c.Storage.KeepProfiles)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	if c.Narrative.Enabled {
		switch c.Narrative.Provider {
		case "anthropic", "openai", "gemini", "openrouter", "mock":
		default:
			return fmt.Errorf("unknown narrative.provider %q", c.Narrative.Provider)
		}
	}
	return nil
}

// Profile returns the engine configuration.
func (c Config) Profile() profile.Config {
	pc := profile.DefaultConfig()
	pc.Thresholds = c.Engine.Strategy
	pc.MaxRecords = c.Engine.MaxRecords
	pc.Jitter = c.Engine.Jitter
	pc.Seed = c.Engine.Seed
	return pc
}

// LLM returns the provider configuration for the narrative. The API key is
// read from the variable named by api_key_env, then from the KIDSDIAG_*
// provider variables.
func (c NarrativeConfig) LLM() llm.Config {
	lc := llm.ConfigFromEnv()
	lc.Provider = c.Provider
	if c.TimeoutSeconds > 0 {
		lc.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}

	key := ""
	if c.APIKeyEnv != "" {
		key = os.Getenv(c.APIKeyEnv)
	}
	switch c.Provider {
	case "anthropic":
		setIf(&lc.Anthropic.APIKey, key)
		setIf(&lc.Anthropic.Model, c.Model)
	case "openai":
		setIf(&lc.OpenAI.APIKey, key)
		setIf(&lc.OpenAI.Model, c.Model)
		setIf(&lc.OpenAI.BaseURL, c.BaseURL)
	case "gemini":
		setIf(&lc.Gemini.APIKey, key)
		setIf(&lc.Gemini.Model, c.Model)
	case "openrouter":
		setIf(&lc.OpenRouter.APIKey, key)
		setIf(&lc.OpenRouter.Model, c.Model)
		setIf(&lc.OpenRouter.BaseURL, c.BaseURL)
	}
	return lc
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "kidsdiag", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "kidsdiag", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
