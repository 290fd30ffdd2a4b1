package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at empty temp dirs and clears overrides.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"KIDSDIAG_DB", "KIDSDIAG_CATALOG", "KIDSDIAG_LOG_LEVEL", "KIDSDIAG_MAX_RECORDS", "KIDSDIAG_LLM_PROVIDER"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "kidsdiag", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 500, cfg.Engine.MaxRecords)
	assert.True(t, cfg.Engine.Jitter)
	assert.True(t, cfg.Storage.Compress)
	assert.Equal(t, 20, cfg.Storage.KeepProfiles)
	assert.False(t, cfg.Narrative.Enabled)
	assert.Equal(t, 3, cfg.Engine.Strategy.SequenceImpulsiveMistakes)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoConfig(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Source)
	assert.Equal(t, DefaultConfig().Engine, cfg.Engine)
}

func TestLoad_XDGFile(t *testing.T) {
	isolate(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	p := writeConfig(t, xdg, `
[storage]
db_path = "~/kids.db"
keep_profiles = 3

[engine]
max_records = 40
jitter = false
seed = 9

[engine.strategy]
sequence_impulsive_mistakes = 5

[logging]
level = "debug"
format = "json"
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, p, cfg.Source)
	assert.Equal(t, 40, cfg.Engine.MaxRecords)
	assert.Equal(t, 3, cfg.Storage.KeepProfiles)
	assert.True(t, cfg.Storage.Compress, "unset keys keep defaults")
	assert.Equal(t, 5, cfg.Engine.Strategy.SequenceImpulsiveMistakes)
	assert.Equal(t, 1, cfg.Engine.Strategy.SequenceSystematicMistakes)
	assert.NotContains(t, cfg.Storage.DBPath, "~")

	pc := cfg.Profile()
	assert.Equal(t, 40, pc.MaxRecords)
	assert.False(t, pc.Jitter)
	assert.Equal(t, uint64(9), pc.Seed)
	assert.Equal(t, 5, pc.Thresholds.SequenceImpulsiveMistakes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	p := writeConfig(t, t.TempDir(), "[engine]\nmax_records = 40\n")
	t.Setenv("KIDSDIAG_DB", "/tmp/x.db")
	t.Setenv("KIDSDIAG_MAX_RECORDS", "7")
	t.Setenv("KIDSDIAG_CATALOG", "/tmp/catalog.toml")
	t.Setenv("KIDSDIAG_LOG_LEVEL", "info")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.DBPath)
	assert.Equal(t, 7, cfg.Engine.MaxRecords)
	assert.Equal(t, "/tmp/catalog.toml", cfg.Catalog.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  string
	}{
		{"bad toml", "[engine\n", ""},
		{"negative records", "[engine]\nmax_records = -1\n", ""},
		{"bad format", "[logging]\nformat = \"xml\"\n", ""},
		{"bad level", "[logging]\nlevel = \"loud\"\n", ""},
		{"bad provider", "[narrative]\nenabled = true\nprovider = \"acme\"\n", ""},
		{"bad env", "", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if tt.env != "" {
				t.Setenv("KIDSDIAG_MAX_RECORDS", tt.env)
			}
			p := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(p)
			assert.Error(t, err)
		})
	}
}

func TestNarrativeLLM(t *testing.T) {
	isolate(t)
	t.Setenv("MY_KEY", "sk-test")
	n := NarrativeConfig{
		Provider:       "openai",
		Model:          "gpt-4o",
		APIKeyEnv:      "MY_KEY",
		BaseURL:        "https://example.test/v1",
		TimeoutSeconds: 5,
	}
	lc := n.LLM()
	assert.Equal(t, "openai", lc.Provider)
	assert.Equal(t, "sk-test", lc.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", lc.OpenAI.Model)
	assert.Equal(t, "https://example.test/v1", lc.OpenAI.BaseURL)
	assert.Equal(t, 5*time.Second, lc.Timeout)
	assert.NoError(t, lc.Validate())
}
