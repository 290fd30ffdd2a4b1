package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewJSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{Level: "info", Format: "json"})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("import done", "child", "c1", "records", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "import done", entry["msg"])
	assert.Equal(t, "c1", entry["child"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewTeesToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "kidsdiag.log")
	logger, closer, err := New(&buf, Options{Level: "warn", File: path})
	require.NoError(t, err)

	logger.Warn("catalog entry skipped", "code", "x")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalog entry skipped")
	assert.Contains(t, buf.String(), "code=x")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, Options{Format: "xml"})
	assert.Error(t, err)
}
