package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happykids/kidsdiag/internal/store"
)

const export = `{"game_type":"Sequence","date":"2025-04-01T10:00:00","emotions":{"sorrow":3,"joy":1},"mistakes":5,"reaction_times":[300,320]}
{"game_type":"Sequence","date":"2025-04-02T10:00:00","emotions":{"sorrow":2,"joy":2},"mistakes":4,"reaction_times":[310]}
{"game_type":"Sequence"}
`

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"KIDSDIAG_DB", "KIDSDIAG_CATALOG", "KIDSDIAG_LOG_LEVEL", "KIDSDIAG_MAX_RECORDS", "KIDSDIAG_LLM_PROVIDER"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestImportThenReport(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "kids.db")
	file := filepath.Join(dir, "export.jsonl")
	require.NoError(t, os.WriteFile(file, []byte(export), 0o644))

	require.NoError(t, run(t, "import", "--db", db, "--child", "c1", "--name", "Маша", "--birth", "2019-01-01", file))
	require.NoError(t, run(t, "report", "--db", db, "--save", "--no-jitter", "c1"))
	require.NoError(t, run(t, "report", "--db", db, "--all", "--json"))

	s, err := store.Open(db)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	n, err := s.ResultRepo().Count(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "invalid line skipped")

	child, err := s.ChildRepo().Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Маша", child.Name)
	assert.Equal(t, 2019, child.BirthDate.Year())

	profiles, err := s.ProfileRepo().Count(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, profiles, "--save and --all each store a snapshot")

	latest, err := s.ProfileRepo().Latest(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.Records)
	assert.Contains(t, string(latest.Data), `"cognitive_style"`)
}

func TestReportUnknownChild(t *testing.T) {
	dir := isolate(t)
	err := run(t, "report", "--db", filepath.Join(dir, "kids.db"), "--all=false", "nobody")
	assert.ErrorContains(t, err, "unknown child")
}

func TestImportRejectsBadBirth(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "export.jsonl")
	require.NoError(t, os.WriteFile(file, []byte(export), 0o644))

	err := run(t, "import", "--db", filepath.Join(dir, "kids.db"), "--child", "c2", "--birth", "01.02.2019", file)
	assert.ErrorContains(t, err, "invalid --birth")
}

func TestCatalogValidate(t *testing.T) {
	isolate(t)
	assert.NoError(t, run(t, "catalog", "validate"))

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("version = \"v9.0.0\"\n"), 0o644))
	assert.Error(t, run(t, "catalog", "validate", bad))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "Мар", truncate("Марина", 3))
}

func TestLLMCommands(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "kids.db")

	s, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendLLMRequest(context.Background(), store.LLMRequestEventData{
		RequestID: "a", Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "narrative",
		InputTokens: 1200, OutputTokens: 300, LatencyMs: 850, Success: true, RequestBody: "prompt body",
	}))
	require.NoError(t, s.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	require.NoError(t, run(t, "llm", "list", "--db", db))
	assert.Contains(t, out.String(), "claude-sonnet-4-5")

	out.Reset()
	require.NoError(t, run(t, "llm", "stats", "--db", db))
	assert.Contains(t, out.String(), "narrative")
	assert.Contains(t, out.String(), "1500")

	out.Reset()
	require.NoError(t, run(t, "llm", "view", "--db", db, "1"))
	assert.Contains(t, out.String(), "prompt body")

	assert.Error(t, run(t, "llm", "view", "--db", db, "99"))
	assert.Error(t, run(t, "llm", "view", "--db", db, "x"))
}
