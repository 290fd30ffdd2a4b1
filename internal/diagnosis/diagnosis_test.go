package diagnosis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happykids/kidsdiag/internal/fuzzy"
	"github.com/happykids/kidsdiag/internal/params"
	"github.com/happykids/kidsdiag/internal/quality"
)

func testVocab() *Vocabulary {
	return DefaultVocabulary(quality.DefaultConfig(), params.DefaultConfig())
}

func TestDefaultCatalog(t *testing.T) {
	cat, err := DefaultCatalog(testVocab())
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", cat.Version)
	require.Len(t, cat.Entries, 7)

	e, ok := cat.Get("anxiety")
	require.True(t, ok)
	require.Len(t, e.Conditions, 2)
	// legacy keys are sorted and resolved to canonical terms
	assert.Equal(t, Condition{Variable: VarEmotion, Term: "sorrow", Min: 0.4}, e.Conditions[0])
	assert.Equal(t, Condition{Variable: quality.MotivationalPotential, Term: "low", Min: 0.4}, e.Conditions[1])

	fav, ok := cat.Get("favorable")
	require.True(t, ok)
	assert.Len(t, fav.Conditions, 2)
	assert.Equal(t, 10, fav.Priority)
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"bad version", `version = "latest"`, "not a semantic version"},
		{"wrong major", `version = "2.1.0"`, "not supported"},
		{"malformed key", `version = "1.0.0"
[[diagnosis]]
code = "x"
fuzzy_conditions = { "motivational_potential" = 0.5 }`, "variable.term"},
		{"unknown variable", `version = "1.0.0"
[[diagnosis]]
code = "x"
fuzzy_conditions = { "mood.low" = 0.5 }`, "unknown variable"},
		{"unknown emotion", `version = "1.0.0"
[[diagnosis]]
code = "x"
fuzzy_conditions = { "emotional_profile.ужас" = 0.5 }`, "unknown term"},
		{"threshold out of range", `version = "1.0.0"
[[diagnosis]]
code = "x"
fuzzy_conditions = { "objectivity.low" = 1.5 }`, "outside [0, 1]"},
		{"no conditions", `version = "1.0.0"
[[diagnosis]]
code = "x"`, "no conditions"},
		{"missing code", `version = "1.0.0"
[[diagnosis]]
fuzzy_conditions = { "objectivity.low" = 0.5 }`, "missing code"},
		{"duplicate", `version = "1.0.0"
[[diagnosis]]
code = "x"
fuzzy_conditions = { "objectivity.low" = 0.5 }
[[diagnosis]]
code = "x"
fuzzy_conditions = { "objectivity.high" = 0.5 }`, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog(tt.toml, testVocab())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCatalogErrorNamesEntry(t *testing.T) {
	_, err := ParseCatalog(`version = "1.0.0"
[[diagnosis]]
code = "ok"
fuzzy_conditions = { "objectivity.low" = 0.5 }
[[diagnosis]]
code = "broken"
fuzzy_conditions = { "nope.low" = 0.5 }`, testVocab())
	var ce *CatalogError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Index)
	assert.Equal(t, "broken", ce.Code)
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	data := `version = "1.2.0"

[[diagnosis]]
code = "impulsive_style"
name = "Импульсивный стиль"
priority = 1

  [[diagnosis.condition]]
  variable = "cognitive_style"
  term = "импульсивный"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cat, err := LoadCatalog(path, testVocab())
	require.NoError(t, err)
	require.Len(t, cat.Entries, 1)
	c := cat.Entries[0].Conditions[0]
	assert.Equal(t, Label, c.Kind)
	assert.Equal(t, "impulsive", c.Term)
	assert.Equal(t, "cognitive_style == impulsive", c.String())

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.toml"), testVocab())
	assert.Error(t, err)
}

func entry(code string, prio int, conds ...Condition) Entry {
	return Entry{Code: code, Name: code, Priority: prio, Conditions: conds}
}

func num(variable, term string, min float64) Condition {
	return Condition{Variable: variable, Term: term, Min: min}
}

func TestEvaluate(t *testing.T) {
	p := MapProfile{
		Degrees: map[string]fuzzy.Memberships{
			"a": {"x": 0.6, "y": 0.8},
		},
		Labels: map[string]string{VarStyle: "impulsive"},
	}
	tests := []struct {
		name string
		e    Entry
		want float64
	}{
		{"min over conditions", entry("e", 1, num("a", "x", 0.5), num("a", "y", 0.5)), 0.6},
		{"one below threshold", entry("e", 1, num("a", "x", 0.7), num("a", "y", 0.5)), 0},
		{"missing variable skipped", entry("e", 1, num("a", "y", 0.5), num("b", "x", 0.1)), 0.8},
		{"nothing evaluable", entry("e", 1, num("b", "x", 0.1)), 0},
		{"label equal", entry("e", 1, Condition{Variable: VarStyle, Term: "impulsive", Kind: Label}), 1},
		{"label differs", entry("e", 1, Condition{Variable: VarStyle, Term: "systematic", Kind: Label}, num("a", "x", 0)), 0},
		{"missing term skipped", entry("e", 1, num("a", "x", 0), Condition{Variable: "a", Term: "z"}), 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Evaluate(p, tt.e), 1e-9)
		})
	}
}

func TestMatchAllOrdering(t *testing.T) {
	p := MapProfile{Degrees: map[string]fuzzy.Memberships{
		"a": {"x": 0.6, "y": 0.9},
	}}
	cat := &Catalog{Entries: []Entry{
		entry("prio5", 5, num("a", "x", 0.5)),
		entry("prio2", 2, num("a", "x", 0.5)),
		entry("strong", 9, num("a", "y", 0.5)),
		entry("miss", 1, num("a", "x", 0.7)),
	}}
	ms := MatchAll(p, cat)
	assert.Equal(t, []string{"strong", "prio2", "prio5"}, Codes(ms))
	assert.InDelta(t, 0.9, ms[0].Degree, 1e-9)
	assert.Nil(t, MatchAll(p, nil))
}

func TestMatchAllMonotonic(t *testing.T) {
	cat := &Catalog{Entries: []Entry{
		entry("target", 3, num("a", "x", 0.5), num("b", "y", 0.3)),
		entry("other", 1, num("c", "z", 0.4)),
	}}
	p := MapProfile{Degrees: map[string]fuzzy.Memberships{
		"a": {"x": 0.2},
		"b": {"y": 0.6},
		"c": {"z": 0.5},
	}}
	before := Codes(MatchAll(p, cat))
	assert.Equal(t, []string{"other"}, before)

	for _, v := range []float64{0.4, 0.5, 0.7, 1} {
		p.Degrees["a"]["x"] = v
		after := Codes(MatchAll(p, cat))
		assert.Contains(t, after, "other", "raising a.x must not drop unrelated matches")
		if v >= 0.5 {
			assert.Contains(t, after, "target")
		}
	}
}

func TestDefaultCatalogMatches(t *testing.T) {
	cat, err := DefaultCatalog(testVocab())
	require.NoError(t, err)

	p := MapProfile{
		Degrees: map[string]fuzzy.Memberships{
			quality.MotivationalPotential: {"low": 0.7, "moderate": 0.3, "high": 0},
			quality.Objectivity:           {"low": 0, "medium": 0.5, "high": 0.5},
			quality.DiagnosticDepth:       {"low": 0.2, "medium": 0.8, "high": 0},
			VarEmotion:                    {"sorrow": 0.45, "anger": 0.1, "boredom": 0.05},
		},
	}
	assert.Equal(t, []string{"low_motivation", "anxiety", "sadness_dominant"}, Codes(MatchAll(p, cat)))
}

func TestVocabularyVariables(t *testing.T) {
	vars := testVocab().Variables()
	assert.Contains(t, vars, VarEmotion)
	assert.Contains(t, vars, VarStyle)
	assert.Contains(t, vars, quality.DynamicAssessment)
	assert.Contains(t, vars, "impulsivity")

	term, kind, err := testVocab().Resolve(quality.DynamicAssessment, "широкий")
	require.NoError(t, err)
	assert.Equal(t, "broad", term)
	assert.Equal(t, Numeric, kind)
}
