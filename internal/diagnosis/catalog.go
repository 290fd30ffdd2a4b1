// Package diagnosis matches a scored diagnostic profile against a catalog
// of candidate clinical concerns.
package diagnosis

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the catalog format major version this build reads.
const SupportedMajor = "v1"

//go:embed default_catalog.toml
var defaultCatalogTOML string

// Condition requires Variable.Term to reach Min. For label variables the
// variable must equal Term and Min is ignored.
type Condition struct {
	Variable string  `json:"variable"`
	Term     string  `json:"term"`
	Min      float64 `json:"min"`
	Kind     Kind    `json:"-"`
}

func (c Condition) String() string {
	if c.Kind == Label {
		return fmt.Sprintf("%s == %s", c.Variable, c.Term)
	}
	return fmt.Sprintf("%s.%s >= %.2f", c.Variable, c.Term, c.Min)
}

// Intervention is the default prescription attached to an entry.
type Intervention struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Entry is one catalog diagnosis.
type Entry struct {
	Code           string       `json:"code"`
	Name           string       `json:"name"`
	Conditions     []Condition  `json:"conditions"`
	Recommendation string       `json:"recommendation"`
	Intervention   Intervention `json:"intervention"`
	Priority       int          `json:"priority"`
}

// Catalog is a validated, immutable set of entries.
type Catalog struct {
	Version string
	Entries []Entry
}

// Get returns the entry with code.
func (c *Catalog) Get(code string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}

// CatalogError reports a malformed catalog entry.
type CatalogError struct {
	Index int
	Code  string
	Err   error
}

func (e *CatalogError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("catalog entry %d (%s): %v", e.Index, e.Code, e.Err)
	}
	return fmt.Sprintf("catalog entry %d: %v", e.Index, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

type rawCondition struct {
	Variable string  `toml:"variable"`
	Term     string  `toml:"term"`
	Min      float64 `toml:"min"`
}

type rawEntry struct {
	Code             string             `toml:"code"`
	Name             string             `toml:"name"`
	Priority         int                `toml:"priority"`
	Recommendation   string             `toml:"recommendation"`
	InterventionType string             `toml:"intervention_type"`
	Intervention     string             `toml:"intervention"`
	FuzzyConditions  map[string]float64 `toml:"fuzzy_conditions"`
	Conditions       []rawCondition     `toml:"condition"`
}

type rawCatalog struct {
	Version   string     `toml:"version"`
	Diagnoses []rawEntry `toml:"diagnosis"`
}

// DefaultCatalog parses the built-in catalog.
func DefaultCatalog(vocab *Vocabulary) (*Catalog, error) {
	return ParseCatalog(defaultCatalogTOML, vocab)
}

// LoadCatalog reads and validates a TOML catalog file.
func LoadCatalog(path string, vocab *Vocabulary) (*Catalog, error) {
	var raw rawCatalog
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return build(raw, vocab)
}

// ParseCatalog validates a TOML catalog held in memory.
func ParseCatalog(data string, vocab *Vocabulary) (*Catalog, error) {
	var raw rawCatalog
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return build(raw, vocab)
}

func build(raw rawCatalog, vocab *Vocabulary) (*Catalog, error) {
	version := raw.Version
	if version != "" && !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return nil, fmt.Errorf("catalog version %q is not a semantic version", raw.Version)
	}
	if major := semver.Major(version); major != SupportedMajor {
		return nil, fmt.Errorf("catalog version %s not supported (want %s.x)", version, SupportedMajor)
	}

	cat := &Catalog{Version: version}
	seen := make(map[string]bool, len(raw.Diagnoses))
	for i, re := range raw.Diagnoses {
		e, err := buildEntry(re, vocab)
		if err != nil {
			return nil, &CatalogError{Index: i, Code: re.Code, Err: err}
		}
		if seen[e.Code] {
			return nil, &CatalogError{Index: i, Code: e.Code, Err: fmt.Errorf("duplicate code")}
		}
		seen[e.Code] = true
		cat.Entries = append(cat.Entries, e)
	}
	return cat, nil
}

func buildEntry(re rawEntry, vocab *Vocabulary) (Entry, error) {
	if strings.TrimSpace(re.Code) == "" {
		return Entry{}, fmt.Errorf("missing code")
	}
	conds := append([]rawCondition(nil), re.Conditions...)

	keys := make([]string, 0, len(re.FuzzyConditions))
	for k := range re.FuzzyConditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		variable, term, ok := strings.Cut(k, ".")
		if !ok || variable == "" || term == "" {
			return Entry{}, fmt.Errorf("condition key %q is not of the form variable.term", k)
		}
		conds = append(conds, rawCondition{Variable: variable, Term: term, Min: re.FuzzyConditions[k]})
	}
	if len(conds) == 0 {
		return Entry{}, fmt.Errorf("no conditions")
	}

	e := Entry{
		Code:           re.Code,
		Name:           re.Name,
		Recommendation: re.Recommendation,
		Intervention:   Intervention{Type: re.InterventionType, Text: re.Intervention},
		Priority:       re.Priority,
	}
	for _, rc := range conds {
		term, kind, err := vocab.Resolve(rc.Variable, rc.Term)
		if err != nil {
			return Entry{}, err
		}
		if kind == Numeric && (rc.Min < 0 || rc.Min > 1) {
			return Entry{}, fmt.Errorf("threshold %v for %s.%s outside [0, 1]", rc.Min, rc.Variable, rc.Term)
		}
		e.Conditions = append(e.Conditions, Condition{Variable: rc.Variable, Term: term, Min: rc.Min, Kind: kind})
	}
	return e, nil
}
