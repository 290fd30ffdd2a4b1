package diagnosis

import (
	"fmt"
	"sort"

	"github.com/happykids/kidsdiag/internal/fuzzy"
	"github.com/happykids/kidsdiag/internal/games"
	"github.com/happykids/kidsdiag/internal/params"
	"github.com/happykids/kidsdiag/internal/quality"
	"github.com/happykids/kidsdiag/internal/strategy"
)

// Variables that are not fuzzy axes.
const (
	VarEmotion = "emotional_profile"
	VarStyle   = "cognitive_style"
)

// Kind says how a condition is evaluated.
type Kind int

const (
	// Numeric conditions compare a degree against a threshold.
	Numeric Kind = iota
	// Label conditions require the variable to equal the term exactly.
	Label
)

type variableTerms struct {
	kind    Kind
	aliases map[string]string // any accepted spelling -> canonical term
}

// Vocabulary is the set of variables and terms a catalog may reference.
type Vocabulary struct {
	vars map[string]variableTerms
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{vars: make(map[string]variableTerms)}
}

// AddVariable registers a fuzzy variable; both term names and labels are
// accepted in conditions.
func (v *Vocabulary) AddVariable(fv fuzzy.Variable) {
	aliases := make(map[string]string, 2*len(fv.Terms))
	for _, t := range fv.Terms {
		aliases[t.Name] = t.Name
		if t.Label != "" {
			aliases[t.Label] = t.Name
		}
	}
	v.vars[fv.Name] = variableTerms{kind: Numeric, aliases: aliases}
}

// AddTerms registers a variable with explicit aliases.
func (v *Vocabulary) AddTerms(name string, kind Kind, aliases map[string]string) {
	v.vars[name] = variableTerms{kind: kind, aliases: aliases}
}

// Resolve canonicalizes a variable/term pair.
func (v *Vocabulary) Resolve(variable, term string) (string, Kind, error) {
	vt, ok := v.vars[variable]
	if !ok {
		return "", 0, fmt.Errorf("unknown variable %q", variable)
	}
	canon, ok := vt.aliases[term]
	if !ok {
		return "", 0, fmt.Errorf("unknown term %q for variable %q", term, variable)
	}
	return canon, vt.kind, nil
}

// Variables lists the registered variable names, sorted.
func (v *Vocabulary) Variables() []string {
	out := make([]string, 0, len(v.vars))
	for name := range v.vars {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultVocabulary covers the assessment axes, the diagnostic parameters,
// the emotional profile and the cognitive style.
func DefaultVocabulary(q quality.Config, p params.Config) *Vocabulary {
	v := NewVocabulary()
	for _, axis := range quality.Axes {
		if fv, ok := q.Variables[axis]; ok {
			v.AddVariable(fv)
		}
	}
	for _, def := range p.Parameters {
		v.AddVariable(def.Variable)
	}

	emotions := make(map[string]string, 2*len(games.AllEmotions))
	for _, e := range games.AllEmotions {
		emotions[e.Key()] = e.Key()
		emotions[e.Label()] = e.Key()
	}
	v.AddTerms(VarEmotion, Numeric, emotions)

	styles := make(map[string]string)
	for _, s := range []strategy.Style{strategy.Systematic, strategy.Impulsive, strategy.Adaptive, strategy.Unknown} {
		styles[string(s)] = string(s)
		styles[s.Label()] = string(s)
	}
	v.AddTerms(VarStyle, Label, styles)
	return v
}
