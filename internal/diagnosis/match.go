package diagnosis

import (
	"math"
	"sort"

	"github.com/happykids/kidsdiag/internal/fuzzy"
)

// Profile is the scored profile as seen by the matcher.
type Profile interface {
	// Degree returns the membership of term in variable.
	Degree(variable, term string) (float64, bool)
	// Label returns the value of a label variable such as cognitive style.
	Label(variable string) (string, bool)
}

// MapProfile is a Profile backed by plain maps.
type MapProfile struct {
	Degrees map[string]fuzzy.Memberships
	Labels  map[string]string
}

func (p MapProfile) Degree(variable, term string) (float64, bool) {
	m, ok := p.Degrees[variable]
	if !ok {
		return 0, false
	}
	d, ok := m[term]
	return d, ok
}

func (p MapProfile) Label(variable string) (string, bool) {
	l, ok := p.Labels[variable]
	return l, ok
}

// Match is a catalog entry that fired.
type Match struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Degree   float64 `json:"degree"`
	Priority int     `json:"priority"`
	Entry    Entry   `json:"-"`
}

// Evaluate returns the match degree of e against p: the minimum value over
// the conditions that could be evaluated. Any evaluated condition below its
// threshold eliminates the entry. Conditions whose variable or term is
// absent from p are skipped; an entry with nothing evaluated never matches.
func Evaluate(p Profile, e Entry) float64 {
	degree := math.Inf(1)
	evaluated := 0
	for _, c := range e.Conditions {
		var v float64
		switch c.Kind {
		case Label:
			got, ok := p.Label(c.Variable)
			if !ok {
				continue
			}
			if got != c.Term {
				return 0
			}
			v = 1
		default:
			d, ok := p.Degree(c.Variable, c.Term)
			if !ok {
				continue
			}
			if d < c.Min {
				return 0
			}
			v = d
		}
		degree = math.Min(degree, v)
		evaluated++
	}
	if evaluated == 0 {
		return 0
	}
	return degree
}

// MatchAll evaluates every entry and returns the matches ordered by degree
// (descending), then priority (ascending), then catalog order.
func MatchAll(p Profile, c *Catalog) []Match {
	if c == nil {
		return nil
	}
	var out []Match
	for _, e := range c.Entries {
		d := Evaluate(p, e)
		if d <= 0 {
			continue
		}
		out = append(out, Match{Code: e.Code, Name: e.Name, Degree: d, Priority: e.Priority, Entry: e})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Degree != out[j].Degree {
			return out[i].Degree > out[j].Degree
		}
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Codes extracts the codes of matches in order.
func Codes(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Code
	}
	return out
}
