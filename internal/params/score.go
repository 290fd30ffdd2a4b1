// Package params fuzzifies the behavioural features into the five
// child-facing diagnostic parameters and attaches clinical guidance.
package params

import (
	"strings"

	"github.com/happykids/kidsdiag/internal/features"
	"github.com/happykids/kidsdiag/internal/fuzzy"
)

// Advice is the four-level adaptive recommendation for a parameter.
type Advice struct {
	Brief       string   `json:"brief"`
	Extended    string   `json:"extended"`
	ParentSteps []string `json:"parent_steps"`
	DoctorSteps []string `json:"doctor_steps"`
}

// Result is one scored parameter.
type Result struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Source         string                   `json:"source"`
	Value          float64                  `json:"value"`
	Memberships    fuzzy.Memberships        `json:"memberships"`
	Dominant       string                   `json:"dominant_term"`
	DominantLabel  string                   `json:"dominant_label"`
	DominantDegree float64                  `json:"dominant_mu"`
	Interpretation string                   `json:"interpretation"`
	Guidance       Guidance                 `json:"guidance"`
	Advice         Advice                   `json:"advice"`
	Curves         map[string][]fuzzy.Point `json:"curves"`
}

// Results holds the scored parameters in table order.
type Results []Result

// Get finds a result by parameter ID.
func (rs Results) Get(id string) (Result, bool) {
	for _, r := range rs {
		if r.ID == id {
			return r, true
		}
	}
	return Result{}, false
}

// Score evaluates every parameter in cfg against v. A parameter whose
// feature is missing from v is scored at the neutral midpoint.
func Score(v features.Vector, cfg Config) Results {
	out := make(Results, 0, len(cfg.Parameters))
	for _, def := range cfg.Parameters {
		x, ok := v.Get(def.ID)
		if !ok {
			x = 0.5
		}
		m := def.Variable.Fuzzify(x)
		dom, deg := def.Variable.Dominant(m)
		t, _ := def.Variable.Term(dom)

		out = append(out, Result{
			ID:             def.ID,
			Name:           def.Name,
			Source:         def.Source,
			Value:          x,
			Memberships:    m,
			Dominant:       dom,
			DominantLabel:  t.Label,
			DominantDegree: deg,
			Interpretation: def.Interpretations[dom],
			Guidance:       def.Guidance[dom],
			Advice: Advice{
				Brief:       "«" + t.Label + "» " + strings.ToLower(def.Name) + " — " + def.Brief[dom],
				Extended:    cfg.Extended,
				ParentSteps: cfg.ParentSteps,
				DoctorSteps: cfg.DoctorSteps,
			},
			Curves: def.Variable.Curves(cfg.CurvePoints),
		})
	}
	return out
}
