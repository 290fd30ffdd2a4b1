package profile

import (
	"time"

	"github.com/happykids/kidsdiag/internal/analytics"
	"github.com/happykids/kidsdiag/internal/diagnosis"
	"github.com/happykids/kidsdiag/internal/emotion"
	"github.com/happykids/kidsdiag/internal/features"
	"github.com/happykids/kidsdiag/internal/fuzzy"
	"github.com/happykids/kidsdiag/internal/params"
	"github.com/happykids/kidsdiag/internal/quality"
	"github.com/happykids/kidsdiag/internal/recommend"
	"github.com/happykids/kidsdiag/internal/strategy"
)

// Profile is the diagnostic profile snapshot that gets persisted.
type Profile struct {
	Quality         quality.Assessment `json:"quality"`
	CognitiveStyle  strategy.Style     `json:"cognitive_style"`
	Emotions        emotion.Profile    `json:"emotional_profile"`
	Trends          emotion.Trends     `json:"emotional_trends"`
	Recommendations string             `json:"recommendations"`
	Diagnoses       []string           `json:"diagnoses"`
}

// Report is a profile plus every supporting view.
type Report struct {
	ChildID     string    `json:"child_id,omitempty"`
	ChildName   string    `json:"child_name,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Records     int       `json:"records"`

	Profile      Profile               `json:"profile"`
	Features     features.Vector       `json:"features"`
	Parameters   params.Results        `json:"parameters"`
	ErrorPattern strategy.ErrorPattern `json:"error_pattern"`
	Matches      []diagnosis.Match     `json:"matches"`
	Advice       recommend.Text        `json:"advice"`
	Guidelines   recommend.Guidelines  `json:"guidelines"`
	Radar        quality.Radar         `json:"radar"`

	Heatmap     analytics.Heatmap     `json:"heatmap"`
	Dynamics    *analytics.Dynamics   `json:"dynamics"`
	Correlation analytics.Correlation `json:"correlation"`
}

// Insufficient reports whether the report was built without history.
func (r *Report) Insufficient() bool { return r.Records == 0 }

// view exposes the profile and parameters to the catalog matcher.
func (p Profile) view(results params.Results) diagnosis.MapProfile {
	degrees := make(map[string]fuzzy.Memberships, len(p.Quality.Axes)+len(results)+1)
	for axis, m := range p.Quality.Axes {
		degrees[axis] = m
	}
	for _, r := range results {
		degrees[r.ID] = r.Memberships
	}
	degrees[diagnosis.VarEmotion] = fuzzy.Memberships(p.Emotions.Shares)
	return diagnosis.MapProfile{
		Degrees: degrees,
		Labels:  map[string]string{diagnosis.VarStyle: string(p.CognitiveStyle)},
	}
}
