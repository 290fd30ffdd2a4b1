// Package features turns a child's game history into the normalized
// behavioural features that drive the diagnostic parameters.
package features

import (
	"math"

	"github.com/happykids/kidsdiag/internal/fuzzy"
	"github.com/happykids/kidsdiag/internal/games"
)

// Feature names, shared with the diagnostic parameter tables.
const (
	Impulsivity       = "impulsivity"
	CognitiveActivity = "cognitive_activity"
	Strategy          = "strategy"
	CognitiveControl  = "cognitive_control"
	Anxiety           = "anxiety"
)

// Names lists the features in report order.
var Names = []string{Impulsivity, CognitiveActivity, Strategy, CognitiveControl, Anxiety}

// Config holds the extraction constants. The numbers are empirical and
// awaiting review by a domain expert; change them here, not in the code.
type Config struct {
	BaselineRTMs      float64 `toml:"baseline_rt_ms" json:"baseline_rt_ms"`
	RTSpanMs          float64 `toml:"rt_span_ms" json:"rt_span_ms"`
	InstabilityCV     float64 `toml:"instability_cv" json:"instability_cv"`
	InstabilityBonus  float64 `toml:"instability_bonus" json:"instability_bonus"`
	ControlScale      float64 `toml:"control_scale" json:"control_scale"`
	HintsPerSession   float64 `toml:"hints_per_session" json:"hints_per_session"`
	ErrorScale        float64 `toml:"error_scale" json:"error_scale"`
	DefaultErrorRate  float64 `toml:"default_error_rate" json:"default_error_rate"`
	AnxietyBase       float64 `toml:"anxiety_base" json:"anxiety_base"`
	AnxietySpan       float64 `toml:"anxiety_span" json:"anxiety_span"`
	AnxietyNoData     float64 `toml:"anxiety_no_data" json:"anxiety_no_data"`
	Neutral           float64 `toml:"neutral" json:"neutral"`
	FallbackItemCount float64 `toml:"fallback_item_count" json:"fallback_item_count"`
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		BaselineRTMs:      200,
		RTSpanMs:          1500,
		InstabilityCV:     0.3,
		InstabilityBonus:  0.2,
		ControlScale:      2,
		HintsPerSession:   3,
		ErrorScale:        2.5,
		DefaultErrorRate:  0.2,
		AnxietyBase:       0.3,
		AnxietySpan:       0.4,
		AnxietyNoData:     0.4,
		Neutral:           0.5,
		FallbackItemCount: 8,
	}
}

// Stats are the raw aggregates behind a Vector.
type Stats struct {
	Records   int     `json:"records"`
	Samples   int     `json:"rt_samples"`
	MeanRTMs  float64 `json:"mean_rt_ms"`
	StdRTMs   float64 `json:"std_rt_ms"`
	CV        float64 `json:"cv"`
	Errors    int     `json:"errors"`
	Actions   float64 `json:"actions"`
	Hints     int     `json:"hints"`
	ErrorRate float64 `json:"error_rate"`
}

// Vector is the normalized feature vector. Every feature lies in [0, 1].
type Vector struct {
	Impulsivity       float64 `json:"impulsivity"`
	CognitiveActivity float64 `json:"cognitive_activity"`
	Strategy          float64 `json:"strategy"`
	CognitiveControl  float64 `json:"cognitive_control"`
	Anxiety           float64 `json:"anxiety"`
	Stats             Stats   `json:"stats"`
}

// Get returns a feature by name.
func (v Vector) Get(name string) (float64, bool) {
	switch name {
	case Impulsivity:
		return v.Impulsivity, true
	case CognitiveActivity:
		return v.CognitiveActivity, true
	case Strategy:
		return v.Strategy, true
	case CognitiveControl:
		return v.CognitiveControl, true
	case Anxiety:
		return v.Anxiety, true
	}
	return 0, false
}

// Extract aggregates records into a Vector. The result does not depend on
// record order. An empty history yields the neutral defaults.
func Extract(records []games.Record, cfg Config) Vector {
	var (
		rts     []float64
		errs    int
		actions float64
		hints   int
	)
	for _, r := range records {
		rts = append(rts, r.ReactionTimes...)
		errs += r.Mistakes + DerivedErrors(r)
		actions += ActionCount(r, cfg.FallbackItemCount)
		hints += r.Hints()
	}

	st := Stats{
		Records: len(records),
		Samples: len(rts),
		Errors:  errs,
		Actions: actions,
		Hints:   hints,
	}
	v := Vector{
		Impulsivity:      cfg.Neutral,
		CognitiveControl: cfg.Neutral,
	}

	if len(rts) > 0 {
		mean, std := meanStd(rts)
		st.MeanRTMs, st.StdRTMs = mean, std
		if mean > 0 {
			st.CV = std / mean
			imp := fuzzy.Clamp01(1 - (mean-cfg.BaselineRTMs)/cfg.RTSpanMs)
			if st.CV > cfg.InstabilityCV {
				imp = math.Min(1, imp+cfg.InstabilityBonus)
			}
			v.Impulsivity = imp
			v.CognitiveControl = fuzzy.Clamp01(cfg.ControlScale * st.CV)
		}
	}

	sessions := float64(len(records))
	v.CognitiveActivity = fuzzy.Clamp01(float64(hints) / math.Max(cfg.HintsPerSession*sessions, 1))

	if actions > 0 {
		st.ErrorRate = float64(errs) / actions
		v.Anxiety = fuzzy.Clamp01(cfg.AnxietyBase + cfg.AnxietySpan*(1-st.ErrorRate))
	} else {
		st.ErrorRate = cfg.DefaultErrorRate
		v.Anxiety = cfg.AnxietyNoData
	}
	v.Strategy = fuzzy.Clamp01(cfg.ErrorScale * st.ErrorRate)
	v.Stats = st
	return v
}

// ActionCount estimates how many discrete actions a record represents.
// Unknown activities use the generic rule.
func ActionCount(r games.Record, fallbackItems float64) float64 {
	m := r.Metrics
	switch r.Activity {
	case games.ActivityMemory:
		if n := m.Get(games.MetricAttempts) * 2; n > 0 {
			return n
		}
		return 1
	case games.ActivityChoice, games.ActivityEmotionFace, games.ActivitySort,
		games.ActivityPattern, games.ActivityEmotionMatch, games.ActivityReaction:
		if n := m.Get(games.MetricTotal); n > 0 {
			return n
		}
		return fallbackItems
	case games.ActivitySequence:
		if n := m.Get(games.MetricLevelReached) * 4; n > 0 {
			return n
		}
		return 1
	case games.ActivityPuzzle:
		if n := m.Get(games.MetricMoves); n > 0 {
			return n
		}
	}
	return math.Max(math.Max(float64(len(r.ReactionTimes)), m.Get(games.MetricTotal)), 1)
}

// DerivedErrors returns activity-specific errors not already in Mistakes.
func DerivedErrors(r games.Record) int {
	m := r.Metrics
	switch r.Activity {
	case games.ActivityMemory:
		return int(math.Max(0, m.Get(games.MetricAttempts)-m.Get(games.MetricPairsFound)))
	case games.ActivityGoNoGo:
		return int(m.Get(games.MetricCommissionErrors) + m.Get(games.MetricOmissionErrors))
	}
	return 0
}

// meanStd returns the mean and population standard deviation of xs.
func meanStd(xs []float64) (mean, std float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)))
}
