// Package quality scores how rich and trustworthy a child's game data is
// along five assessment-quality axes.
package quality

import (
	"math"
	"maps"

	"github.com/happykids/kidsdiag/internal/fuzzy"
	"github.com/happykids/kidsdiag/internal/games"
)

const (
	activityKinds = 12.0 // distinct activity types considered "full coverage"
	sessionSpan   = 8.0  // sessions considered "full history"
)

// Assessment is the fuzzified result for all five axes.
type Assessment struct {
	// Scores holds the crisp axis scores. Nil when Defaulted.
	Scores    map[string]float64           `json:"scores,omitempty"`
	Axes      map[string]fuzzy.Memberships `json:"axes"`
	Defaulted bool                         `json:"defaulted"`
}

// Get returns the degree of term on axis.
func (a Assessment) Get(axis, term string) (float64, bool) {
	m, ok := a.Axes[axis]
	if !ok {
		return 0, false
	}
	d, ok := m[term]
	return d, ok
}

// Radar converts each axis' top term degree to a 0-100 value.
func (a Assessment) Radar(cfg Config) Radar {
	r := make(Radar, len(Axes))
	for _, axis := range Axes {
		v, ok := cfg.Variables[axis]
		if !ok || len(v.Terms) == 0 {
			continue
		}
		top := v.Terms[len(v.Terms)-1].Name
		r[axis] = fuzzy.Round2(a.Axes[axis].Get(top) * 100)
	}
	return r
}

// Score computes the five axes. Without records it returns cfg.Defaults.
func Score(records []games.Record, cfg Config) Assessment {
	if len(records) == 0 {
		axes := make(map[string]fuzzy.Memberships, len(cfg.Defaults))
		for k, m := range cfg.Defaults {
			axes[k] = maps.Clone(m)
		}
		return Assessment{Axes: axes, Defaulted: true}
	}

	scores := map[string]float64{
		DiagnosticDepth:       Depth(records),
		MotivationalPotential: Motivation(records),
		Objectivity:           ObjectivityScore(records),
		EcologicalValidity:    Ecological(records),
		DynamicAssessment:     Dynamic(records),
	}
	axes := make(map[string]fuzzy.Memberships, len(scores))
	for axis, s := range scores {
		if v, ok := cfg.Variables[axis]; ok {
			axes[axis] = v.Fuzzify(s)
		}
	}
	return Assessment{Scores: scores, Axes: axes}
}

// Depth is the diagnostic-depth score: activity variety, data completeness
// and history length.
func Depth(records []games.Record) float64 {
	n := float64(len(records))
	if n == 0 {
		return 0
	}
	var completeness float64
	for _, r := range records {
		completeness += Completeness(r)
	}
	variety := math.Min(float64(games.DistinctActivities(records))/activityKinds, 1)
	return fuzzy.Clamp01(0.35*variety + 0.40*completeness/n + 0.25*math.Min(n/sessionSpan, 1))
}

// Completeness rates how much usable data a single record carries.
func Completeness(r games.Record) float64 {
	m := r.Metrics
	switch r.Activity {
	case games.ActivityPainting:
		if r.HasDrawing() {
			return 1
		}
		return 0.3
	case games.ActivityDialog:
		return math.Min(float64(len(r.DialogAnswers))/5, 1)
	case games.ActivityChoice:
		return math.Min(float64(len(r.Choices))/5, 1)
	case games.ActivityMemory:
		return math.Min((m.Get(games.MetricPairsFound)+2*m.Get(games.MetricLevelsCompleted))/10, 1)
	case games.ActivityPuzzle:
		switch {
		case m.Flag(games.MetricCompleted):
			return 1
		case m.Get(games.MetricMoves) > 0:
			return 0.5
		}
		return 0.2
	case games.ActivitySequence:
		return math.Min(m.Get(games.MetricLevelReached)/5, 1)
	case games.ActivityAttention, games.ActivityGoNoGo, games.ActivitySort, games.ActivityPattern,
		games.ActivityEmotionMatch, games.ActivityEmotionFace, games.ActivityReaction:
		hasTotal := m.Get(games.MetricTotal) > 0
		switch {
		case hasTotal && len(r.ReactionTimes) > 0:
			return 1
		case hasTotal:
			return 0.7
		}
		return 0.3
	}
	c := 0.5
	if len(r.ReactionTimes) > 0 {
		c += 0.25
	}
	if len(m) > 0 {
		c += 0.25
	}
	return c
}

// Motivation is the motivational-potential score.
func Motivation(records []games.Record) float64 {
	n := float64(len(records))
	if n == 0 {
		return 0
	}
	var (
		completed, positive          float64
		memSum, seqSum               float64
		memN, seqN, puzN, puzzleDone float64
	)
	for _, r := range records {
		if r.SessionCompleted() {
			completed++
		}
		positive += float64(r.Emotions.Joy + r.Emotions.Happiness)
		m := r.Metrics
		switch r.Activity {
		case games.ActivityMemory:
			memN++
			memSum += memoryProgress(m)
		case games.ActivityPuzzle:
			puzN++
			if m.Flag(games.MetricCompleted) {
				puzzleDone++
			}
		case games.ActivitySequence:
			seqN++
			seqSum += math.Max(0, math.Min(m.Get(games.MetricLevelReached)/5, 1)*(1-0.1*float64(r.Mistakes)))
		}
	}
	score := 0.2*completed/n +
		0.25*ratio(memSum, memN) +
		0.2*ratio(puzzleDone, puzN) +
		0.2*ratio(seqSum, seqN) +
		0.15*positive/n/10
	return fuzzy.Clamp01(score)
}

// ObjectivityScore rewards instrumented games with a small bonus for
// having at least one free-form activity as a cross-check.
func ObjectivityScore(records []games.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var objective float64
	subjective := false
	for _, r := range records {
		if r.Activity.Objective() {
			objective++
		}
		if r.Activity.Subjective() {
			subjective = true
		}
	}
	s := 0.6 + 0.3*objective/float64(len(records))
	if subjective {
		s += 0.1
	}
	return math.Min(1, s)
}

// Ecological is the ecological-validity score.
func Ecological(records []games.Record) float64 {
	var withData float64
	for _, r := range records {
		switch {
		case r.Activity == games.ActivityChoice && len(r.Choices) > 0:
			withData++
		case r.Activity == games.ActivityPainting && r.Drawing != nil:
			withData++
		case r.Activity == games.ActivityDialog && len(r.DialogAnswers) > 0:
			withData++
		}
	}
	return math.Min(1, 0.6+0.1*withData)
}

// Dynamic is the dynamic-assessment score.
func Dynamic(records []games.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var repeated float64
	if len(records) >= 3 {
		repeated = 1
	}
	var progress, counted float64
	for _, r := range records {
		m := r.Metrics
		switch r.Activity {
		case games.ActivityMemory:
			progress += memoryProgress(m)
		case games.ActivitySequence:
			progress += math.Min(m.Get(games.MetricLevelReached)/5, 1)
		case games.ActivityPuzzle:
			if m.Flag(games.MetricCompleted) {
				progress++
			}
		default:
			continue
		}
		counted++
	}
	variety := math.Min(float64(games.DistinctActivities(records))/activityKinds, 1)
	return fuzzy.Clamp01(0.35*repeated + 0.4*variety + 0.25*ratio(progress, counted))
}

func memoryProgress(m games.Metrics) float64 {
	return 0.6*math.Min(m.Get(games.MetricLevelsCompleted)/4, 1) + 0.4*math.Min(m.Get(games.MetricPairsFound)/20, 1)
}

func ratio(sum, n float64) float64 {
	if n == 0 {
		return 0
	}
	return sum / n
}
