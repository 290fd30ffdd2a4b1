// Package profile runs the full diagnostic pipeline for one child: feature
// extraction, the quality axes, the parameters, the cognitive style, the
// emotional profile, catalog matching, recommendations and the analytic
// views.
package profile

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/happykids/kidsdiag/internal/analytics"
	"github.com/happykids/kidsdiag/internal/diagnosis"
	"github.com/happykids/kidsdiag/internal/emotion"
	"github.com/happykids/kidsdiag/internal/features"
	"github.com/happykids/kidsdiag/internal/games"
	"github.com/happykids/kidsdiag/internal/params"
	"github.com/happykids/kidsdiag/internal/quality"
	"github.com/happykids/kidsdiag/internal/recommend"
	"github.com/happykids/kidsdiag/internal/strategy"
)

// Config bundles the configuration of every stage. It is built once at
// start-up and never mutated afterwards.
type Config struct {
	Features   features.Config
	Quality    quality.Config
	Params     params.Config
	Thresholds strategy.Thresholds
	Trends     emotion.TrendConfig
	Recommend  recommend.Config
	Dynamics   analytics.DynamicsConfig

	// MaxRecords caps the history to the most recent records. Zero means
	// no cap.
	MaxRecords int
	// Jitter enables the heatmap perturbation. A non-zero Seed makes it
	// reproducible.
	Jitter bool
	Seed   uint64
}

// DefaultConfig returns the calibrated defaults of every stage.
func DefaultConfig() Config {
	return Config{
		Features:   features.DefaultConfig(),
		Quality:    quality.DefaultConfig(),
		Params:     params.DefaultConfig(),
		Thresholds: strategy.DefaultThresholds(),
		Trends:     emotion.DefaultTrendConfig(),
		Recommend:  recommend.DefaultConfig(),
		Dynamics:   analytics.DefaultDynamicsConfig(),
		Jitter:     true,
	}
}

// Vocabulary returns the catalog vocabulary matching cfg.
func (c Config) Vocabulary() *diagnosis.Vocabulary {
	return diagnosis.DefaultVocabulary(c.Quality, c.Params)
}

// Subject identifies the child a report is for.
type Subject struct {
	ID    string
	Name  string
	Birth time.Time
}

// Engine computes reports. It holds no mutable state, so one Engine may
// serve concurrent Build calls.
type Engine struct {
	cfg     Config
	catalog *diagnosis.Catalog
	voters  []strategy.Voter
	now     func() time.Time
}

// NewEngine returns an engine over cfg and catalog. A nil catalog disables
// diagnosis matching.
func NewEngine(cfg Config, catalog *diagnosis.Catalog) *Engine {
	return &Engine{
		cfg:     cfg,
		catalog: catalog,
		voters:  strategy.DefaultVoters(cfg.Thresholds),
		now:     time.Now,
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Catalog returns the catalog the engine matches against.
func (e *Engine) Catalog() *diagnosis.Catalog { return e.catalog }

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

func (e *Engine) rand() analytics.Rand {
	switch {
	case !e.cfg.Jitter:
		return nil
	case e.cfg.Seed != 0:
		return rand.New(rand.NewPCG(e.cfg.Seed, e.cfg.Seed))
	}
	return globalRand{}
}

// limit keeps the newest MaxRecords records, chronologically ordered.
func (e *Engine) limit(records []games.Record) []games.Record {
	if e.cfg.MaxRecords <= 0 || len(records) <= e.cfg.MaxRecords {
		return records
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b games.Record) int {
		return a.PlayedAt.Compare(b.PlayedAt)
	})
	return sorted[len(sorted)-e.cfg.MaxRecords:]
}

// Build computes the report for an anonymous history.
func (e *Engine) Build(records []games.Record) *Report {
	return e.BuildFor(Subject{}, records)
}

// BuildFor computes the report for s.
func (e *Engine) BuildFor(s Subject, records []games.Record) *Report {
	records = e.limit(records)
	now := e.now()

	vec := features.Extract(records, e.cfg.Features)
	r := &Report{
		ChildID:     s.ID,
		ChildName:   s.Name,
		GeneratedAt: now,
		Records:     len(records),
		Features:    vec,
		Parameters:  params.Score(vec, e.cfg.Params),
		Guidelines:  recommend.ForAge(recommend.AgeYears(s.Birth, now)),
	}

	assessment := quality.Score(records, e.cfg.Quality)
	r.Profile = Profile{
		Quality:        assessment,
		CognitiveStyle: strategy.Unknown,
		Emotions:       emotion.Analyze(records),
		Trends:         emotion.DetectTrends(records, e.cfg.Trends),
	}
	r.Radar = assessment.Radar(e.cfg.Quality)
	r.Heatmap = analytics.BuildHeatmap(analytics.HeatmapInput{Radar: r.Radar, Emotions: r.Profile.Emotions}, e.rand())
	r.Dynamics = analytics.BuildDynamics(records, e.cfg.Dynamics)
	r.Correlation = analytics.BuildCorrelation(records)

	if len(records) == 0 {
		r.Profile.Recommendations = recommend.InsufficientData
		return r
	}

	r.Profile.CognitiveStyle = strategy.Classify(records, e.voters)
	r.ErrorPattern = strategy.AnalyzeErrors(records)

	view := r.Profile.view(r.Parameters)
	r.Matches = diagnosis.MatchAll(view, e.catalog)
	r.Profile.Diagnoses = diagnosis.Codes(r.Matches)

	r.Advice = recommend.Assemble(recommend.Input{
		Quality:  assessment,
		Style:    r.Profile.CognitiveStyle,
		Emotions: r.Profile.Emotions,
		Matches:  r.Matches,
	}, e.cfg.Recommend)
	r.Profile.Recommendations = r.Advice.String()
	return r
}
