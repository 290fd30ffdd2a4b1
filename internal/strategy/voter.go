// Package strategy classifies a child's problem-solving style by letting
// independent per-activity heuristics vote over the game history.
package strategy

import (
	"strings"

	"github.com/happykids/kidsdiag/internal/games"
)

// Style is the cognitive-style label.
type Style string

const (
	Systematic Style = "systematic"
	Impulsive  Style = "impulsive"
	Adaptive   Style = "adaptive"
	Unknown    Style = "unknown"
)

// Label returns the Russian display label.
func (s Style) Label() string {
	switch s {
	case Systematic:
		return "систематический"
	case Impulsive:
		return "импульсивный"
	case Adaptive:
		return "адаптивный"
	}
	return "не определён"
}

// ParseStyle normalizes an explicit strategy label. Both English and
// Russian forms are accepted.
func ParseStyle(s string) (Style, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "systematic", "систематический", "систематическая":
		return Systematic, true
	case "impulsive", "импульсивный", "импульсивная":
		return Impulsive, true
	case "adaptive", "адаптивный", "адаптивная":
		return Adaptive, true
	}
	return "", false
}

// Thresholds are the voting cut-offs. They are empirical and kept as
// named values so they can be reviewed and overridden from config.
type Thresholds struct {
	SequenceImpulsiveMistakes  int     `toml:"sequence_impulsive_mistakes" json:"sequence_impulsive_mistakes"`
	SequenceSystematicMistakes int     `toml:"sequence_systematic_mistakes" json:"sequence_systematic_mistakes"`
	PuzzleSystematicMoves      float64 `toml:"puzzle_systematic_moves" json:"puzzle_systematic_moves"`
	PuzzleExcessiveMoves       float64 `toml:"puzzle_excessive_moves" json:"puzzle_excessive_moves"`
	MemoryAttemptsPerPair      float64 `toml:"memory_attempts_per_pair" json:"memory_attempts_per_pair"`
	GoNoGoCommissionErrors     float64 `toml:"gonogo_commission_errors" json:"gonogo_commission_errors"`
}

// DefaultThresholds returns the calibrated cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SequenceImpulsiveMistakes:  3,
		SequenceSystematicMistakes: 1,
		PuzzleSystematicMoves:      30,
		PuzzleExcessiveMoves:       60,
		MemoryAttemptsPerPair:      2,
		GoNoGoCommissionErrors:     2,
	}
}

// Voter inspects one record and optionally casts a vote.
type Voter interface {
	Name() string
	Vote(r games.Record) (Style, bool)
}

// DefaultVoters returns every voter configured with th.
func DefaultVoters(th Thresholds) []Voter {
	return []Voter{
		ExplicitVoter{},
		MistakeTypeVoter{},
		SequenceVoter{Impulsive: th.SequenceImpulsiveMistakes, Systematic: th.SequenceSystematicMistakes},
		PuzzleVoter{Systematic: th.PuzzleSystematicMoves, Excessive: th.PuzzleExcessiveMoves},
		MemoryVoter{AttemptsPerPair: th.MemoryAttemptsPerPair},
		GoNoGoVoter{Commission: th.GoNoGoCommissionErrors},
	}
}

// ExplicitVoter uses the strategy recorded by the game itself.
type ExplicitVoter struct{}

func (ExplicitVoter) Name() string { return "explicit" }

func (ExplicitVoter) Vote(r games.Record) (Style, bool) {
	if r.StrategyType == "" {
		return "", false
	}
	return ParseStyle(r.StrategyType)
}

// MistakeTypeVoter compares inhibition and attention mistakes.
type MistakeTypeVoter struct{}

func (MistakeTypeVoter) Name() string { return "mistake-types" }

func (MistakeTypeVoter) Vote(r games.Record) (Style, bool) {
	if len(r.MistakeTypes) == 0 {
		return "", false
	}
	if r.MistakeTypes[games.MistakeInhibition] > r.MistakeTypes[games.MistakeAttention] {
		return Impulsive, true
	}
	return Systematic, true
}

// SequenceVoter votes on mistake counts in sequence games.
type SequenceVoter struct {
	Impulsive  int // more mistakes than this is impulsive
	Systematic int // this many or fewer is systematic
}

func (SequenceVoter) Name() string { return "sequence" }

func (v SequenceVoter) Vote(r games.Record) (Style, bool) {
	if r.Activity != games.ActivitySequence {
		return "", false
	}
	switch {
	case r.Mistakes > v.Impulsive:
		return Impulsive, true
	case r.Mistakes <= v.Systematic:
		return Systematic, true
	}
	return "", false
}

// PuzzleVoter votes on move counts and completion in puzzles.
type PuzzleVoter struct {
	Systematic float64 // completed within this many moves
	Excessive  float64 // more moves than this
}

func (PuzzleVoter) Name() string { return "puzzle" }

func (v PuzzleVoter) Vote(r games.Record) (Style, bool) {
	if r.Activity != games.ActivityPuzzle || !r.Metrics.Has(games.MetricMoves) {
		return "", false
	}
	moves := r.Metrics.Get(games.MetricMoves)
	completed := r.Metrics.Flag(games.MetricCompleted)
	switch {
	case completed && moves <= v.Systematic:
		return Systematic, true
	case completed && moves > v.Excessive:
		return Adaptive, true
	case !completed && moves > v.Excessive:
		return Impulsive, true
	}
	return "", false
}

// MemoryVoter flags many attempts per found pair as impulsive.
type MemoryVoter struct {
	AttemptsPerPair float64
}

func (MemoryVoter) Name() string { return "memory" }

func (v MemoryVoter) Vote(r games.Record) (Style, bool) {
	if r.Activity != games.ActivityMemory {
		return "", false
	}
	pairs := r.Metrics.Get(games.MetricPairsFound)
	if pairs <= 0 {
		return "", false
	}
	if r.Metrics.Get(games.MetricAttempts)/pairs > v.AttemptsPerPair {
		return Impulsive, true
	}
	return "", false
}

// GoNoGoVoter flags commission errors in go/no-go games as impulsive.
type GoNoGoVoter struct {
	Commission float64
}

func (GoNoGoVoter) Name() string { return "go-no-go" }

func (v GoNoGoVoter) Vote(r games.Record) (Style, bool) {
	if r.Activity != games.ActivityGoNoGo {
		return "", false
	}
	if r.Metrics.Get(games.MetricCommissionErrors) > v.Commission {
		return Impulsive, true
	}
	return "", false
}
