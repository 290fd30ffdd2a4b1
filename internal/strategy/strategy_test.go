package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/happykids/kidsdiag/internal/games"
)

func voters() []Voter {
	return DefaultVoters(DefaultThresholds())
}

func TestClassifyEmpty(t *testing.T) {
	assert.Equal(t, Unknown, Classify(nil, voters()))
	assert.Equal(t, Unknown, Classify([]games.Record{{Activity: games.ActivityPainting}}, voters()))
}

func TestSequenceVoter(t *testing.T) {
	v := SequenceVoter{Impulsive: 3, Systematic: 1}
	tests := []struct {
		mistakes int
		want     Style
		ok       bool
	}{
		{0, Systematic, true},
		{1, Systematic, true},
		{2, "", false},
		{3, "", false},
		{4, Impulsive, true},
	}
	for _, tt := range tests {
		got, ok := v.Vote(games.Record{Activity: games.ActivitySequence, Mistakes: tt.mistakes})
		if got != tt.want || ok != tt.ok {
			t.Errorf("mistakes=%d: got (%q, %v), want (%q, %v)", tt.mistakes, got, ok, tt.want, tt.ok)
		}
	}
	_, ok := v.Vote(games.Record{Activity: games.ActivityMemory})
	assert.False(t, ok)
}

func TestPuzzleVoter(t *testing.T) {
	v := PuzzleVoter{Systematic: 30, Excessive: 60}
	tests := []struct {
		name      string
		moves     float64
		completed float64
		want      Style
		ok        bool
	}{
		{"quick completion", 25, 1, Systematic, true},
		{"long completion", 80, 1, Adaptive, true},
		{"abandoned after many moves", 80, 0, Impulsive, true},
		{"middle ground", 45, 1, "", false},
		{"abandoned early", 10, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := games.Record{Activity: games.ActivityPuzzle, Metrics: games.Metrics{"moves": tt.moves, "completed": tt.completed}}
			got, ok := v.Vote(r)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestMemoryAndGoNoGoVoters(t *testing.T) {
	mem := MemoryVoter{AttemptsPerPair: 2}
	s, ok := mem.Vote(games.Record{Activity: games.ActivityMemory, Metrics: games.Metrics{"attempts": 13, "pairs_found": 6}})
	assert.True(t, ok)
	assert.Equal(t, Impulsive, s)
	_, ok = mem.Vote(games.Record{Activity: games.ActivityMemory, Metrics: games.Metrics{"attempts": 12, "pairs_found": 6}})
	assert.False(t, ok)
	_, ok = mem.Vote(games.Record{Activity: games.ActivityMemory, Metrics: games.Metrics{"attempts": 12}})
	assert.False(t, ok, "no pairs means no ratio")

	gng := GoNoGoVoter{Commission: 2}
	s, ok = gng.Vote(games.Record{Activity: games.ActivityGoNoGo, Metrics: games.Metrics{"commission_errors": 3}})
	assert.True(t, ok)
	assert.Equal(t, Impulsive, s)
	_, ok = gng.Vote(games.Record{Activity: games.ActivityGoNoGo, Metrics: games.Metrics{"commission_errors": 2}})
	assert.False(t, ok)
}

func TestMistakeTypeVoter(t *testing.T) {
	v := MistakeTypeVoter{}
	s, _ := v.Vote(games.Record{MistakeTypes: map[string]int{"inhibition": 3, "attention": 1}})
	assert.Equal(t, Impulsive, s)
	s, _ = v.Vote(games.Record{MistakeTypes: map[string]int{"inhibition": 1, "attention": 1}})
	assert.Equal(t, Systematic, s)
	_, ok := v.Vote(games.Record{})
	assert.False(t, ok)
}

func TestExplicitVoter(t *testing.T) {
	v := ExplicitVoter{}
	s, ok := v.Vote(games.Record{StrategyType: "адаптивный"})
	assert.True(t, ok)
	assert.Equal(t, Adaptive, s)
	_, ok = v.Vote(games.Record{StrategyType: "chaotic"})
	assert.False(t, ok)
}

func TestClassifyMajority(t *testing.T) {
	recs := []games.Record{
		{Activity: games.ActivitySequence, Mistakes: 0},
		{Activity: games.ActivityGoNoGo, Metrics: games.Metrics{"commission_errors": 5}},
		{Activity: games.ActivityGoNoGo, Metrics: games.Metrics{"commission_errors": 4}},
	}
	assert.Equal(t, Impulsive, Classify(recs, voters()))
}

func TestClassifyTieGoesToFirstVote(t *testing.T) {
	recs := []games.Record{
		{Activity: games.ActivityGoNoGo, Metrics: games.Metrics{"commission_errors": 5}},
		{Activity: games.ActivitySequence, Mistakes: 0},
	}
	tally := Count(recs, voters())
	assert.Equal(t, []Style{Impulsive, Systematic}, tally.Order)
	assert.Equal(t, Impulsive, tally.Winner())
}

func TestAnalyzeErrors(t *testing.T) {
	assert.Equal(t, PatternNoData, AnalyzeErrors(nil).Pattern)

	rts := make([]float64, 10)
	tests := []struct {
		mistakes int
		pattern  string
	}{
		{0, PatternSystematic},
		{1, PatternSystematicLight},
		{2, PatternImpulsive},
		{5, PatternRandom},
	}
	for _, tt := range tests {
		p := AnalyzeErrors([]games.Record{{Mistakes: tt.mistakes, ReactionTimes: rts, MistakeTypes: map[string]int{"attention": 1}}})
		assert.Equal(t, tt.pattern, p.Pattern, "mistakes=%d", tt.mistakes)
		assert.Equal(t, 1, p.ErrorTypes["attention"])
	}
}
