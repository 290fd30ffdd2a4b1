package features

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/happykids/kidsdiag/internal/games"
)

func TestExtractEmpty(t *testing.T) {
	v := Extract(nil, DefaultConfig())
	assert.Equal(t, 0.5, v.Impulsivity)
	assert.Equal(t, 0.5, v.CognitiveControl)
	assert.Zero(t, v.CognitiveActivity)
	assert.InDelta(t, 0.5, v.Strategy, 1e-9)
	assert.InDelta(t, 0.4, v.Anxiety, 1e-9)
}

func TestExtractConstantReactionTimes(t *testing.T) {
	recs := []games.Record{{
		Activity:      games.ActivityReaction,
		ReactionTimes: []float64{200, 200, 200},
	}}
	v := Extract(recs, DefaultConfig())
	assert.InDelta(t, 1.0, v.Impulsivity, 1e-9)
	assert.InDelta(t, 0.0, v.CognitiveControl, 1e-9)
}

func TestExtractInstabilityBonus(t *testing.T) {
	// mean 1000, std 500 -> cv 0.5
	recs := []games.Record{{
		Activity:      games.ActivityAttention,
		ReactionTimes: []float64{500, 1500},
	}}
	v := Extract(recs, DefaultConfig())
	base := 1 - (1000.0-200)/1500
	assert.InDelta(t, base+0.2, v.Impulsivity, 1e-9)
	assert.InDelta(t, 1.0, v.CognitiveControl, 1e-9)
	assert.InDelta(t, 0.5, v.Stats.CV, 1e-9)
}

func TestExtractErrorsAndHints(t *testing.T) {
	recs := []games.Record{
		{
			Activity: games.ActivityMemory,
			Mistakes: 1,
			Metrics:  games.Metrics{games.MetricAttempts: 10, games.MetricPairsFound: 6},
		},
		{
			Activity:  games.ActivityGoNoGo,
			HintsUsed: 3,
			Metrics: games.Metrics{
				games.MetricTotal:            20,
				games.MetricCommissionErrors: 2,
				games.MetricOmissionErrors:   1,
			},
		},
	}
	v := Extract(recs, DefaultConfig())

	// memory: 1 + (10-6); go/no-go: 2 + 1
	assert.Equal(t, 8, v.Stats.Errors)
	// memory: 10*2; go/no-go: generic max(0, 20, 1)
	assert.Equal(t, 40.0, v.Stats.Actions)
	assert.InDelta(t, 0.2, v.Stats.ErrorRate, 1e-9)
	assert.InDelta(t, 0.5, v.Strategy, 1e-9)
	assert.InDelta(t, 0.3+0.4*0.8, v.Anxiety, 1e-9)
	assert.InDelta(t, 0.5, v.CognitiveActivity, 1e-9)
}

func TestActionCount(t *testing.T) {
	tests := []struct {
		name string
		rec  games.Record
		want float64
	}{
		{"memory attempts", games.Record{Activity: games.ActivityMemory, Metrics: games.Metrics{"attempts": 4}}, 8},
		{"memory no attempts", games.Record{Activity: games.ActivityMemory}, 1},
		{"choice total", games.Record{Activity: games.ActivityChoice, Metrics: games.Metrics{"total": 5}}, 5},
		{"choice fallback", games.Record{Activity: games.ActivityChoice}, 8},
		{"reaction fallback", games.Record{Activity: games.ActivityReaction}, 8},
		{"sequence", games.Record{Activity: games.ActivitySequence, Metrics: games.Metrics{"level_reached": 3}}, 12},
		{"sequence zero", games.Record{Activity: games.ActivitySequence}, 1},
		{"puzzle moves", games.Record{Activity: games.ActivityPuzzle, Metrics: games.Metrics{"moves": 42}}, 42},
		{"puzzle generic", games.Record{Activity: games.ActivityPuzzle, ReactionTimes: []float64{1, 2}}, 2},
		{"unknown generic", games.Record{Activity: "Trampoline", ReactionTimes: []float64{1, 2, 3}}, 3},
		{"unknown empty", games.Record{Activity: "Trampoline"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActionCount(tt.rec, 8); got != tt.want {
				t.Errorf("ActionCount = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractOrderInsensitive(t *testing.T) {
	recs := []games.Record{
		{Activity: games.ActivityMemory, Mistakes: 2, ReactionTimes: []float64{320, 410, 980}, Metrics: games.Metrics{"attempts": 7, "pairs_found": 5}},
		{Activity: games.ActivitySequence, Mistakes: 4, HintsUsed: 2, ReactionTimes: []float64{650}, Metrics: games.Metrics{"level_reached": 2}},
		{Activity: games.ActivityPainting, HintsUsed: 1},
		{Activity: games.ActivityGoNoGo, ReactionTimes: []float64{250, 270}, Metrics: games.Metrics{"total": 12, "commission_errors": 3}},
		{Activity: games.ActivityChoice, Mistakes: 1},
	}
	want := Extract(recs, DefaultConfig())

	rng := rand.New(rand.NewPCG(1, 2))
	for range 10 {
		shuffled := append([]games.Record(nil), recs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := Extract(shuffled, DefaultConfig())
		assert.InDelta(t, want.Impulsivity, got.Impulsivity, 1e-9)
		assert.InDelta(t, want.CognitiveControl, got.CognitiveControl, 1e-9)
		assert.InDelta(t, want.CognitiveActivity, got.CognitiveActivity, 1e-9)
		assert.InDelta(t, want.Strategy, got.Strategy, 1e-9)
		assert.InDelta(t, want.Anxiety, got.Anxiety, 1e-9)
	}
}

func TestVectorGet(t *testing.T) {
	v := Vector{Impulsivity: 0.1, Anxiety: 0.9}
	for _, name := range Names {
		_, ok := v.Get(name)
		assert.True(t, ok, name)
	}
	got, _ := v.Get(Anxiety)
	assert.Equal(t, 0.9, got)
	_, ok := v.Get("mood")
	assert.False(t, ok)
}
