package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happykids/kidsdiag/internal/games"
)

func TestScoreEmptyUsesDefaults(t *testing.T) {
	a := Score(nil, DefaultConfig())
	require.True(t, a.Defaulted)
	assert.Nil(t, a.Scores)

	depth := a.Axes[DiagnosticDepth]
	assert.Equal(t, 0.3, depth["low"])
	assert.Equal(t, 0.5, depth["medium"])
	assert.Equal(t, 0.2, depth["high"])
	assert.Len(t, a.Axes, 5)

	// Defaults must not alias the config tables.
	a.Axes[DiagnosticDepth]["low"] = 9
	assert.Equal(t, 0.3, DefaultConfig().Defaults[DiagnosticDepth]["low"])
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name string
		rec  games.Record
		want float64
	}{
		{"painting without image", games.Record{Activity: games.ActivityPainting}, 0.3},
		{"painting with image", games.Record{Activity: games.ActivityPainting, Drawing: &games.Drawing{HasImage: true}}, 1},
		{"dialog", games.Record{Activity: games.ActivityDialog, DialogAnswers: []string{"a", "b"}}, 0.4},
		{"choice capped", games.Record{Activity: games.ActivityChoice, Choices: make([]string, 9)}, 1},
		{"memory", games.Record{Activity: games.ActivityMemory, Metrics: games.Metrics{"pairs_found": 4, "levels_completed": 1}}, 0.6},
		{"puzzle completed", games.Record{Activity: games.ActivityPuzzle, Metrics: games.Metrics{"completed": 1}}, 1},
		{"puzzle moves", games.Record{Activity: games.ActivityPuzzle, Metrics: games.Metrics{"moves": 5}}, 0.5},
		{"puzzle empty", games.Record{Activity: games.ActivityPuzzle}, 0.2},
		{"sequence", games.Record{Activity: games.ActivitySequence, Metrics: games.Metrics{"level_reached": 2}}, 0.4},
		{"sort total and rt", games.Record{Activity: games.ActivitySort, Metrics: games.Metrics{"total": 8}, ReactionTimes: []float64{1}}, 1},
		{"sort total only", games.Record{Activity: games.ActivitySort, Metrics: games.Metrics{"total": 8}}, 0.7},
		{"sort nothing", games.Record{Activity: games.ActivitySort}, 0.3},
		{"maze bare", games.Record{Activity: games.ActivityMaze}, 0.5},
		{"maze full", games.Record{Activity: games.ActivityMaze, ReactionTimes: []float64{1}, Metrics: games.Metrics{"moves": 1}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Completeness(tt.rec), 1e-9)
		})
	}
}

func TestSinglePaintingWithoutImage(t *testing.T) {
	recs := []games.Record{{Activity: games.ActivityPainting}}
	// 0.35*(1/12) + 0.40*0.3 + 0.25*(1/8)
	want := 0.35/12 + 0.12 + 0.25/8
	assert.InDelta(t, want, Depth(recs), 1e-9)

	a := Score(recs, DefaultConfig())
	assert.False(t, a.Defaulted)
	assert.InDelta(t, want, a.Scores[DiagnosticDepth], 1e-9)
	low, ok := a.Get(DiagnosticDepth, "low")
	require.True(t, ok)
	assert.Equal(t, 1.0, low)
}

func TestObjectivity(t *testing.T) {
	objectiveOnly := []games.Record{{Activity: games.ActivityMemory}, {Activity: games.ActivitySort}}
	assert.InDelta(t, 0.9, ObjectivityScore(objectiveOnly), 1e-9)

	mixed := []games.Record{{Activity: games.ActivityMemory}, {Activity: games.ActivityDialog}}
	assert.InDelta(t, 0.85, ObjectivityScore(mixed), 1e-9)

	free := []games.Record{{Activity: games.ActivityMaze}}
	assert.InDelta(t, 0.6, ObjectivityScore(free), 1e-9)
}

func TestEcologicalCapped(t *testing.T) {
	recs := []games.Record{
		{Activity: games.ActivityChoice, Choices: []string{"x"}},
		{Activity: games.ActivityChoice, Choices: []string{"y"}},
		{Activity: games.ActivityPainting, Drawing: &games.Drawing{}},
		{Activity: games.ActivityDialog, DialogAnswers: []string{"z"}},
		{Activity: games.ActivityDialog, DialogAnswers: []string{"w"}},
	}
	assert.Equal(t, 1.0, Ecological(recs))
	assert.InDelta(t, 0.6, Ecological([]games.Record{{Activity: games.ActivityChoice}}), 1e-9)
}

func TestMotivation(t *testing.T) {
	recs := []games.Record{
		{
			Activity: games.ActivityMemory,
			Session:  &games.Session{Completed: true},
			Emotions: games.EmotionCounts{Joy: 4, Happiness: 6},
			Metrics:  games.Metrics{"levels_completed": 4, "pairs_found": 20},
		},
		{
			Activity: games.ActivityPuzzle,
			Session:  &games.Session{Completed: true},
			Emotions: games.EmotionCounts{Joy: 10},
			Metrics:  games.Metrics{"completed": 1},
		},
		{
			Activity: games.ActivitySequence,
			Mistakes: 2,
			Metrics:  games.Metrics{"level_reached": 5},
		},
	}
	// completed 2/3, memory 1, puzzle 1, sequence 0.8, emotions 20/3/10
	want := 0.2*2.0/3 + 0.25 + 0.2 + 0.2*0.8 + 0.15*(20.0/3/10)
	assert.InDelta(t, want, Motivation(recs), 1e-9)
}

func TestMotivationPositiveEmotionTerm(t *testing.T) {
	tests := []struct {
		name string
		rec  games.Record
		want float64
	}{
		{
			name: "mean above ten counts in full",
			rec: games.Record{
				Activity: games.ActivityPuzzle,
				Session:  &games.Session{Completed: true},
				Emotions: games.EmotionCounts{Joy: 10, Happiness: 10},
				Metrics:  games.Metrics{"completed": 1},
			},
			want: 0.2 + 0.2 + 0.15*2,
		},
		{
			name: "axis clamps at one",
			rec: games.Record{
				Activity: games.ActivityMemory,
				Session:  &games.Session{Completed: true},
				Emotions: games.EmotionCounts{Joy: 20, Happiness: 20},
				Metrics:  games.Metrics{"levels_completed": 4, "pairs_found": 20},
			},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Motivation([]games.Record{tt.rec}), 1e-9)
		})
	}
}

func TestSequenceProgressFloored(t *testing.T) {
	recs := []games.Record{{Activity: games.ActivitySequence, Mistakes: 15, Metrics: games.Metrics{"level_reached": 5}}}
	assert.Zero(t, Motivation(recs))
}

func TestDynamic(t *testing.T) {
	recs := []games.Record{
		{Activity: games.ActivityMemory, Metrics: games.Metrics{"levels_completed": 4, "pairs_found": 20}},
		{Activity: games.ActivityPuzzle},
		{Activity: games.ActivityPainting},
	}
	want := 0.35 + 0.4*3.0/12 + 0.25*0.5
	assert.InDelta(t, want, Dynamic(recs), 1e-9)
}

func TestRadar(t *testing.T) {
	cfg := DefaultConfig()
	a := Score(nil, cfg)
	r := a.Radar(cfg)
	assert.Equal(t, 20.0, r[DiagnosticDepth])
	assert.Equal(t, 40.0, r[DynamicAssessment])
	assert.Len(t, TraditionalReference(), 5)
	assert.Len(t, DigitalReference(), 5)
}
