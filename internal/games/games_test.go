package games

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmotion(t *testing.T) {
	tests := []struct {
		in   string
		want Emotion
	}{
		{"anger", Anger},
		{"гнев", Anger},
		{"Скука", Boredom},
		{" joy ", Joy},
		{"счастье", Happiness},
		{"грусть", Sorrow},
		{"love", Love},
	}
	for _, tt := range tests {
		got, err := ParseEmotion(tt.in)
		if err != nil {
			t.Errorf("ParseEmotion(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEmotion(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	_, err := ParseEmotion("fear")
	assert.Error(t, err)
}

func TestEmotionLabelsRoundTrip(t *testing.T) {
	for _, e := range AllEmotions {
		got, err := ParseEmotion(e.Label())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestEmotionCounts(t *testing.T) {
	c := EmotionCounts{Anger: 1, Boredom: 2, Joy: 3, Happiness: 4, Sorrow: 5, Love: 6}
	assert.Equal(t, 21, c.Total())
	for i, e := range AllEmotions {
		assert.Equal(t, i+1, c.Get(e), e.Key())
	}
}

func TestActivityFamilies(t *testing.T) {
	assert.True(t, ActivityMemory.Objective())
	assert.True(t, ActivityEmotionMatch.Objective())
	assert.False(t, ActivityPainting.Objective())
	assert.True(t, ActivityPainting.Subjective())
	assert.False(t, ActivityMaze.Subjective())
	assert.False(t, ActivityMaze.Objective())
	assert.False(t, Activity("Trampoline").Known())
	assert.Equal(t, "Trampoline", Activity("Trampoline").Label())
	assert.Len(t, AllActivities, 15)
}

func TestRecordHintsFallback(t *testing.T) {
	r := Record{Metrics: Metrics{MetricHintsUsed: 3}}
	assert.Equal(t, 3, r.Hints())
	r.HintsUsed = 1
	assert.Equal(t, 1, r.Hints())
}

func TestRecordJSON(t *testing.T) {
	raw := `{
		"id": "r1",
		"game_type": "Memory",
		"date": "2025-03-01T10:00:00Z",
		"emotions": {"joy": 2, "sorrow": 1},
		"mistakes": 1,
		"performance_metrics": {"attempts": 6, "pairs_found": 4},
		"reaction_times": [400, 600],
		"session": {"completed": true}
	}`
	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, ActivityMemory, r.Activity)
	assert.Equal(t, 2, r.Emotions.Joy)
	assert.True(t, r.SessionCompleted())
	mean, ok := r.MeanReactionTime()
	assert.True(t, ok)
	assert.Equal(t, 500.0, mean)
}

func TestParseActivity(t *testing.T) {
	assert.Equal(t, ActivityGoNoGo, ParseActivity(" gonogo "))
	assert.Equal(t, ActivityPainting, ParseActivity("Painting"))
	a := ParseActivity("Trampoline")
	assert.Equal(t, Activity("Trampoline"), a)
	assert.False(t, a.Known())
}
