package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happykids/kidsdiag/internal/diagnosis"
	"github.com/happykids/kidsdiag/internal/games"
	"github.com/happykids/kidsdiag/internal/llm"
	"github.com/happykids/kidsdiag/internal/logging"
	"github.com/happykids/kidsdiag/internal/profile"
	"github.com/happykids/kidsdiag/internal/quality"
)

func testReport(t *testing.T, n int) *profile.Report {
	t.Helper()
	cfg := profile.DefaultConfig()
	cfg.Jitter = false
	cat, err := diagnosis.DefaultCatalog(cfg.Vocabulary())
	require.NoError(t, err)

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	var recs []games.Record
	for i := range n {
		recs = append(recs, games.Record{
			ID:            fmt.Sprintf("r%d", i),
			ChildID:       "c1",
			Activity:      games.ActivitySequence,
			PlayedAt:      base.Add(time.Duration(i) * 24 * time.Hour),
			Emotions:      games.EmotionCounts{Sorrow: 3, Joy: 1},
			Mistakes:      5,
			ReactionTimes: []float64{300, 320, 310},
		})
	}
	return profile.NewEngine(cfg, cat).BuildFor(profile.Subject{ID: "c1", Name: "Маша"}, recs)
}

func validNarrative() json.RawMessage {
	return json.RawMessage(`{
		"summary": "Ребёнок часто грустит после игр и торопится с ответами.",
		"parent_tips": ["Играйте в спокойные настольные игры.", "  "],
		"clinician_notes": "Доля грусти 0.75 по 6 сессиям; импульсивный стиль по Sequence."
	}`)
}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validNarrative()})
	svc := NewService(mock, DefaultConfig(), quality.DefaultConfig(), logging.Discard())

	n, err := svc.Generate(context.Background(), testReport(t, 6))
	require.NoError(t, err)
	assert.Contains(t, n.Summary, "грустит")
	assert.Equal(t, []string{"Играйте в спокойные настольные игры."}, n.ParentTips, "blank tips dropped")
	assert.Equal(t, "mock", n.Model)
	assert.False(t, n.GeneratedAt.IsZero())

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, systemPrompt, req.System)
	assert.Equal(t, 900, req.MaxTokens)
	require.NotNil(t, req.Schema)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, "Игровых сессий: 6")
	assert.Contains(t, msg, "грусть: 0.75")
	assert.Contains(t, msg, "Диагностическая глубина")
	assert.Contains(t, msg, "parent_tips: от 1 до 5")
	assert.NotContains(t, msg, "Маша", "child name is not sent")
}

func TestGenerateSkipsEmptyHistory(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig(), quality.DefaultConfig(), logging.Discard())

	_, err := svc.Generate(context.Background(), testReport(t, 0))
	assert.ErrorIs(t, err, ErrNoHistory)
	assert.Zero(t, mock.CallCount())
}

func TestGenerateRejectsOffSchema(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"summary":"x"}`)})
	svc := NewService(mock, DefaultConfig(), quality.DefaultConfig(), logging.Discard())

	_, err := svc.Generate(context.Background(), testReport(t, 3))
	var inv *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &inv), "got %v", err)
}

func TestDescribeDegrades(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrUnavailable{}})
	svc := NewService(mock, DefaultConfig(), quality.DefaultConfig(), logging.Discard())

	assert.Nil(t, svc.Describe(context.Background(), testReport(t, 3)))
	assert.Nil(t, svc.Describe(context.Background(), nil))
}

func TestSchemaTipLimit(t *testing.T) {
	s := Schema(2)
	tips := s.Definition["properties"].(map[string]any)["parent_tips"].(map[string]any)
	assert.Equal(t, 2, tips["maxItems"])
	assert.NotEqual(t, Schema(5).Name, s.Name)
}
