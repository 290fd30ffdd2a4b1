package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happykids/kidsdiag/internal/store"
)

type fakeRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return f.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"summary":"ok"}`), Usage: newUsage(120, 30)})
	p := WithLogging(mock, "anthropic", rec, nil)

	ctx := WithPurpose(context.Background(), PurposeNarrative)
	req := UserPrompt("be kind", "describe the child")
	req.Schema = &Schema{Name: "narrative", Definition: map[string]any{"type": "object"}}
	_, err := p.Generate(ctx, req)
	require.NoError(t, err)

	require.Len(t, rec.events, 1)
	e := rec.events[0]
	_, perr := uuid.Parse(e.RequestID)
	assert.NoError(t, perr)
	assert.Equal(t, "anthropic", e.Provider)
	assert.Equal(t, "mock", e.Model)
	assert.Equal(t, PurposeNarrative, e.Purpose)
	assert.True(t, e.Success)
	assert.Equal(t, 120, e.InputTokens)
	assert.Equal(t, 30, e.OutputTokens)
	assert.Contains(t, e.RequestBody, "[system]\nbe kind")
	assert.Contains(t, e.RequestBody, "[user]\ndescribe the child")
	assert.Contains(t, e.RequestBody, "[schema: narrative]")
	assert.JSONEq(t, `{"summary":"ok"}`, e.ResponseBody)
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	p := WithLogging(mock, "openai", rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl), "provider error passes through even when recording fails")

	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].Success)
	assert.Contains(t, rec.events[0].ErrorMessage, "rate limited")
	assert.Equal(t, PurposeUnknown, rec.events[0].Purpose)
}

func TestLoggingProvider_RecordsEveryRetry(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{Err: errDown}, MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRetry(WithLogging(mock, "gemini", rec, nil), retryConfig(), 0, nil)

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, rec.events, 2)
	assert.False(t, rec.events[0].Success)
	assert.True(t, rec.events[1].Success)
	assert.NotEqual(t, rec.events[0].RequestID, rec.events[1].RequestID)
}
