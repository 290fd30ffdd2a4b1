package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func narrativeSchema() *Schema {
	return &Schema{
		Name: "narrative-test",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"summary": map[string]any{"type": "string"}},
			"required":   []string{"summary"},
		},
	}
}

func jsonHandler(status int, body any, seen *map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func newTestAnthropic(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)
	return p
}

func TestAnthropicProvider(t *testing.T) {
	var seen map[string]any
	p := newTestAnthropic(t, jsonHandler(http.StatusOK, map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": `{"summary":"Ребёнок спокоен"}`}},
		"model":       "claude-haiku-4-5",
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}, &seen))

	req := UserPrompt("Ты детский психолог.", "Опиши профиль.")
	req.MaxTokens = 256
	req.Schema = narrativeSchema()
	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 80, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5", resp.Model)
	assert.Equal(t, "claude-haiku-4-5", seen["model"], "alias resolved")
	assert.Equal(t, "claude-haiku-4-5", p.ModelID())
}

func TestAnthropicProvider_Errors(t *testing.T) {
	errBody := map[string]any{"type": "error", "error": map[string]any{"type": "x", "message": "nope"}}

	p := newTestAnthropic(t, jsonHandler(http.StatusTooManyRequests, errBody, nil))
	_, err := p.Generate(context.Background(), UserPrompt("", "hi"))
	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl), "429 maps to ErrRateLimit, got %v", err)

	p = newTestAnthropic(t, jsonHandler(http.StatusInternalServerError, errBody, nil))
	_, err = p.Generate(context.Background(), UserPrompt("", "hi"))
	var un *ErrUnavailable
	assert.True(t, errors.As(err, &un), "5xx maps to ErrUnavailable, got %v", err)
}

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	return p
}

func openAIReply(content, finish string) map[string]any {
	return map[string]any{
		"id":    "chatcmpl-test",
		"model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 20, "total_tokens": 60},
	}
}

func TestOpenAIProvider(t *testing.T) {
	var seen map[string]any
	p := newTestOpenAI(t, jsonHandler(http.StatusOK, openAIReply(`{"summary":"ok"}`, "stop"), &seen))

	req := UserPrompt("system", "user")
	req.Schema = narrativeSchema()
	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 60, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)

	msgs, _ := seen["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	format, _ := seen["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIProvider_Failures(t *testing.T) {
	p := newTestOpenAI(t, jsonHandler(http.StatusOK, openAIReply(`{"summary":`, "length"), nil))
	req := UserPrompt("", "x")
	req.Schema = narrativeSchema()
	_, err := p.Generate(context.Background(), req)
	var trunc *ErrTruncated
	assert.True(t, errors.As(err, &trunc), "got %v", err)

	p = newTestOpenAI(t, jsonHandler(http.StatusOK, openAIReply(`{"other":1}`, "stop"), nil))
	_, err = p.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv), "got %v", err)

	p = newTestOpenAI(t, jsonHandler(http.StatusTooManyRequests,
		map[string]any{"error": map[string]any{"message": "slow down", "type": "rate_limit"}}, nil))
	_, err = p.Generate(context.Background(), req)
	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl), "got %v", err)
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.5-flash"})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())

	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "x"})
	assert.Error(t, err)
}

func TestModelAliases(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiAliases))
	assert.Equal(t, "claude-sonnet-4-5", resolveModel("claude-sonnet", anthropicAliases))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-2.0-flash", geminiAliases))
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":     map[string]any{"type": "string", "description": "short"},
			"parent_tips": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"tone":        map[string]any{"type": "string", "enum": []any{"calm", "alert"}},
			"score":       map[string]any{"type": "integer"},
		},
		"required": []string{"summary", "parent_tips"},
	}

	s := geminiSchema(def)
	assert.Equal(t, genai.TypeObject, s.Type)
	require.Len(t, s.Properties, 4)
	assert.Equal(t, "short", s.Properties["summary"].Description)
	assert.Equal(t, genai.TypeArray, s.Properties["parent_tips"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["parent_tips"].Items.Type)
	assert.Equal(t, []string{"calm", "alert"}, s.Properties["tone"].Enum)
	assert.Equal(t, genai.TypeInteger, s.Properties["score"].Type)
	assert.Equal(t, []string{"summary", "parent_tips"}, s.Required)
}
