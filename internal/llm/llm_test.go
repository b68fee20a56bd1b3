package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emotiquest/emotiquest/internal/store"
)

// insightTestSchema returns a schema with a unique cache name per test.
func insightTestSchema(name string) *Schema {
	return &Schema{
		Name: name,
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"mensaje":    map[string]any{"type": "string", "minLength": 1},
				"sugerencia": map[string]any{"type": "string"},
			},
			"required":             []any{"mensaje", "sugerencia"},
			"additionalProperties": false,
		},
	}
}

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestValidateResponse(t *testing.T) {
	schema := insightTestSchema("validate")
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"valid", `{"mensaje":"Hola","sugerencia":""}`, true},
		{"missing required", `{"mensaje":"Hola"}`, false},
		{"empty message", `{"mensaje":"","sugerencia":"x"}`, false},
		{"extra field", `{"mensaje":"a","sugerencia":"b","otro":1}`, false},
		{"wrong type", `{"mensaje":5,"sugerencia":"b"}`, false},
		{"not json", `mensaje: hola`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(schema, json.RawMessage(tt.raw))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.raw, string(inv.Content))
		})
	}
	assert.NoError(t, validateResponse(nil, json.RawMessage(`anything`)))
}

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
	)

	resp, err := mock.Generate(context.Background(), Request{Prompt: "first"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)

	_, err = mock.Generate(context.Background(), Request{Prompt: "second"})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "second", calls[1].Prompt)
}

func TestMockProviderChecksSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"mensaje":"x"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: insightTestSchema("mock-schema")})
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestResponseDecode(t *testing.T) {
	var out struct{ Mensaje string }
	require.NoError(t, (&Response{Content: json.RawMessage(`{"mensaje":"hola"}`)}).Decode(&out))
	assert.Equal(t, "hola", out.Mensaje)

	err := (&Response{Content: json.RawMessage(`{`)}).Decode(&out)
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestRetry(t *testing.T) {
	down := func() MockResponse { return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}} }
	invalid := func() MockResponse {
		return MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
	}
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down(), ok}, false, 2},
		{"all attempts fail", []MockResponse{down(), down(), down(), ok}, true, 3},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"invalid retried once", []MockResponse{invalid(), invalid(), ok}, true, 2},
		{"rate limit honors retry-after", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			resp, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

type fakeSink struct {
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeSink) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.events = append(f.events, data)
	return f.err
}

func TestRecordingProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	sink := &fakeSink{}
	p := WithRecording(mock, ProviderMock, sink, nil)

	ctx := WithRequestID(WithPurpose(context.Background(), "insight"), "req-1")
	_, err := p.Generate(ctx, Request{System: "sys", Prompt: "hola"})
	require.NoError(t, err)

	sink.err = errors.New("disk full")
	_, err = p.Generate(context.Background(), Request{Prompt: "otra"})
	require.Error(t, err)

	require.Len(t, sink.events, 2)
	first := sink.events[0]
	assert.Equal(t, "req-1", first.RequestID)
	assert.Equal(t, "insight", first.Purpose)
	assert.Equal(t, ProviderMock, first.Provider)
	assert.Equal(t, 7, first.InputTokens)
	assert.True(t, first.Success)
	assert.Contains(t, first.RequestBody, "[system]\nsys")
	assert.JSONEq(t, `{"ok":true}`, first.ResponseBody)

	second := sink.events[1]
	assert.False(t, second.Success)
	assert.Equal(t, "unknown", second.Purpose)
	assert.NotEmpty(t, second.RequestID)
	assert.Contains(t, second.ErrorMessage, "down")
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled())
	assert.NoError(t, cfg.Validate())

	cfg.Provider = ProviderAnthropic
	assert.Error(t, cfg.Validate())
	cfg.APIKey = "k"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "claude-haiku", cfg.WithDefaults().Model)

	or := Config{Provider: ProviderOpenRouter, APIKey: "k"}.WithDefaults()
	assert.Equal(t, OpenRouterBaseURL, or.BaseURL)
	assert.Equal(t, 1, or.Retry.MaxAttempts)

	assert.Error(t, Config{Provider: "acme"}.Validate())
}

func TestDiscover(t *testing.T) {
	for _, env := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(env, "")
	}
	_, ok := Discover(DefaultConfig())
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := Discover(DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "o", cfg.APIKey)
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), DefaultConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil)
	assert.Error(t, err)

	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	p, err = NewProvider(context.Background(), Config{Provider: ProviderOpenRouter, APIKey: "k"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-001", p.ModelID())
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mensaje": map[string]any{"type": "string", "description": "texto"},
			"tono":    map[string]any{"type": "string", "enum": []any{"calido", "neutral"}},
			"pasos": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"mensaje"},
	})

	assert.Equal(t, "OBJECT", string(s.Type))
	require.Len(t, s.Properties, 3)
	assert.Equal(t, "texto", s.Properties["mensaje"].Description)
	assert.Equal(t, []string{"calido", "neutral"}, s.Properties["tono"].Enum)
	assert.Equal(t, "STRING", string(s.Properties["pasos"].Items.Type))
	assert.Equal(t, []string{"mensaje"}, s.Required)
}
