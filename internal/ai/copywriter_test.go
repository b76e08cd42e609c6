package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"adspark/internal/config"
	"adspark/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeCopies = `[
 {"headline":"Walk On Clouds","body":"Comfort that carries you all day.","cta":"Shop Now","angle":"Emotional Appeal"},
 {"headline":"Sore Feet? Solved.","body":"Cushioned soles built for long shifts.","cta":"Try Them","angle":"Problem-Solving"},
 {"headline":"Loved by 20k Runners","body":"See why reviewers rate them 4.9 stars.","cta":"Read Reviews","angle":"Social Proof"}
]`

func completionBody(content string) string {
	b, _ := json.Marshal(ChatResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: content}}}})
	return string(b)
}

func setupCopywriter(t *testing.T, handler http.HandlerFunc, opts ...Option) *Copywriter {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		AIBaseURL: server.URL,
		AIAPIKey:  "test-key",
		AIModel:   config.DefaultAIModel,
		AITimeout: 5 * time.Second,
	}
	return New(cfg, logger.Nop(), opts...)
}

func TestGenerateAdCopySuccess(t *testing.T) {
	var captured ChatRequest
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(threeCopies)))
	})

	copies, err := cw.GenerateAdCopy(context.Background(), "shoe", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	require.Len(t, copies, 3)
	assert.Equal(t, "Walk On Clouds", copies[0].Headline)
	assert.Equal(t, "Social Proof", copies[2].Angle)

	assert.Equal(t, "google/gemini-2.0-flash-001", captured.Model)
	assert.Equal(t, 0.8, captured.Temperature)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, `"shoe"`)
	assert.Contains(t, captured.Messages[1].Content, "headline, body, cta, angle")
	assert.NotContains(t, captured.Messages[1].Content, "base64")
}

func TestGenerateAdCopyFencedJSON(t *testing.T) {
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("```json\n" + threeCopies + "\n```")))
	})

	copies, err := cw.GenerateAdCopy(context.Background(), "shoe", "")
	require.NoError(t, err)
	assert.Len(t, copies, 3)
}

func TestGenerateAdCopyReturnsBatchUnvalidated(t *testing.T) {
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`[{"headline":"Only one"}]`)))
	})

	copies, err := cw.GenerateAdCopy(context.Background(), "shoe", "")
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, "Only one", copies[0].Headline)
	assert.Empty(t, copies[0].CTA)
}

func TestGenerateAdCopyKeepsNonStringFields(t *testing.T) {
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`[{"headline":8,"body":true,"cta":null,"angle":["Urgency"]}]`)))
	})

	copies, err := cw.GenerateAdCopy(context.Background(), "shoe", "")
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, AdCopy{Headline: "8", Body: "true", CTA: "", Angle: `["Urgency"]`}, copies[0])
}

func TestGenerateAdCopyUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-JSON content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(completionBody("Here are three great ads for your shoe!")))
			},
		},
		{
			name: "JSON object instead of array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(completionBody(`{"headline":"x"}`)))
			},
		},
		{
			name: "array of scalars",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(completionBody(`["Walk On Clouds", "Sore Feet? Solved."]`)))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":{"message":"No auth credentials found"}}`, http.StatusUnauthorized)
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(completionBody("")))
			},
		},
		{
			name: "error envelope with 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
			},
		},
		{
			name: "malformed envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>bad gateway</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cw := setupCopywriter(t, tt.handler)

			copies, err := cw.GenerateAdCopy(context.Background(), "shoe", "")
			require.Error(t, err)
			assert.Nil(t, copies)
			assert.ErrorIs(t, err, ErrGenerationUnavailable)

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, "generate ad copy", genErr.Op)
		})
	}
}

func TestGenerateAdCopyNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	cw := New(&config.Config{AIBaseURL: url, AIAPIKey: "k", AITimeout: time.Second}, logger.Nop())

	copies, err := cw.GenerateAdCopy(context.Background(), "shoe", "")
	assert.Nil(t, copies)
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestGenerateAdCopyNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	_, err := cw.GenerateAdCopy(context.Background(), "shoe", "")
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateAdCopyWithRetry(t *testing.T) {
	var calls atomic.Int32
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody(threeCopies)))
	}, WithRetry(3))

	copies, err := cw.GenerateAdCopy(context.Background(), "shoe", "")
	require.NoError(t, err)
	assert.Len(t, copies, 3)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryBudgetFitsGenerationBudget(t *testing.T) {
	cfg := &config.Config{AITimeout: 30 * time.Second, AIRetry: true, AIMaxRetries: 3}
	cw := New(cfg, logger.Nop())

	assert.Equal(t, cfg.GenerationBudget(), cw.retryBudget())

	cw = New(cfg, logger.Nop(), WithHTTPClient(&http.Client{}))
	assert.Zero(t, cw.retryBudget())
}

func TestGenerateAdCopyRetryStopsAtDeadline(t *testing.T) {
	var calls atomic.Int32
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}, WithRetry(1000))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := cw.GenerateAdCopy(ctx, "shoe", "")
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Less(t, calls.Load(), int32(5))
}

func TestGenerateAdCopyRetryStopsOnClientError(t *testing.T) {
	var calls atomic.Int32
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}, WithRetry(3))

	_, err := cw.GenerateAdCopy(context.Background(), "shoe", "")
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateOptimizationSuggestions(t *testing.T) {
	var captured ChatRequest
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(completionBody(`[{"suggestion":"Test urgency CTAs","reasoning":"Urgency variant converts best","impact_level":"high"}]`)))
	})

	data := map[string]interface{}{"views": 45230, "ctr": 7.6}
	suggestions, err := cw.GenerateOptimizationSuggestions(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "high", suggestions[0].ImpactLevel)

	assert.Equal(t, 0.7, captured.Temperature)
	assert.Contains(t, captured.Messages[1].Content, `"views":45230`)
	assert.Contains(t, captured.Messages[1].Content, "impact_level (high/medium/low)")
}

func TestGenerateOptimizationSuggestionsUnavailable(t *testing.T) {
	cw := setupCopywriter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("not json")))
	})

	suggestions, err := cw.GenerateOptimizationSuggestions(context.Background(), nil)
	assert.Nil(t, suggestions)
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `[1]`, want: `[1]`},
		{in: "  [1]\n", want: `[1]`},
		{in: "```json\n[1]\n```", want: `[1]`},
		{in: "```\n[1]\n```", want: `[1]`},
		{in: "```[1]```", want: `[1]`},
		{in: "```", want: "```"},
	}

	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.in, "\n", `\n`), func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
