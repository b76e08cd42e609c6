package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adspark/internal/config"
	"adspark/internal/logger"
	"adspark/internal/metrics"

	"github.com/cenkalti/backoff/v5"
)

const (
	adCopyTemperature     = 0.8
	suggestionTemperature = 0.7
)

// ErrGenerationUnavailable is the only failure callers need to act on.
// Network errors, non-2xx responses, empty content and unparseable JSON
// all collapse into it.
var ErrGenerationUnavailable = errors.New("generation unavailable")

// GenerationError wraps the underlying cause of an unavailable generation.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrGenerationUnavailable, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationUnavailable }

// Chat completion API structures
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Choices []Choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type Choice struct {
	Message Message `json:"message"`
}

// AdCopy is one raw copy variation as returned by the model.
type AdCopy struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	CTA      string `json:"cta"`
	Angle    string `json:"angle"`
}

// Suggestion is one optimization idea for deployed variants.
type Suggestion struct {
	Suggestion  string `json:"suggestion"`
	Reasoning   string `json:"reasoning"`
	ImpactLevel string `json:"impact_level"`
}

// text accepts any JSON value. Strings are unquoted, null is empty and
// anything else keeps its literal JSON form.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		*t = text(data)
	}
	return nil
}

func (a *AdCopy) UnmarshalJSON(data []byte) error {
	var raw struct {
		Headline text `json:"headline"`
		Body     text `json:"body"`
		CTA      text `json:"cta"`
		Angle    text `json:"angle"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = AdCopy{
		Headline: string(raw.Headline),
		Body:     string(raw.Body),
		CTA:      string(raw.CTA),
		Angle:    string(raw.Angle),
	}
	return nil
}

func (s *Suggestion) UnmarshalJSON(data []byte) error {
	var raw struct {
		Suggestion  text `json:"suggestion"`
		Reasoning   text `json:"reasoning"`
		ImpactLevel text `json:"impact_level"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Suggestion{
		Suggestion:  string(raw.Suggestion),
		Reasoning:   string(raw.Reasoning),
		ImpactLevel: string(raw.ImpactLevel),
	}
	return nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.code, e.body)
}

// Copywriter calls a hosted chat-completion endpoint. It keeps no state
// between calls.
type Copywriter struct {
	baseURL    string
	apiKey     string
	model      string
	retry      bool
	maxRetries int
	httpClient *http.Client
	logger     *logger.Logger
}

type Option func(*Copywriter)

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cw *Copywriter) {
		cw.httpClient = c
	}
}

// WithBaseURL points the client at another OpenAI compatible endpoint.
func WithBaseURL(url string) Option {
	return func(cw *Copywriter) {
		cw.baseURL = strings.TrimRight(url, "/")
	}
}

// WithRetry enables exponential backoff on transient failures.
func WithRetry(maxTries int) Option {
	return func(cw *Copywriter) {
		cw.retry = true
		cw.maxRetries = maxTries
	}
}

func New(cfg *config.Config, logger *logger.Logger, opts ...Option) *Copywriter {
	cw := &Copywriter{
		baseURL:    cfg.AIBaseURL,
		apiKey:     cfg.AIAPIKey,
		model:      cfg.AIModel,
		retry:      cfg.AIRetry,
		maxRetries: cfg.AIMaxRetries,
		httpClient: &http.Client{Timeout: cfg.AITimeout},
		logger:     logger,
	}
	if cw.baseURL == "" {
		cw.baseURL = config.DefaultAIBaseURL
	}
	if cw.model == "" {
		cw.model = config.DefaultAIModel
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

// GenerateAdCopy asks for three copy variations for the product. The image
// reference is accepted but not sent upstream. The parsed batch is
// returned as-is; its length and field contents are not validated, and
// non-string fields are kept in their JSON form.
func (cw *Copywriter) GenerateAdCopy(ctx context.Context, productName, productImageRef string) ([]AdCopy, error) {
	cw.logger.Debug("Generating ad copy for product %q", productName)

	content, err := cw.complete(ctx, "ad_copy", adCopySystemPrompt, adCopyPrompt(productName), adCopyTemperature)
	if err != nil {
		cw.logger.Error("Error generating ad copy: %v", err)
		return nil, &GenerationError{Op: "generate ad copy", Err: err}
	}

	var copies []AdCopy
	if err := decodeJSON(content, &copies); err != nil {
		cw.logger.Error("Error generating ad copy: failed to parse response: %v", err)
		return nil, &GenerationError{Op: "generate ad copy", Err: err}
	}

	return copies, nil
}

// GenerateOptimizationSuggestions asks for three suggestions given
// arbitrary performance data.
func (cw *Copywriter) GenerateOptimizationSuggestions(ctx context.Context, performanceData interface{}) ([]Suggestion, error) {
	dataJSON, err := json.Marshal(performanceData)
	if err != nil {
		return nil, &GenerationError{Op: "generate suggestions", Err: fmt.Errorf("failed to marshal performance data: %w", err)}
	}

	content, err := cw.complete(ctx, "suggestions", suggestionSystemPrompt, suggestionPrompt(string(dataJSON)), suggestionTemperature)
	if err != nil {
		cw.logger.Error("Error generating optimization suggestions: %v", err)
		return nil, &GenerationError{Op: "generate suggestions", Err: err}
	}

	var suggestions []Suggestion
	if err := decodeJSON(content, &suggestions); err != nil {
		cw.logger.Error("Error generating optimization suggestions: failed to parse response: %v", err)
		return nil, &GenerationError{Op: "generate suggestions", Err: err}
	}

	return suggestions, nil
}

// complete makes one chat completion call and returns the first choice's
// content.
func (cw *Copywriter) complete(ctx context.Context, op, system, prompt string, temperature float64) (string, error) {
	request := ChatRequest{
		Model:       cw.model,
		Temperature: temperature,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	var content string
	if cw.retry {
		b := backoff.NewExponentialBackOff()
		b.MaxInterval = config.MaxRetryInterval
		retryOpts := []backoff.RetryOption{
			backoff.WithBackOff(b),
			backoff.WithMaxTries(uint(max(cw.maxRetries, 1))),
		}

		retryCtx := ctx
		if budget := cw.retryBudget(); budget > 0 {
			var cancel context.CancelFunc
			retryCtx, cancel = context.WithTimeout(ctx, budget)
			defer cancel()
			retryOpts = append(retryOpts, backoff.WithMaxElapsedTime(budget))
		}

		content, err = backoff.Retry(retryCtx, func() (string, error) {
			content, err := cw.post(retryCtx, jsonData)
			if err != nil && !retryable(err) {
				return "", backoff.Permanent(err)
			}
			return content, err
		}, retryOpts...)
	} else {
		content, err = cw.post(ctx, jsonData)
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ObserveCompletion(op, result, time.Since(start).Seconds())

	return content, err
}

// retryBudget bounds a whole retried call so it ends within the
// configured generation budget. Zero when attempts have no timeout.
func (cw *Copywriter) retryBudget() time.Duration {
	if cw.httpClient.Timeout <= 0 {
		return 0
	}
	return config.RetryBudget(cw.httpClient.Timeout, cw.maxRetries)
}

func (cw *Copywriter) post(ctx context.Context, jsonData []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cw.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cw.apiKey)

	resp, err := cw.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &statusError{code: resp.StatusCode, body: string(body)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	content := chatResp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errors.New("empty message content")
	}

	return content, nil
}

// retryable reports whether a failed call may succeed if repeated.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// decodeJSON parses model output, tolerating one surrounding Markdown
// code fence.
func decodeJSON(content string, v interface{}) error {
	return json.Unmarshal([]byte(stripCodeFence(content)), v)
}

func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	// drop the language tag line, e.g. ```json
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "[{") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}
