// Package sentiment evaluates communication tone through a language-model
// completion endpoint. The model must return strict JSON; anything else is an
// error for the caller to degrade on.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"billsense/internal/config"
	"billsense/internal/domain"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

// ErrNoText is returned when there is no communication text to analyze.
var ErrNoText = errors.New("no text provided for analysis")

// Analyzer implements port.SentimentAnalyzer using the OpenAI Chat
// Completions API.
type Analyzer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAnalyzer creates an OpenAI-backed sentiment analyzer. A non-empty
// cfg.Endpoint overrides the API URL (used in tests).
func NewAnalyzer(cfg *config.SentimentConfig) *Analyzer {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Analyzer{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Analyze evaluates a block of communication text and returns the model's
// structured sentiment reading.
func (a *Analyzer) Analyze(ctx context.Context, comments string) (*domain.SentimentAnalysis, error) {
	return a.analyze(ctx, comments, "", "")
}

// AnalyzeWithHistory evaluates text against the customer's previous summary
// and status, letting the model judge improvement or decline.
func (a *Analyzer) AnalyzeWithHistory(ctx context.Context, comments, pastSummary, pastStatus string) (*domain.SentimentAnalysis, error) {
	return a.analyze(ctx, comments, pastSummary, pastStatus)
}

func (a *Analyzer) analyze(ctx context.Context, comments, pastSummary, pastStatus string) (*domain.SentimentAnalysis, error) {
	if comments == "" {
		return nil, ErrNoText
	}

	reqBody := map[string]interface{}{
		"model":       a.model,
		"temperature": 0.0,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": buildPrompt(comments, pastSummary, pastStatus),
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling sentiment API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("sentiment API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, NewRateLimitError(baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (*domain.SentimentAnalysis, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}
	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length)")
	}

	text := resp.Choices[0].Message.Content

	var analysis domain.SentimentAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, truncate(text, 500))
	}
	return &analysis, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
