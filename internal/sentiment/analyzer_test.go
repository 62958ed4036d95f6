package sentiment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billsense/internal/config"
	"billsense/internal/sentiment"
)

func newTestAnalyzer(endpoint string) *sentiment.Analyzer {
	return sentiment.NewAnalyzer(&config.SentimentConfig{
		APIKey:       "test-key",
		DefaultModel: "test-model",
		Endpoint:     endpoint,
	})
}

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]string{"content": content},
				"finish_reason": "stop",
			},
		},
	})
	return string(body)
}

func TestAnalyze_Success(t *testing.T) {
	var gotReq map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatResponse(`{
			"past_status": "none",
			"current_status": "improving",
			"relationship_trend": "Rising",
			"sentiment_score": 0.82,
			"sentiment": "Positive",
			"communication_clarity": "clear",
			"response_pattern": "prompt",
			"key_notes": ["pays quickly", "responsive"]
		}`)))
	}))
	defer server.Close()

	a := newTestAnalyzer(server.URL)
	result, err := a.Analyze(context.Background(), "Payment confirmed, thanks!")

	require.NoError(t, err)
	assert.Equal(t, 0.82, result.SentimentScore)
	assert.Equal(t, "Rising", result.RelationshipTrend)
	assert.Equal(t, []string{"pays quickly", "responsive"}, result.KeyNotes)

	assert.Equal(t, "test-model", gotReq["model"])
	assert.Equal(t, 0.0, gotReq["temperature"])
	rf, ok := gotReq["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_object", rf["type"])
}

func TestAnalyze_EmptyComments(t *testing.T) {
	a := newTestAnalyzer("http://localhost:1")

	result, err := a.Analyze(context.Background(), "")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, sentiment.ErrNoText)
}

func TestAnalyze_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	a := newTestAnalyzer(server.URL)
	result, err := a.Analyze(context.Background(), "hello")

	assert.Nil(t, result)
	var rateErr *sentiment.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 7*time.Second, rateErr.RetryAfter)
}

func TestAnalyze_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := newTestAnalyzer(server.URL)
	_, err := a.Analyze(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestAnalyze_NonJSONModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatResponse("I am sorry, I cannot produce JSON today.")))
	}))
	defer server.Close()

	a := newTestAnalyzer(server.URL)
	_, err := a.Analyze(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing model JSON output")
}

func TestAnalyze_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	a := newTestAnalyzer(server.URL)
	_, err := a.Analyze(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestAnalyze_TruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{\"sent"}, "finish_reason": "length"}]}`))
	}))
	defer server.Close()

	a := newTestAnalyzer(server.URL)
	_, err := a.Analyze(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "finish_reason: length")
}

func TestAnalyzeWithHistory_IncludesPastContext(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		prompt = req.Messages[0].Content
		_, _ = w.Write([]byte(chatResponse(`{"sentiment_score": 0.4, "current_status": "declining"}`)))
	}))
	defer server.Close()

	a := newTestAnalyzer(server.URL)
	result, err := a.AnalyzeWithHistory(context.Background(),
		"still waiting on payment", "client was cooperative", "stable")

	require.NoError(t, err)
	assert.Equal(t, 0.4, result.SentimentScore)
	assert.Contains(t, prompt, "still waiting on payment")
	assert.Contains(t, prompt, "client was cooperative")
	assert.Contains(t, prompt, "stable")
}
