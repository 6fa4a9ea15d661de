// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llmeval

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubrank/pkg/types"
)

func testCfg() types.LLMConfig {
	return types.LLMConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		APIKey:     "hf_test_token",
	}
}

// withServer points routerURL at an httptest server for the test's duration.
func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := routerURL
	routerURL = ts.URL
	t.Cleanup(func() {
		routerURL = old
		ts.Close()
	})
}

// completion wraps content in the chat-completion response envelope.
func completion(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return body
}

func testPaper() types.Paper {
	return types.Paper{
		Title:        "Measuring Index Freshness",
		Abstract:     "We study index staleness under concurrent writes.",
		Venue:        "VLDB",
		Year:         2021,
		CitedByCount: 42,
	}
}

func TestEvaluateSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write(completion(`{"quality_score": 8, "credibility_score": 7, "relevance_score": 9, "suspicious": false, "reason": "Strong paper."}`))
	})

	e := NewEvaluator(testCfg(), io.Discard)
	got := e.Evaluate(context.Background(), testPaper(), "database indexing")

	assert.Equal(t, types.LlmEvaluation{
		QualityScore:     8,
		CredibilityScore: 7,
		RelevanceScore:   9,
		Reason:           "Strong paper.",
	}, got)

	assert.Equal(t, "Bearer hf_test_token", gotAuth)
	assert.Equal(t, defaultModel, gotReq.Model)
	assert.Equal(t, defaultMaxTokens, gotReq.MaxTokens)
	assert.Equal(t, defaultTemperature, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, systemPrompt, gotReq.Messages[0].Content)
	assert.Contains(t, gotReq.Messages[1].Content, "TITLE: Measuring Index Freshness")
	assert.Contains(t, gotReq.Messages[1].Content, "SEARCH QUERY: database indexing")
}

func TestEvaluateFencedResponse(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(completion("```json\n{\"quality_score\": 6, \"credibility_score\": 6, \"relevance_score\": 4, \"suspicious\": true, \"reason\": \"Venue looks predatory.\"}\n```"))
	})

	e := NewEvaluator(testCfg(), io.Discard)
	got := e.Evaluate(context.Background(), testPaper(), "")
	assert.True(t, got.Suspicious)
	assert.Equal(t, 6.0, got.QualityScore)
}

func TestEvaluateNoToken(t *testing.T) {
	called := false
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.Write(completion(`{}`))
	})

	cfg := testCfg()
	cfg.APIKey = ""
	e := NewEvaluator(cfg, io.Discard)

	got := e.Evaluate(context.Background(), testPaper(), "")
	assert.Equal(t, DefaultEvaluation(ReasonNoToken), got)
	assert.False(t, called, "must not call the API without a token")
}

func TestEvaluateQuotaExhausted(t *testing.T) {
	var calls int32
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	e := NewEvaluator(testCfg(), io.Discard)
	got := e.Evaluate(context.Background(), testPaper(), "")

	assert.Equal(t, DefaultEvaluation(ReasonQuotaExhausted), got)
	// Quota errors are terminal: no retry loop against a depleted account.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestEvaluateRejectedTokenWarns(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var log bytes.Buffer
	e := NewEvaluator(testCfg(), &log)
	got := e.Evaluate(context.Background(), testPaper(), "")

	assert.Equal(t, DefaultEvaluation(ReasonBadToken), got)
	assert.Contains(t, log.String(), "token rejected")
}

func TestEvaluateServerError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	e := NewEvaluator(testCfg(), io.Discard)
	got := e.Evaluate(context.Background(), testPaper(), "")
	assert.Equal(t, DefaultEvaluation(ReasonCallFailed), got)
}

func TestEvaluateEmptyChoices(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})

	e := NewEvaluator(testCfg(), io.Discard)
	got := e.Evaluate(context.Background(), testPaper(), "")
	assert.Equal(t, DefaultEvaluation(ReasonCallFailed), got)
}

func TestEvaluateRefusalDegrades(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(completion("I cannot evaluate this."))
	})

	e := NewEvaluator(testCfg(), io.Discard)
	got := e.Evaluate(context.Background(), testPaper(), "")
	assert.Equal(t, DefaultEvaluation("Unable to evaluate"), got)
}

func TestEvaluateBatchPreservesOrder(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		// Echo a score derived from the paper so order is observable.
		score := "3"
		if bytes.Contains([]byte(req.Messages[1].Content), []byte("Second")) {
			score = "9"
		}
		w.Write(completion(`{"quality_score": ` + score + `, "reason": "ok"}`))
	})

	e := NewEvaluator(testCfg(), io.Discard)
	papers := []types.Paper{
		{Title: "First Paper"},
		{Title: "Second Paper"},
		{Title: "Third Paper"},
	}
	results := e.EvaluateBatch(context.Background(), papers, "")

	require.Len(t, results, 3)
	assert.Equal(t, 3.0, results[0].QualityScore)
	assert.Equal(t, 9.0, results[1].QualityScore)
	assert.Equal(t, 3.0, results[2].QualityScore)
}

func TestEvaluateBatchSubstitutesFailedItem(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if bytes.Contains([]byte(req.Messages[1].Content), []byte("Second")) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(completion(`{"quality_score": 8, "reason": "ok"}`))
	})

	cfg := testCfg()
	cfg.MaxConcurrent = 2
	e := NewEvaluator(cfg, io.Discard)

	papers := []types.Paper{
		{Title: "First Paper"},
		{Title: "Second Paper"},
		{Title: "Third Paper"},
	}
	results := e.EvaluateBatch(context.Background(), papers, "")

	require.Len(t, results, 3)
	assert.Equal(t, 8.0, results[0].QualityScore)
	assert.Equal(t, DefaultEvaluation(ReasonCallFailed), results[1])
	assert.Equal(t, 8.0, results[2].QualityScore)
}

func TestEvaluateBatchBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.Write(completion(`{"quality_score": 5, "reason": "ok"}`))
	})

	cfg := testCfg()
	cfg.MaxConcurrent = 2
	e := NewEvaluator(cfg, io.Discard)

	papers := make([]types.Paper, 8)
	for i := range papers {
		papers[i] = types.Paper{Title: "Concurrency Probe Paper"}
	}
	results := e.EvaluateBatch(context.Background(), papers, "")

	assert.Len(t, results, 8)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestEvaluateBatchEmpty(t *testing.T) {
	e := NewEvaluator(testCfg(), io.Discard)
	assert.Empty(t, e.EvaluateBatch(context.Background(), nil, ""))
}
