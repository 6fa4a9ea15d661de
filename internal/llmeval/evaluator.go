// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llmeval scores papers for quality, credibility, and relevance
// with a chat-completion model behind the Hugging Face router.
// Implements: prd002-llm-eval (R1-R4);
//
//	docs/ARCHITECTURE § LLM Evaluation.
package llmeval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/pubrank/internal/httputil"
	"github.com/pdiddy/pubrank/pkg/types"
)

// routerURL is the Hugging Face router's chat-completion endpoint.
// Declared as a var so tests can substitute an httptest server.
var routerURL = "https://router.huggingface.co/v1/chat/completions"

const (
	defaultModel         = "HuggingFaceTB/SmolLM3-3B:hf-inference"
	defaultTimeout       = 30 * time.Second
	defaultMaxTokens     = 500
	defaultTemperature   = 0.3
	defaultMaxConcurrent = 5

	systemPrompt = "You are an academic reviewer. Return only valid JSON, no markdown."
)

// Degrade reasons reported in the evaluation when the model cannot be
// consulted. Callers match on these to explain missing LLM signal.
const (
	ReasonNoToken        = "LLM evaluation unavailable (no API token)"
	ReasonQuotaExhausted = "HuggingFace API credits depleted - purchase credits or subscribe to PRO"
	ReasonBadToken       = "LLM evaluation unavailable (API token rejected)"
	ReasonCallFailed     = "LLM evaluation failed"
)

// Evaluator calls the chat-completion API. Evaluate never returns an
// error: every failure mode degrades to a neutral evaluation whose
// Reason names the cause (R3.1-R3.5).
type Evaluator struct {
	http        *http.Client
	model       string
	apiKey      string
	maxTokens   int
	temperature float64
	maxSlots    int
	log         io.Writer
}

// NewEvaluator builds an Evaluator from config, applying defaults for
// unset fields. Progress and warnings are written to w; pass io.Discard
// to silence them.
func NewEvaluator(cfg types.LLMConfig, w io.Writer) *Evaluator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	maxSlots := cfg.MaxConcurrent
	if maxSlots <= 0 {
		maxSlots = defaultMaxConcurrent
	}
	if w == nil {
		w = io.Discard
	}
	return &Evaluator{
		http:        &http.Client{Timeout: timeout},
		model:       model,
		apiKey:      cfg.APIKey,
		maxTokens:   maxTokens,
		temperature: temperature,
		maxSlots:    maxSlots,
		log:         w,
	}
}

// chatRequest is the request body for the chat-completion endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the slice of the completion payload we read.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Evaluate scores one paper, optionally against a search query for the
// relevance dimension. Without an API key the model is never called and
// the neutral evaluation carries ReasonNoToken (R3.1).
func (e *Evaluator) Evaluate(ctx context.Context, paper types.Paper, query string) types.LlmEvaluation {
	if e.apiKey == "" {
		return DefaultEvaluation(ReasonNoToken)
	}

	prompt, err := renderPrompt(paper, query)
	if err != nil {
		return DefaultEvaluation(ReasonCallFailed)
	}

	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return DefaultEvaluation(ReasonCallFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, routerURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return DefaultEvaluation(ReasonCallFailed)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	res := httputil.Call(ctx, e.http, req, 0)
	switch res.Outcome {
	case httputil.OutcomeQuota:
		return DefaultEvaluation(ReasonQuotaExhausted)
	case httputil.OutcomeUnauthorized:
		fmt.Fprintf(e.log, "warning: LLM API token rejected (HTTP %d)\n", res.Status)
		return DefaultEvaluation(ReasonBadToken)
	case httputil.OutcomeTransient:
		return DefaultEvaluation(ReasonCallFailed)
	}

	var cr chatResponse
	if err := json.Unmarshal(res.Body, &cr); err != nil {
		return DefaultEvaluation(ReasonCallFailed)
	}
	if len(cr.Choices) == 0 {
		return DefaultEvaluation(ReasonCallFailed)
	}
	return ParseResponse(cr.Choices[0].Message.Content)
}

// EvaluateBatch evaluates papers concurrently, admitting at most
// MaxConcurrent in-flight model calls, and returns results in input
// order. A panic while evaluating one paper is contained to its slot
// (R4.1-R4.3).
func (e *Evaluator) EvaluateBatch(ctx context.Context, papers []types.Paper, query string) []types.LlmEvaluation {
	results := make([]types.LlmEvaluation, len(papers))
	slots := make(chan struct{}, e.maxSlots)
	done := make(chan int, len(papers))

	for i, paper := range papers {
		go func(i int, paper types.Paper) {
			slots <- struct{}{}
			defer func() {
				<-slots
				if r := recover(); r != nil {
					results[i] = DefaultEvaluation("Evaluation failed")
				}
				done <- i
			}()
			results[i] = e.Evaluate(ctx, paper, query)
		}(i, paper)
	}
	for range papers {
		<-done
	}
	return results
}
