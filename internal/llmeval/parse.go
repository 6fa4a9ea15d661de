// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llmeval

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pdiddy/pubrank/pkg/types"
)

// reasonLimit caps the length of the model's free-text reason.
const reasonLimit = 200

// DefaultEvaluation returns the neutral mid-scale evaluation used when
// the model cannot be consulted or its response cannot be parsed (R3.5).
func DefaultEvaluation(reason string) types.LlmEvaluation {
	return types.LlmEvaluation{
		QualityScore:     5,
		CredibilityScore: 5,
		RelevanceScore:   5,
		Reason:           reason,
	}
}

// ParseResponse extracts a structured evaluation from the model's raw
// text. Markdown code fences are stripped, then the substring between
// the first '{' and the last '}' is decoded. Scores are clamped to
// [0,10] and default to 5 when absent; any unparseable payload yields
// DefaultEvaluation("Unable to evaluate") (R2.3, R2.4).
func ParseResponse(text string) types.LlmEvaluation {
	fallback := DefaultEvaluation("Unable to evaluate")

	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}

	if strings.HasPrefix(text, "```") {
		parts := strings.Split(text, "```")
		if len(parts) < 2 {
			return fallback
		}
		text = parts[1]
		text = strings.TrimPrefix(text, "json")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fallback
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return fallback
	}

	quality, ok := scoreField(raw, "quality_score")
	if !ok {
		return fallback
	}
	credibility, ok := scoreField(raw, "credibility_score")
	if !ok {
		return fallback
	}
	relevance, ok := scoreField(raw, "relevance_score")
	if !ok {
		return fallback
	}

	suspicious, _ := raw["suspicious"].(bool)

	reason := "No reason provided"
	if v, present := raw["reason"]; present {
		if s, isStr := v.(string); isStr {
			reason = s
		}
	}
	if runes := []rune(reason); len(runes) > reasonLimit {
		reason = string(runes[:reasonLimit])
	}

	return types.LlmEvaluation{
		QualityScore:     quality,
		CredibilityScore: credibility,
		RelevanceScore:   relevance,
		Suspicious:       suspicious,
		Reason:           reason,
	}
}

// scoreField reads one score, coercing numbers and numeric strings and
// clamping to [0,10]. A missing field reads as 5; a value that cannot
// be coerced fails the whole parse.
func scoreField(raw map[string]any, key string) (float64, bool) {
	v, present := raw[key]
	if !present {
		return 5, true
	}

	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if val {
			f = 1
		}
	default:
		return 0, false
	}

	if f < 0 {
		f = 0
	}
	if f > 10 {
		f = 10
	}
	return f, true
}
