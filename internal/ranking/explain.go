// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"fmt"
	"strings"

	"github.com/pdiddy/pubrank/pkg/types"
)

// maxPhrases caps how many component phrases one explanation carries.
const maxPhrases = 3

// explanation builds the human-readable ranking rationale: up to three
// phrases in fixed priority order (citation, recency, integrity, LLM,
// author), each emitted only when its threshold is met (R3.1-R3.3).
func explanation(paper types.Paper, risk types.RiskLevel, c types.ComponentScores) string {
	var phrases []string

	citations := paper.Citations()
	switch {
	case c.Citation > 70:
		phrases = append(phrases, fmt.Sprintf("High citation rate (%d citations)", citations))
	case c.Citation < 30:
		phrases = append(phrases, fmt.Sprintf("Low citation count (%d)", citations))
	}

	switch {
	case c.Recency >= 20:
		phrases = append(phrases, "Very recent publication")
	case c.Recency >= 10:
		phrases = append(phrases, "Recent publication")
	}

	switch {
	case c.Integrity >= 75:
		phrases = append(phrases, "High integrity score")
	case c.Integrity < 50:
		phrases = append(phrases, fmt.Sprintf("Integrity concerns (%s risk)", risk))
	}

	switch {
	case c.LLM >= 70:
		phrases = append(phrases, "High quality assessment")
	case c.LLM < 40:
		phrases = append(phrases, "Quality concerns")
	}

	if c.Author >= 70 {
		phrases = append(phrases, "Reputable author")
	}

	if len(phrases) == 0 {
		return "Average across all metrics"
	}
	if len(phrases) > maxPhrases {
		phrases = phrases[:maxPhrases]
	}
	return strings.Join(phrases, " • ")
}
