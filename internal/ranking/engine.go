// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ranking fuses integrity, LLM, citation, recency, and author
// signals into one ordered, explained list of papers.
// Implements: prd003-ranking (R1-R5);
//
//	docs/ARCHITECTURE § Ranking.
package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/pdiddy/pubrank/pkg/types"
)

// Weights are the relative contributions of each component to the final
// score. They must sum to 1; integrity and LLM dominate since they are
// the trust-relevant axes.
type Weights struct {
	Citation  float64
	Recency   float64
	Author    float64
	Integrity float64
	LLM       float64
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Citation:  0.20,
		Recency:   0.10,
		Author:    0.15,
		Integrity: 0.25,
		LLM:       0.30,
	}
}

// Input pairs a paper with its analysis results. Nil results fall back
// to neutral defaults so a paper that skipped analysis still ranks
// (R1.2): integrity {50, MEDIUM, no flags}, llm {5,5,5,false}.
type Input struct {
	Paper     types.Paper
	Integrity *types.IntegrityResult
	LLM       *types.LlmEvaluation
}

// excellentRate is the citations-per-year rate that maps to a citation
// score of ~100 on the log scale.
const excellentRate = 50

// Engine computes component scores and the weighted final ordering.
type Engine struct {
	weights     Weights
	currentYear int
}

// NewEngine builds an Engine. currentYear 0 means time.Now().Year();
// tests pin it for determinism.
func NewEngine(weights Weights, currentYear int) *Engine {
	if currentYear == 0 {
		currentYear = time.Now().Year()
	}
	return &Engine{weights: weights, currentYear: currentYear}
}

// Rank scores every input, sorts descending by final score, and assigns
// sequential 1-based ranks. Ties retain input order (stable sort), so
// identical inputs always produce an identical ordering (R4.1, R4.2).
// The author, when present, contributes one shared reputation score to
// every paper in the set.
func (e *Engine) Rank(inputs []Input, author *types.Author) []types.ScoredPaper {
	authorScore := e.authorReputation(author)

	scored := make([]types.ScoredPaper, 0, len(inputs))
	for _, in := range inputs {
		integrity := types.IntegrityResult{Score: 50, RiskLevel: types.RiskMedium}
		if in.Integrity != nil {
			integrity = *in.Integrity
		}
		llm := types.LlmEvaluation{
			QualityScore:     5,
			CredibilityScore: 5,
			RelevanceScore:   5,
			Reason:           "Not evaluated",
		}
		if in.LLM != nil {
			llm = *in.LLM
		}

		components := types.ComponentScores{
			Citation:  e.citationScore(in.Paper),
			Recency:   e.recencyBonus(in.Paper),
			Author:    authorScore,
			Integrity: float64(integrity.Score),
			LLM:       llmWeight(llm),
		}

		final := components.Citation*e.weights.Citation +
			components.Recency*e.weights.Recency +
			components.Author*e.weights.Author +
			components.Integrity*e.weights.Integrity +
			components.LLM*e.weights.LLM
		final = math.Round(final*100) / 100

		scored = append(scored, types.ScoredPaper{
			Paper:       in.Paper,
			Integrity:   integrity,
			LLM:         llm,
			Components:  components,
			FinalScore:  final,
			Explanation: explanation(in.Paper, integrity.RiskLevel, components),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

// citationScore normalizes citations per year to 0-100 on a log scale
// (R2.1). A paper without a year falls back to a tenth of its raw
// citation count, deliberately unnormalized so dateless but heavily
// cited work is not erased.
func (e *Engine) citationScore(paper types.Paper) float64 {
	citations := float64(paper.Citations())

	year, ok := paper.PubYear()
	if !ok {
		return citations * 0.1
	}

	age := float64(e.currentYear - year)
	if age < 1 {
		age = 1
	}
	rate := citations / age

	return math.Min(100, math.Log(rate+1)/math.Log(excellentRate+1)*100)
}

// recencyBonus awards 20 points to papers at most 2 years old, 10 up to
// 5 years, 0 otherwise (R2.2).
func (e *Engine) recencyBonus(paper types.Paper) float64 {
	year, ok := paper.PubYear()
	if !ok {
		return 0
	}
	age := e.currentYear - year
	switch {
	case age <= 2:
		return 20
	case age <= 5:
		return 10
	default:
		return 0
	}
}

// authorReputation combines log-scaled citations with h-index, capped
// at 100. A missing author reads as a neutral 50 (R2.3).
func (e *Engine) authorReputation(author *types.Author) float64 {
	if author == nil {
		return 50
	}
	citations := float64(author.Citations())
	hIndex := float64(author.HIndex())
	return math.Min(100, math.Log(citations+1)*5+hIndex*2)
}

// llmWeight collapses the three 0-10 LLM scores into one 0-100 value,
// weighting quality and credibility above relevance, then halves it for
// suspicious papers (R2.4).
func llmWeight(llm types.LlmEvaluation) float64 {
	score := (llm.QualityScore*2 + llm.CredibilityScore*2 + llm.RelevanceScore*1.5) / 5.5
	score *= 10
	if llm.Suspicious {
		score *= 0.5
	}
	return math.Min(100, score)
}

// TopPapers returns the first n entries of an already-ranked list,
// filtered first by a minimum final score; pass minScore <= 0 to
// disable the filter (R5.1). Rank order of the surviving subset is
// preserved.
func TopPapers(papers []types.ScoredPaper, n int, minScore float64) []types.ScoredPaper {
	filtered := papers
	if minScore > 0 {
		filtered = make([]types.ScoredPaper, 0, len(papers))
		for _, p := range papers {
			if p.FinalScore >= minScore {
				filtered = append(filtered, p)
			}
		}
	}
	if n < len(filtered) {
		filtered = filtered[:n]
	}
	return filtered
}

// PapersByRisk returns the entries whose integrity risk tier exactly
// matches (R5.2).
func PapersByRisk(papers []types.ScoredPaper, risk types.RiskLevel) []types.ScoredPaper {
	var out []types.ScoredPaper
	for _, p := range papers {
		if p.Integrity.RiskLevel == risk {
			out = append(out, p)
		}
	}
	return out
}
