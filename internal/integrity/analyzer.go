// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package integrity scores papers against predatory-publishing heuristics.
// Implements: prd001-integrity (R1-R4);
//
//	docs/ARCHITECTURE § Integrity.
package integrity

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/pubrank/pkg/types"
)

// Verifier checks whether a title exists in an external bibliographic
// index. verify.Client satisfies it; tests substitute a stub.
type Verifier interface {
	Verify(ctx context.Context, title string) bool
}

// Analyzer applies the integrity ruleset to papers. A nil Verifier skips
// the external check entirely: no penalty, ExternallyVerified false.
type Analyzer struct {
	rules    Ruleset
	verifier Verifier
}

// NewAnalyzer builds an Analyzer with the given rules and verifier.
func NewAnalyzer(rules Ruleset, verifier Verifier) *Analyzer {
	return &Analyzer{rules: rules, verifier: verifier}
}

// DefaultResult is substituted when per-paper analysis panics: a neutral
// medium-risk score so one bad record never sinks the batch (R4.2).
func DefaultResult() types.IntegrityResult {
	return types.IntegrityResult{
		Score:     50,
		RiskLevel: types.RiskMedium,
		Flags:     []string{"Analysis failed"},
	}
}

// acronymRe matches 4-6 letter all-uppercase tokens in a venue name.
var acronymRe = regexp.MustCompile(`\b[A-Z]{4,6}\b`)

// Analyze scores one paper. It starts from 100, deducts the ruleset
// penalty for each heuristic that fires, and clamps to [0,100]. Flags
// are appended in rule order: verification, citation anomalies, venue,
// title checks, DOI (R2.5). Analyze never fails; a paper with no
// metadata at all still yields a scored result.
func (a *Analyzer) Analyze(ctx context.Context, paper types.Paper) types.IntegrityResult {
	score := 100
	var flags []string

	title := strings.TrimSpace(paper.Title)

	verified := false
	if a.verifier != nil && title != "" {
		verified = a.verifier.Verify(ctx, title)
		if !verified {
			score -= a.rules.Penalties.Unverified
			flags = append(flags, "Not found in CrossRef database")
		}
	}

	if flag, ok := a.citationAnomaly(paper); ok {
		score -= a.rules.Penalties.CitationAnomaly
		flags = append(flags, flag)
	}

	if reason, ok := a.venueSuspicious(paper.VenueName()); ok {
		score -= a.rules.Penalties.SuspiciousVenue
		flags = append(flags, reason)
	}

	switch {
	case title == "":
		score -= a.rules.Penalties.MissingTitle
		flags = append(flags, "Missing title")
	default:
		if len(strings.Fields(title)) < a.rules.MinTitleWords {
			score -= a.rules.Penalties.ShortTitle
			flags = append(flags, "Title too short (< 3 words)")
		}
		if n := a.buzzwordCount(title); n > a.rules.MaxBuzzwords {
			score -= a.rules.Penalties.ExcessBuzzwords
			flags = append(flags, fmt.Sprintf("Excessive buzzwords (%d)", n))
		}
		if a.titleRepetitive(title) {
			score -= a.rules.Penalties.WordRepetition
			flags = append(flags, "Excessive word repetition in title")
		}
	}

	if strings.TrimSpace(paper.DOI) == "" {
		score -= a.rules.Penalties.MissingDOI
		flags = append(flags, "Missing DOI")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return types.IntegrityResult{
		Score:              score,
		RiskLevel:          types.RiskFromScore(score),
		Flags:              flags,
		ExternallyVerified: verified,
	}
}

// AnalyzeBatch analyzes papers concurrently and returns results in input
// order. A panic while analyzing one paper is contained to that slot and
// replaced with DefaultResult (R4.1, R4.2).
func (a *Analyzer) AnalyzeBatch(ctx context.Context, papers []types.Paper) []types.IntegrityResult {
	results := make([]types.IntegrityResult, len(papers))
	done := make(chan int, len(papers))

	for i, paper := range papers {
		go func(i int, paper types.Paper) {
			defer func() {
				if r := recover(); r != nil {
					results[i] = DefaultResult()
				}
				done <- i
			}()
			results[i] = a.Analyze(ctx, paper)
		}(i, paper)
	}
	for range papers {
		<-done
	}
	return results
}

// citationAnomaly reports the first implausible citation/age pattern:
// more than 500 citations within a year of publication, or zero
// citations after 8+ years. Papers without a year are never anomalous.
func (a *Analyzer) citationAnomaly(paper types.Paper) (string, bool) {
	year, ok := paper.PubYear()
	if !ok {
		return "", false
	}
	current := a.rules.CurrentYear
	if current == 0 {
		current = time.Now().Year()
	}
	age := current - year
	citations := paper.Citations()

	if age <= a.rules.HighCitationAge && citations > a.rules.HighCitationCount {
		return fmt.Sprintf("Suspiciously high citations (%d) for %d-year-old paper", citations, age), true
	}
	if age >= a.rules.StaleAge && citations == 0 {
		return fmt.Sprintf("No citations after %d years", age), true
	}
	return "", false
}

// venueSuspicious matches the venue against the three predatory
// patterns in order: known name fragments, fragment pairs, and
// denylisted acronyms. The returned reason names the pattern that
// matched.
func (a *Analyzer) venueSuspicious(venue string) (string, bool) {
	if venue == "" {
		return "", false
	}
	lower := strings.ToLower(venue)

	for _, fragment := range a.rules.SuspiciousVenues {
		if strings.Contains(lower, fragment) {
			return fmt.Sprintf("Suspicious venue pattern: '%s'", fragment), true
		}
	}
	for _, pair := range a.rules.PredatoryPairs {
		if strings.Contains(lower, pair[0]) && strings.Contains(lower, pair[1]) {
			return "Predatory journal pattern detected", true
		}
	}
	for _, token := range acronymRe.FindAllString(venue, -1) {
		for _, acronym := range a.rules.AcronymDenylist {
			if token == acronym {
				return fmt.Sprintf("Known predatory journal acronym: %s", token), true
			}
		}
	}
	return "", false
}

// buzzwordCount counts distinct buzzwords present in the title
// (case-insensitive substring match).
func (a *Analyzer) buzzwordCount(title string) int {
	lower := strings.ToLower(title)
	n := 0
	for _, word := range a.rules.Buzzwords {
		if strings.Contains(lower, word) {
			n++
		}
	}
	return n
}

// titleRepetitive reports whether words longer than LongWordLen repeat
// excessively: fewer than RepetitionRatio of them are unique.
func (a *Analyzer) titleRepetitive(title string) bool {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if len(w) > a.rules.LongWordLen {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return false
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) < float64(len(words))*a.rules.RepetitionRatio
}
