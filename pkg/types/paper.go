// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubrank pipeline.
// Implements: prd001-integrity (IntegrityResult, R3.1-R3.4);
//
//	prd002-llm-eval (LlmEvaluation, R2.1-R2.3);
//	prd003-ranking (ScoredPaper, ComponentScores, R1.1-R1.5).
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

// Paper holds publication metadata supplied by the caller. The core never
// mutates a Paper; derived results are attached on ScoredPaper instead.
//
// Source APIs disagree on field names (OpenAlex uses cited_by_count and
// publication_year, Semantic Scholar uses citationCount and year), so both
// spellings are accepted and the accessor methods normalize them. Per
// prd001-integrity R1.2.
type Paper struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, if available.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Year is the publication year (Semantic Scholar spelling).
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// PublicationYear is the publication year (OpenAlex spelling).
	PublicationYear int `json:"publication_year,omitempty" yaml:"publication_year,omitempty"`

	// CitedByCount is the citation count (OpenAlex spelling).
	CitedByCount int `json:"cited_by_count,omitempty" yaml:"cited_by_count,omitempty"`

	// CitationCount is the citation count (Semantic Scholar spelling).
	CitationCount int `json:"citationCount,omitempty" yaml:"citation_count,omitempty"`

	// Venue is the publication venue or journal name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Journal is an alternative spelling for the venue.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// DOI is the digital object identifier, if known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// PubYear returns the publication year, preferring Year over
// PublicationYear. ok is false when neither field is set.
func (p Paper) PubYear() (year int, ok bool) {
	if p.Year != 0 {
		return p.Year, true
	}
	if p.PublicationYear != 0 {
		return p.PublicationYear, true
	}
	return 0, false
}

// Citations returns the citation count, preferring CitedByCount over
// CitationCount. Missing counts read as zero.
func (p Paper) Citations() int {
	if p.CitedByCount != 0 {
		return p.CitedByCount
	}
	return p.CitationCount
}

// VenueName returns the venue, preferring Venue over Journal.
func (p Paper) VenueName() string {
	if p.Venue != "" {
		return p.Venue
	}
	return p.Journal
}

// Author holds the statistics used for reputation scoring. Both OpenAlex
// and Semantic Scholar spellings are accepted.
type Author struct {
	// CitedByCount is the author's total citation count (OpenAlex spelling).
	CitedByCount int `json:"cited_by_count,omitempty" yaml:"cited_by_count,omitempty"`

	// CitationCount is the author's total citation count (Semantic Scholar spelling).
	CitationCount int `json:"citationCount,omitempty" yaml:"citation_count,omitempty"`

	// HIndexSnake is the author's h-index (OpenAlex spelling).
	HIndexSnake int `json:"h_index,omitempty" yaml:"h_index,omitempty"`

	// HIndexCamel is the author's h-index (Semantic Scholar spelling).
	HIndexCamel int `json:"hIndex,omitempty" yaml:"h_index_camel,omitempty"`
}

// Citations returns the author citation count across both spellings.
func (a Author) Citations() int {
	if a.CitedByCount != 0 {
		return a.CitedByCount
	}
	return a.CitationCount
}

// HIndex returns the author h-index across both spellings.
func (a Author) HIndex() int {
	if a.HIndexSnake != 0 {
		return a.HIndexSnake
	}
	return a.HIndexCamel
}

// RiskLevel is the coarse trust bucket derived from an integrity score.
// Per prd001-integrity R3.3.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskFromScore maps a clamped integrity score onto a risk tier:
// 75 and above is LOW, 50-74 is MEDIUM, below 50 is HIGH.
func RiskFromScore(score int) RiskLevel {
	switch {
	case score >= 75:
		return RiskLow
	case score >= 50:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// IntegrityResult is the outcome of the deterministic integrity analysis
// for one paper. Immutable once computed. Per prd001-integrity R3.
type IntegrityResult struct {
	// Score is the rule-based trust estimate, clamped to [0,100].
	Score int `json:"integrity_score" yaml:"integrity_score"`

	// RiskLevel is the tier derived from Score.
	RiskLevel RiskLevel `json:"risk_level" yaml:"risk_level"`

	// Flags lists every triggered rule in rule-definition order. Flags
	// accumulate independently and are never truncated.
	Flags []string `json:"flags" yaml:"flags"`

	// ExternallyVerified reports whether the title was found in CrossRef.
	ExternallyVerified bool `json:"crossref_verified" yaml:"crossref_verified"`
}

// LlmEvaluation holds the normalized subscores parsed from a model
// response. Immutable once computed. Per prd002-llm-eval R2.
type LlmEvaluation struct {
	// QualityScore rates methodology, clarity, and contribution, 0-10.
	QualityScore float64 `json:"quality_score" yaml:"quality_score"`

	// CredibilityScore rates venue reputation and citation patterns, 0-10.
	CredibilityScore float64 `json:"credibility_score" yaml:"credibility_score"`

	// RelevanceScore rates relevance to the search query, 0-10.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// Suspicious is true when the model flags signs of predatory
	// publishing or misconduct.
	Suspicious bool `json:"suspicious" yaml:"suspicious"`

	// Reason is the model's one-line assessment, truncated to 200 characters.
	Reason string `json:"reason" yaml:"reason"`
}

// ComponentScores holds the per-signal scores that feed the final score.
// Per prd003-ranking R2.1-R2.5.
type ComponentScores struct {
	Citation  float64 `json:"citation" yaml:"citation"`
	Recency   float64 `json:"recency" yaml:"recency"`
	Author    float64 `json:"author" yaml:"author"`
	Integrity float64 `json:"integrity" yaml:"integrity"`
	LLM       float64 `json:"llm" yaml:"llm"`
}

// ScoredPaper is a paper with its analysis results, component scores,
// composite final score, dense 1-based rank, and explanation attached.
// Per prd003-ranking R1.4, R4.1.
type ScoredPaper struct {
	Paper `yaml:",inline"`

	// Integrity is the deterministic analysis result.
	Integrity IntegrityResult `json:"integrity" yaml:"integrity"`

	// LLM is the model evaluation result.
	LLM LlmEvaluation `json:"llm" yaml:"llm"`

	// Components holds the individual signal scores.
	Components ComponentScores `json:"score_components" yaml:"score_components"`

	// FinalScore is the weighted composite on a 0-100 scale.
	FinalScore float64 `json:"final_score" yaml:"final_score"`

	// Rank is the dense 1-based position after sorting by FinalScore.
	Rank int `json:"rank" yaml:"rank"`

	// Explanation is a short human-readable ranking rationale.
	Explanation string `json:"rank_explanation" yaml:"rank_explanation"`
}
