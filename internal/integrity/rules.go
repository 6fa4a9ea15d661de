// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

// Penalties groups the per-rule point deductions so tests can assert
// exact amounts. All penalties are additive; the final score is clamped
// to [0,100]. Per prd001-integrity R2.1-R2.5.
type Penalties struct {
	// Unverified applies when the title is not found in CrossRef.
	Unverified int

	// CitationAnomaly applies to implausible citation/age combinations.
	CitationAnomaly int

	// SuspiciousVenue applies when the venue matches a predatory pattern.
	SuspiciousVenue int

	// MissingTitle applies to papers without a title.
	MissingTitle int

	// ShortTitle applies to titles under the minimum word count.
	ShortTitle int

	// ExcessBuzzwords applies when the title exceeds the buzzword budget.
	ExcessBuzzwords int

	// WordRepetition applies to excessive word repetition in the title.
	WordRepetition int

	// MissingDOI applies to papers without a DOI.
	MissingDOI int
}

// Ruleset holds the heuristic constants the analyzer applies. It is
// injected at construction so tests substitute fixture lists without
// touching process-wide state. The thresholds are hand-tuned values
// carried over from production tuning; they have no stated derivation
// and must not be re-derived.
type Ruleset struct {
	// SuspiciousVenues are lowercase name fragments of known predatory
	// journals; a substring match marks the venue suspicious.
	SuspiciousVenues []string

	// PredatoryPairs are fragment pairs whose co-occurrence in a venue
	// marks it suspicious.
	PredatoryPairs [][2]string

	// AcronymDenylist are known predatory journal acronyms, matched
	// against 4-6 letter all-uppercase tokens in the venue.
	AcronymDenylist []string

	// Buzzwords are low-signal title words counted toward the buzzword
	// budget (case-insensitive).
	Buzzwords []string

	// Penalties are the per-rule deductions.
	Penalties Penalties

	// HighCitationAge and HighCitationCount define the "too many
	// citations too soon" anomaly: age <= HighCitationAge years with
	// more than HighCitationCount citations.
	HighCitationAge   int
	HighCitationCount int

	// StaleAge defines the "no citations after N years" anomaly.
	StaleAge int

	// MinTitleWords is the minimum acceptable title word count.
	MinTitleWords int

	// MaxBuzzwords is the number of distinct buzzwords tolerated before
	// the title is penalized.
	MaxBuzzwords int

	// RepetitionRatio is the minimum unique/total ratio over title words
	// longer than LongWordLen characters.
	RepetitionRatio float64
	LongWordLen     int

	// CurrentYear overrides the wall-clock year for age computations.
	// Zero means time.Now().Year(). Tests set it for determinism.
	CurrentYear int
}

// DefaultRuleset returns the production rule constants.
func DefaultRuleset() Ruleset {
	return Ruleset{
		SuspiciousVenues: []string{
			"international journal of advanced research",
			"international journal of scientific research",
			"international journal of innovative research",
			"global journal of research",
			"world journal of research",
			"ijar",
			"ijcrt",
			"ijser",
			"ijraset",
			"ijariit",
		},
		PredatoryPairs: [][2]string{
			{"journal of advanced", "research"},
			{"journal of innovative", "research"},
			{"journal of scientific", "research"},
			{"international research", "journal"},
		},
		AcronymDenylist: []string{"IJAR", "IJCRT", "IJSER", "IJRASET", "IJARIIT"},
		Buzzwords: []string{
			"novel",
			"efficient",
			"hybrid",
			"smart",
			"advanced",
			"innovative",
			"revolutionary",
			"cutting-edge",
			"state-of-the-art",
			"breakthrough",
		},
		Penalties: Penalties{
			Unverified:      15,
			CitationAnomaly: 20,
			SuspiciousVenue: 25,
			MissingTitle:    20,
			ShortTitle:      15,
			ExcessBuzzwords: 10,
			WordRepetition:  10,
			MissingDOI:      5,
		},
		HighCitationAge:   1,
		HighCitationCount: 500,
		StaleAge:          8,
		MinTitleWords:     3,
		MaxBuzzwords:      4,
		RepetitionRatio:   0.7,
		LongWordLen:       4,
	}
}
