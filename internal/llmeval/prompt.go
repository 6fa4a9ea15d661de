// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llmeval

import (
	"bytes"
	"strconv"
	"text/template"

	"github.com/pdiddy/pubrank/pkg/types"
)

// abstractLimit caps how much of the abstract is embedded in the prompt.
const abstractLimit = 500

// evaluationPromptTmpl is the prompt sent to the model for each paper.
// It pins the response to a strict JSON shape so parsing stays mechanical.
// Per prd002-llm-eval R2.1.
var evaluationPromptTmpl = template.Must(template.New("evaluation").Parse(`You are an academic reviewer. Evaluate this research paper objectively.

TITLE: {{.Title}}
ABSTRACT: {{.Abstract}}...
VENUE: {{.Venue}}
YEAR: {{.Year}}
CITATIONS: {{.Citations}}{{if .Query}}
SEARCH QUERY: {{.Query}}{{end}}

Return ONLY valid JSON with this exact structure (no markdown, no extra text):
{
  "quality_score": <0-10>,
  "credibility_score": <0-10>,
  "relevance_score": <0-10>,
  "suspicious": <true or false>,
  "reason": "<brief explanation>"
}

Scoring guidelines:
- quality_score: Research methodology, clarity, contribution (0=poor, 10=excellent)
- credibility_score: Venue reputation, citation patterns, author credibility (0=low, 10=high)
- relevance_score: Relevance to search query if provided, otherwise general relevance (0=irrelevant, 10=highly relevant)
- suspicious: true if paper shows signs of predatory publishing or academic misconduct
- reason: One sentence explaining the overall assessment`))

// promptData carries the paper fields into the template with the
// "Unknown" placeholders already applied.
type promptData struct {
	Title     string
	Abstract  string
	Venue     string
	Year      string
	Citations int
	Query     string
}

// renderPrompt executes the evaluation template for one paper (R2.1,
// R2.2). The abstract is truncated to its first 500 characters; absent
// fields render as their placeholder text.
func renderPrompt(paper types.Paper, query string) (string, error) {
	data := promptData{
		Title:     paper.Title,
		Abstract:  paper.Abstract,
		Venue:     paper.VenueName(),
		Year:      "Unknown",
		Citations: paper.Citations(),
		Query:     query,
	}
	if data.Title == "" {
		data.Title = "Unknown"
	}
	if data.Abstract == "" {
		data.Abstract = "No abstract available"
	}
	if data.Venue == "" {
		data.Venue = "Unknown"
	}
	if year, ok := paper.PubYear(); ok {
		data.Year = strconv.Itoa(year)
	}
	if runes := []rune(data.Abstract); len(runes) > abstractLimit {
		data.Abstract = string(runes[:abstractLimit])
	}

	var buf bytes.Buffer
	if err := evaluationPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
