// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pubrank/pkg/types"
)

// FormatTable writes ranked papers as a human-readable table to w.
func FormatTable(papers []types.ScoredPaper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers ranked.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-55s  %-6s  %-5s  %-6s  %s\n",
		"Rank", "Title", "Score", "Risk", "Flags", "Explanation")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, p := range papers {
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		if len(title) > 55 {
			title = title[:52] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-55s  %-6.2f  %-5s  %-6d  %s\n",
			p.Rank, title, p.FinalScore, p.Integrity.RiskLevel, len(p.Integrity.Flags), p.Explanation)
	}

	fmt.Fprintf(w, "\n%d papers ranked\n", len(papers))
}

// FormatJSON writes ranked papers as indented JSON to w.
func FormatJSON(papers []types.ScoredPaper, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}
