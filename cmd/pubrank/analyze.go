package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubrank/internal/integrity"
	"github.com/pdiddy/pubrank/internal/paperfile"
	"github.com/pdiddy/pubrank/internal/verify"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paper-file]",
	Short: "Run only the integrity analyzer",
	Long: `Analyze applies the deterministic integrity rules (CrossRef
verification, citation anomalies, predatory-venue patterns, title
heuristics, DOI presence) to every paper in the file and prints the
score, risk tier, and triggered flags.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		asJSON, _ := flags.GetBool("json")
		noVerify, _ := flags.GetBool("no-verify")
		mailto, _ := flags.GetString("mailto")

		f, err := paperfile.Read(args[0])
		if err != nil {
			return err
		}

		var verifier integrity.Verifier
		if !noVerify {
			verifier = verify.NewClient(verificationConfig(mailto))
		}
		analyzer := integrity.NewAnalyzer(integrity.DefaultRuleset(), verifier)

		results := analyzer.AnalyzeBatch(cmd.Context(), f.Papers)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		for i, res := range results {
			title := f.Papers[i].Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("%-60s  %3d  %-6s", truncate(title, 60), res.Score, res.RiskLevel)
			if len(res.Flags) > 0 {
				fmt.Printf("  %s", strings.Join(res.Flags, "; "))
			}
			fmt.Println()
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "output results as JSON")
	analyzeCmd.Flags().Bool("no-verify", false, "skip CrossRef verification")
	analyzeCmd.Flags().String("mailto", "", "contact email for the CrossRef polite pool")

	rootCmd.AddCommand(analyzeCmd)
}
