package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubrank/internal/llmeval"
	"github.com/pdiddy/pubrank/internal/paperfile"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [paper-file]",
	Short: "Run only the LLM quality evaluator",
	Long: `Evaluate asks the chat-completion model to score every paper in the
file for quality, credibility, and relevance. Papers that cannot be
evaluated (missing token, depleted credits, unparseable response)
receive neutral mid-scale scores with the cause in the reason field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		asJSON, _ := flags.GetBool("json")
		query, _ := flags.GetString("query")
		model, _ := flags.GetString("model")
		token, _ := flags.GetString("hf-token")
		maxConcurrent, _ := flags.GetInt("max-concurrent")

		f, err := paperfile.Read(args[0])
		if err != nil {
			return err
		}
		if query == "" {
			query = f.Query
		}

		evaluator := llmeval.NewEvaluator(llmConfig(model, token, maxConcurrent), os.Stderr)
		results := evaluator.EvaluateBatch(cmd.Context(), f.Papers, query)

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
			suspicious := ""
			if res.Suspicious {
				suspicious = "  SUSPICIOUS"
			}
			fmt.Printf("%-60s  q=%.1f c=%.1f r=%.1f%s  %s\n",
				truncate(title, 60), res.QualityScore, res.CredibilityScore, res.RelevanceScore, suspicious, res.Reason)
		}
		return nil
	},
}

func init() {
	evaluateCmd.Flags().Bool("json", false, "output results as JSON")
	evaluateCmd.Flags().String("query", "", "search query for relevance scoring (default: query from the paper file)")
	evaluateCmd.Flags().String("model", "", "chat-completion model identifier")
	evaluateCmd.Flags().String("hf-token", "", "Hugging Face API token (default: HF_TOKEN env or .secrets/)")
	evaluateCmd.Flags().Int("max-concurrent", 0, "maximum concurrent LLM requests")

	rootCmd.AddCommand(evaluateCmd)
}
