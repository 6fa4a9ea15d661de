package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubrank/internal/integrity"
	"github.com/pdiddy/pubrank/internal/llmeval"
	"github.com/pdiddy/pubrank/internal/paperfile"
	"github.com/pdiddy/pubrank/internal/ranking"
	"github.com/pdiddy/pubrank/internal/report"
	"github.com/pdiddy/pubrank/internal/verify"
	"github.com/pdiddy/pubrank/pkg/types"
)

// maxBatchSize caps how many papers one rank invocation accepts.
const maxBatchSize = 50

var rankCmd = &cobra.Command{
	Use:   "rank [paper-file]",
	Short: "Run the full evaluation pipeline and rank papers",
	Long: `Rank reads a YAML paper file, runs the integrity analyzer and the LLM
evaluator over every paper, fuses the signals with citation, recency, and
author-reputation scores, and prints the ordered result with per-paper
explanations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		query, _ := flags.GetString("query")
		top, _ := flags.GetInt("top")
		minScore, _ := flags.GetFloat64("min-score")
		asJSON, _ := flags.GetBool("json")
		save, _ := flags.GetBool("save")
		noVerify, _ := flags.GetBool("no-verify")
		noLLM, _ := flags.GetBool("no-llm")
		model, _ := flags.GetString("model")
		token, _ := flags.GetString("hf-token")
		mailto, _ := flags.GetString("mailto")
		maxConcurrent, _ := flags.GetInt("max-concurrent")
		reportsDir, _ := flags.GetString("reports-dir")
		outPath, _ := flags.GetString("out")

		f, err := paperfile.Read(args[0])
		if err != nil {
			return err
		}
		if len(f.Papers) > maxBatchSize {
			return fmt.Errorf("batch too large: %d papers (max %d)", len(f.Papers), maxBatchSize)
		}
		if query == "" {
			query = f.Query
		}

		var verifier integrity.Verifier
		if !noVerify {
			verifier = verify.NewClient(verificationConfig(mailto))
		}
		analyzer := integrity.NewAnalyzer(integrity.DefaultRuleset(), verifier)

		llmCfg := llmConfig(model, token, maxConcurrent)
		if noLLM {
			llmCfg.APIKey = ""
		}
		evaluator := llmeval.NewEvaluator(llmCfg, os.Stderr)

		ctx := cmd.Context()
		fmt.Fprintf(os.Stderr, "evaluating %d papers\n", len(f.Papers))

		// Integrity and LLM evaluation are independent signals; run the
		// two batches concurrently.
		var (
			wg          sync.WaitGroup
			integrities []types.IntegrityResult
			evaluations []types.LlmEvaluation
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			integrities = analyzer.AnalyzeBatch(ctx, f.Papers)
		}()
		go func() {
			defer wg.Done()
			evaluations = evaluator.EvaluateBatch(ctx, f.Papers, query)
		}()
		wg.Wait()

		inputs := make([]ranking.Input, len(f.Papers))
		for i := range f.Papers {
			inputs[i] = ranking.Input{
				Paper:     f.Papers[i],
				Integrity: &integrities[i],
				LLM:       &evaluations[i],
			}
		}

		engine := ranking.NewEngine(ranking.DefaultWeights(), 0)
		ranked := engine.Rank(inputs, f.Author)
		if top <= 0 {
			top = len(ranked)
		}
		ranked = ranking.TopPapers(ranked, top, minScore)

		if asJSON {
			if err := ranking.FormatJSON(ranked, os.Stdout); err != nil {
				return err
			}
		} else {
			ranking.FormatTable(ranked, os.Stdout)
		}

		if outPath != "" {
			if err := paperfile.WriteResults(outPath, query, ranked); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
		}

		if save {
			store, err := report.NewStore(types.ReportConfig{ReportsDir: reportsDir})
			if err != nil {
				return err
			}
			defer store.Close()

			runID, err := store.SaveRun(ctx, query, ranked)
			if err != nil {
				return fmt.Errorf("saving run: %w", err)
			}
			fmt.Fprintf(os.Stderr, "saved run %d\n", runID)
		}

		return nil
	},
}

func init() {
	rankCmd.Flags().String("query", "", "search query for relevance scoring (default: query from the paper file)")
	rankCmd.Flags().Int("top", 0, "return only the top N papers (0 = all)")
	rankCmd.Flags().Float64("min-score", 0, "drop papers below this final score")
	rankCmd.Flags().Bool("json", false, "output results as JSON")
	rankCmd.Flags().Bool("save", false, "save the run to the history database")
	rankCmd.Flags().Bool("no-verify", false, "skip CrossRef verification")
	rankCmd.Flags().Bool("no-llm", false, "skip LLM evaluation (papers receive neutral scores)")
	rankCmd.Flags().String("model", "", "chat-completion model identifier")
	rankCmd.Flags().String("hf-token", "", "Hugging Face API token (default: HF_TOKEN env or .secrets/)")
	rankCmd.Flags().String("mailto", "", "contact email for the CrossRef polite pool")
	rankCmd.Flags().Int("max-concurrent", 0, "maximum concurrent LLM requests")
	rankCmd.Flags().String("reports-dir", "reports", "directory for the history database")
	rankCmd.Flags().String("out", "", "write ranked results to a YAML file")

	rootCmd.AddCommand(rankCmd)
}
