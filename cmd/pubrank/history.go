package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubrank/internal/ranking"
	"github.com/pdiddy/pubrank/internal/report"
	"github.com/pdiddy/pubrank/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List saved ranking runs or show one run",
	Long: `History lists the ranking runs saved with rank --save, newest first.
With a run ID it reloads that run's full ranked results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		asJSON, _ := flags.GetBool("json")
		reportsDir, _ := flags.GetString("reports-dir")

		store, err := report.NewStore(types.ReportConfig{ReportsDir: reportsDir})
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			papers, err := store.RunResults(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if asJSON {
				return ranking.FormatJSON(papers, os.Stdout)
			}
			ranking.FormatTable(papers, os.Stdout)
			return nil
		}

		runs, err := store.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No saved runs.")
			return nil
		}
		fmt.Printf("%-6s  %-20s  %-6s  %s\n", "ID", "Date", "Papers", "Query")
		for _, r := range runs {
			fmt.Printf("%-6d  %-20s  %-6d  %s\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.PaperCount, r.Query)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("json", false, "output results as JSON")
	historyCmd.Flags().String("reports-dir", "reports", "directory for the history database")

	rootCmd.AddCommand(historyCmd)
}
