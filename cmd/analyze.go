package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [urls...]",
	Short: "Analyze source URLs without generating a profile",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		bundle, skipped, err := env.Generator.AnalyzeSources(ctx, args)
		if err != nil {
			return err
		}

		out := map[string]any{
			"total_sources":          bundle.TotalSources,
			"successful_scrapes":     bundle.SuccessfulScrapes,
			"failed_scrapes":         bundle.FailedScrapes,
			"average_content_length": bundle.AverageContentLength,
			"source_quality":         bundle.Quality,
			"domains_analyzed":       bundle.Domains,
			"recommendations":        bundle.Recommendations,
			"skipped_urls":           skipped,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
