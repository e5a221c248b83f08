package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/metricmind/internal/observability"
	"github.com/jonathan/metricmind/internal/pipeline"
	"github.com/jonathan/metricmind/internal/summarize"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a dashboard from a dataset and a context prompt",
	Long: `Runs the full generation pipeline: KPI extraction -> visualization mapping -> anomaly detection -> narrative -> persistence.

The dataset is a CSV file; the context describes what the data is about and what the dashboard should focus on.`,
	RunE: runGenerate,
}

var (
	generateConfigPath string
	generateFile       string
	generateContext    string
)

func init() {
	generateCmd.Flags().StringVar(&generateConfigPath, "config", "", "Path to config.json file")
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "Path to CSV dataset (optional)")
	generateCmd.Flags().StringVarP(&generateContext, "context", "c", "", "Natural-language context for the dashboard")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	deps, err := buildDeps(ctx, generateConfigPath)
	if err != nil {
		return err
	}
	defer deps.Close()

	initial := pipeline.State{Context: generateContext}
	if generateFile != "" {
		data, err := os.ReadFile(generateFile)
		if err != nil {
			return fmt.Errorf("failed to read dataset: %w", err)
		}
		summary := summarize.Summarize(string(data))
		initial.Schema = summary.Schema
		initial.DataSummary = summary.Stats
		initial.SampleRows = summary.SampleRows
	}

	final, err := deps.engine.Run(ctx, initial)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintKPIs(final.KPIs)
	printer.PrintVisualizations(final.Visualizations)
	printer.PrintAnomalies(final.Anomalies)
	printer.PrintNarrative(final.Narrative)
	printer.PrintDashboardSaved(final.DashboardID)

	return nil
}
