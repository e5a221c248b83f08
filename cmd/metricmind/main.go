// Package main provides the entry point for the MetricMind dashboard
// generator CLI and HTTP API server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "metricmind",
	Short: "AI-assisted dashboard generator",
	Long:  "MetricMind turns a tabular dataset and a natural-language context into a persisted dashboard: KPIs, chart specs, anomaly notes and an executive narrative, generated by local language models.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogger(rootVerbose)
	},
}

var rootVerbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
