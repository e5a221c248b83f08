package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/metricmind/internal/config"
	"github.com/jonathan/metricmind/internal/observability"
	"github.com/jonathan/metricmind/internal/rag"
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find dashboards similar to a query",
	Long:  `Searches the vector index of dashboard summaries and prints the nearest matches.`,
	RunE:  runSimilar,
}

var (
	similarConfigPath string
	similarQuery      string
	similarK          int
)

func init() {
	similarCmd.Flags().StringVar(&similarConfigPath, "config", "", "Path to config.json file")
	similarCmd.Flags().StringVarP(&similarQuery, "query", "q", "", "Query text (required)")
	similarCmd.Flags().IntVarP(&similarK, "top", "k", 3, "Number of results to return")
	_ = similarCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Similarity search only needs the vector index, not the database or the
	// chat models.
	cfg, err := config.Load(similarConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	index, err := rag.Open(cfg.VectorPath, cfg.OllamaURL, cfg.EmbedModel)
	if err != nil {
		return fmt.Errorf("failed to open vector index: %w", err)
	}

	hits, err := index.QuerySimilar(ctx, similarQuery, similarK)
	if err != nil {
		return fmt.Errorf("similarity query failed: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintSimilar(hits)
	return nil
}
