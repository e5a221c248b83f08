// Package kpi implements the KPI extraction stage: it prompts the language
// model with the dataset schema and business context and parses the returned
// JSON array of KPI definitions.
package kpi

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jonathan/metricmind/internal/llm"
	"github.com/jonathan/metricmind/internal/prompts"
	"github.com/jonathan/metricmind/internal/schemas"
	"github.com/jonathan/metricmind/internal/summarize"
	"github.com/jonathan/metricmind/internal/types"
)

// Input is the read view the stage needs from the pipeline state.
type Input struct {
	Schema      string
	Context     string
	DataSummary string
}

// Extract builds the extraction prompt, invokes the gateway, and parses the
// response into normalized KPI definitions.
//
// Gateway failures are returned as errors and abort the pipeline run.
// Malformed model output never does: it degrades to an empty KPI list.
func Extract(ctx context.Context, client llm.Client, in Input) ([]types.KPIDefinition, error) {
	prompt := buildPrompt(in)

	response, err := client.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, llm.TierCoder)
	if err != nil {
		return nil, err
	}

	cleaned := llm.CleanJSONBlock(response)

	if err := schemas.ValidateKPIDefinitions(cleaned); err != nil {
		slog.Warn("model returned malformed KPI output, degrading to empty list", "error", err)
		return []types.KPIDefinition{}, nil
	}

	var defs []types.KPIDefinition
	if err := json.Unmarshal([]byte(cleaned), &defs); err != nil {
		slog.Warn("failed to decode KPI output, degrading to empty list", "error", err)
		return []types.KPIDefinition{}, nil
	}

	return Normalize(defs, summarize.Columns(in.Schema)), nil
}

func buildPrompt(in Input) string {
	var schemaSection string
	if in.Schema != "" {
		schemaSection = prompts.Format(prompts.MustGet("kpi.json", "schema-section"),
			map[string]string{"Schema": in.Schema})
	}

	var sections string
	if in.DataSummary != "" {
		sections += prompts.Format(prompts.MustGet("kpi.json", "data-summary-section"),
			map[string]string{"DataSummary": in.DataSummary})
	}
	if in.Context != "" {
		sections += prompts.Format(prompts.MustGet("kpi.json", "context-section"),
			map[string]string{"Context": in.Context})
	}

	return prompts.Format(prompts.MustGet("kpi.json", "extract-kpis"), map[string]string{
		"SchemaSection": schemaSection,
		"Sections":      sections,
	})
}
