// Package narrative implements the narrative stage: it asks the language
// model for a one-paragraph executive summary of the extracted KPIs.
package narrative

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/metricmind/internal/llm"
	"github.com/jonathan/metricmind/internal/prompts"
	"github.com/jonathan/metricmind/internal/types"
)

// Input is the read view the stage needs from the pipeline state.
type Input struct {
	KPIs      []types.KPIDefinition
	Context   string
	Anomalies []string
}

// Generate builds the summary prompt and invokes the gateway. Gateway errors
// propagate; there is no retry at this layer.
func Generate(ctx context.Context, client llm.Client, in Input) (string, error) {
	response, err := client.Chat(ctx, []llm.Message{{Role: "user", Content: buildPrompt(in)}}, llm.TierChat)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

func buildPrompt(in Input) string {
	var anomalySection string
	if len(in.Anomalies) > 0 {
		anomalySection = prompts.Format(prompts.MustGet("narrative.json", "anomaly-section"),
			map[string]string{"Anomalies": strings.Join(in.Anomalies, "; ")})
	}

	return prompts.Format(prompts.MustGet("narrative.json", "executive-summary"), map[string]string{
		"Context":        in.Context,
		"KPIs":           serializeKPIs(in.KPIs),
		"AnomalySection": anomalySection,
	})
}

func serializeKPIs(kpis []types.KPIDefinition) string {
	if len(kpis) == 0 {
		return "[]"
	}
	data, err := json.Marshal(kpis)
	if err != nil {
		return "[]"
	}
	return string(data)
}
