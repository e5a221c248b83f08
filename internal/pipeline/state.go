// Package pipeline provides the orchestration engine for dashboard
// generation: five dependent stages threaded over one shared state, each
// returning a partial patch the engine merges by key-overwrite.
package pipeline

import (
	"fmt"

	"github.com/jonathan/metricmind/internal/types"
)

// Field names a patchable State field. The input fields (context, schema,
// data summary, sample rows) are set by the caller and immutable after init;
// they have no Field constant on purpose.
type Field string

const (
	FieldKPIs           Field = "kpis"
	FieldVisualizations Field = "visualizations"
	FieldAnomalies      Field = "anomalies"
	FieldNarrative      Field = "narrative"
	FieldDashboardID    Field = "dashboard_id"
)

// Patch is the partial result a stage returns: a subset of field names
// mapped to their new values. Merging is key-overwrite, never append; a
// stage that wants to extend a sequence reads the existing value and returns
// the full new sequence.
type Patch map[Field]any

// State is the single record threaded through all stages. Stages receive a
// read view and must not mutate it; the engine's merge step is the only
// designated mutation point.
type State struct {
	Context        string                `json:"context"`
	Schema         string                `json:"schema"`
	DataSummary    string                `json:"data_summary"`
	SampleRows     []types.Row           `json:"sample_rows"`
	KPIs           []types.KPIDefinition `json:"kpis"`
	Visualizations []types.ChartSpec     `json:"visualizations"`
	Anomalies      []string              `json:"anomalies"`
	Narrative      string                `json:"narrative"`
	DashboardID    string                `json:"dashboard_id"`
}

// Apply merges a patch into the state. Unknown fields, immutable fields, and
// wrong-typed values are stage contract violations and fail the merge.
func (s *State) Apply(patch Patch) error {
	for field, value := range patch {
		switch field {
		case FieldKPIs:
			v, ok := value.([]types.KPIDefinition)
			if !ok {
				return patchTypeError(field, value)
			}
			s.KPIs = v
		case FieldVisualizations:
			v, ok := value.([]types.ChartSpec)
			if !ok {
				return patchTypeError(field, value)
			}
			s.Visualizations = v
		case FieldAnomalies:
			v, ok := value.([]string)
			if !ok {
				return patchTypeError(field, value)
			}
			s.Anomalies = v
		case FieldNarrative:
			v, ok := value.(string)
			if !ok {
				return patchTypeError(field, value)
			}
			s.Narrative = v
		case FieldDashboardID:
			v, ok := value.(string)
			if !ok {
				return patchTypeError(field, value)
			}
			s.DashboardID = v
		default:
			return fmt.Errorf("patch touches unknown or immutable field %q", field)
		}
	}
	return nil
}

func patchTypeError(field Field, value any) error {
	return fmt.Errorf("patch field %q has unexpected type %T", field, value)
}
