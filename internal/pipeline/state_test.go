package pipeline

import (
	"testing"

	"github.com/jonathan/metricmind/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Apply_Overwrite(t *testing.T) {
	state := State{
		KPIs: []types.KPIDefinition{{Name: "Old"}},
	}

	err := state.Apply(Patch{
		FieldKPIs:      []types.KPIDefinition{{Name: "New"}},
		FieldNarrative: "summary",
	})
	require.NoError(t, err)

	require.Len(t, state.KPIs, 1)
	assert.Equal(t, "New", state.KPIs[0].Name)
	assert.Equal(t, "summary", state.Narrative)
}

func TestState_Apply_AllFields(t *testing.T) {
	var state State

	err := state.Apply(Patch{
		FieldKPIs:           []types.KPIDefinition{{Name: "Revenue"}},
		FieldVisualizations: []types.ChartSpec{{Title: "Revenue Overview"}},
		FieldAnomalies:      []string{"No anomalies found in column 'revenue'"},
		FieldNarrative:      "All good.",
		FieldDashboardID:    "abc-123",
	})
	require.NoError(t, err)

	assert.Len(t, state.KPIs, 1)
	assert.Len(t, state.Visualizations, 1)
	assert.Len(t, state.Anomalies, 1)
	assert.Equal(t, "All good.", state.Narrative)
	assert.Equal(t, "abc-123", state.DashboardID)
}

func TestState_Apply_UnknownField(t *testing.T) {
	var state State
	err := state.Apply(Patch{Field("schema"): "mutated"})
	assert.ErrorContains(t, err, "unknown or immutable field")
}

func TestState_Apply_WrongType(t *testing.T) {
	var state State
	err := state.Apply(Patch{FieldNarrative: 42})
	assert.ErrorContains(t, err, "unexpected type")
}

func TestState_Apply_EmptyPatch(t *testing.T) {
	state := State{Narrative: "keep"}
	require.NoError(t, state.Apply(Patch{}))
	assert.Equal(t, "keep", state.Narrative)
}
