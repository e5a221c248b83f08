package kpi

import (
	"testing"

	"github.com/jonathan/metricmind/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	columns := []string{"date", "revenue", "orders"}

	tests := []struct {
		name      string
		defs      []types.KPIDefinition
		wantNames []string
	}{
		{
			name: "drops empty names",
			defs: []types.KPIDefinition{
				{Name: "  "},
				{Name: "Revenue", Formula: "sum(revenue)"},
			},
			wantNames: []string{"Revenue"},
		},
		{
			name: "drops case-insensitive duplicates",
			defs: []types.KPIDefinition{
				{Name: "Revenue", Formula: "sum(revenue)"},
				{Name: "revenue", Formula: "sum(revenue)"},
			},
			wantNames: []string{"Revenue"},
		},
		{
			name: "drops unknown quoted column",
			defs: []types.KPIDefinition{
				{Name: "Profit", Formula: "df['profit'].sum()"},
			},
			wantNames: []string{},
		},
		{
			name: "keeps known quoted column with function syntax",
			defs: []types.KPIDefinition{
				{Name: "Revenue", Formula: "df['revenue'].sum()"},
			},
			wantNames: []string{"Revenue"},
		},
		{
			name: "keeps bare column expression",
			defs: []types.KPIDefinition{
				{Name: "Average Order Value", Formula: "revenue / orders"},
			},
			wantNames: []string{"Average Order Value"},
		},
		{
			name: "drops bare unknown identifier",
			defs: []types.KPIDefinition{
				{Name: "Margin", Formula: "profit / revenue"},
			},
			wantNames: []string{},
		},
		{
			name: "empty formula kept",
			defs: []types.KPIDefinition{
				{Name: "Revenue"},
			},
			wantNames: []string{"Revenue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.defs, columns)
			names := make([]string, 0, len(out))
			for _, def := range out {
				names = append(names, def.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestNormalize_DisplayFormat(t *testing.T) {
	out := Normalize([]types.KPIDefinition{
		{Name: "A", DisplayFormat: "Currency"},
		{Name: "B", DisplayFormat: "weird"},
		{Name: "C"},
		{Name: "D", DisplayFormat: "text"},
	}, nil)

	require.Len(t, out, 4)
	assert.Equal(t, types.FormatCurrency, out[0].DisplayFormat)
	assert.Equal(t, types.FormatNumber, out[1].DisplayFormat)
	assert.Equal(t, types.FormatNumber, out[2].DisplayFormat)
	assert.Equal(t, types.FormatText, out[3].DisplayFormat)
}

func TestNormalize_NilColumnsSkipsFormulaCheck(t *testing.T) {
	out := Normalize([]types.KPIDefinition{
		{Name: "Anything", Formula: "whatever(nonexistent)"},
	}, nil)
	assert.Len(t, out, 1)
}
