package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/metricmind/internal/rag"
	"github.com/jonathan/metricmind/internal/types"
)

func TestPrintKPIs(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintKPIs([]types.KPIDefinition{
		{Name: "Total Revenue", Value: 1200.5, DisplayFormat: types.FormatCurrency, Description: "Sum of revenue"},
		{Name: "Row Count", Value: 42, DisplayFormat: types.FormatNumber},
	})

	out := buf.String()
	assert.Contains(t, out, "Total Revenue")
	assert.Contains(t, out, "Row Count")
	assert.Contains(t, out, "Sum of revenue")
}

func TestPrintKPIs_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintKPIs(nil)
	assert.Contains(t, buf.String(), "No KPIs extracted")
}

func TestPrintVisualizations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVisualizations([]types.ChartSpec{
		{Title: "revenue by date", ChartType: types.ChartLine, XAxis: "date", YAxis: "revenue", Aggregation: "sum"},
	})

	out := buf.String()
	assert.Contains(t, out, "revenue by date")
	assert.Contains(t, out, "line")
}

func TestPrintAnomalies(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnomalies(nil)
	assert.Empty(t, buf.String())

	p.PrintAnomalies([]string{"Found 2 anomalies in column 'revenue'"})
	assert.Contains(t, buf.String(), "Found 2 anomalies in column 'revenue'")
}

func TestPrintNarrative(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintNarrative("  Revenue grew steadily.  ")
	assert.Contains(t, buf.String(), "Revenue grew steadily.")

	buf.Reset()
	p.PrintNarrative("   ")
	assert.Empty(t, buf.String())
}

func TestPrintSimilar(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSimilar([]rag.Hit{
		{ID: "abc-123", Metadata: map[string]string{"context": "sales data"}, Similarity: 0.912},
	})

	out := buf.String()
	assert.Contains(t, out, "abc-123")
	assert.Contains(t, out, "sales data")
	assert.Contains(t, out, "0.912")
}
