// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jonathan/metricmind/internal/rag"
	"github.com/jonathan/metricmind/internal/types"
)

const (
	// maxCellWidth caps wide free-text cells so tables stay readable
	maxCellWidth = 60
)

// Printer handles formatted output for CLI results
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

// PrintKPIs renders the extracted KPI definitions as a table.
func (p *Printer) PrintKPIs(kpis []types.KPIDefinition) {
	if len(kpis) == 0 {
		fmt.Fprintln(p.out, "No KPIs extracted.")
		return
	}

	t := p.newTable("KPIs")
	t.AppendHeader(table.Row{"Name", "Value", "Format", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Description", WidthMax: maxCellWidth},
	})
	for _, k := range kpis {
		t.AppendRow(table.Row{k.Name, k.ValueString(), k.DisplayFormat, k.Description})
	}
	t.Render()
}

// PrintVisualizations renders the chart specs as a table.
func (p *Printer) PrintVisualizations(specs []types.ChartSpec) {
	if len(specs) == 0 {
		fmt.Fprintln(p.out, "No visualizations mapped.")
		return
	}

	t := p.newTable("Visualizations")
	t.AppendHeader(table.Row{"Title", "Type", "X Axis", "Y Axis", "Aggregation"})
	for _, s := range specs {
		t.AppendRow(table.Row{s.Title, s.ChartType, s.XAxis, s.YAxis, s.Aggregation})
	}
	t.Render()
}

// PrintAnomalies prints the anomaly detection notes.
func (p *Printer) PrintAnomalies(notes []string) {
	if len(notes) == 0 {
		return
	}
	fmt.Fprintln(p.out, text.Bold.Sprint("Anomalies"))
	for _, note := range notes {
		fmt.Fprintf(p.out, "  %s\n", note)
	}
}

// PrintNarrative prints the executive summary with a heading.
func (p *Printer) PrintNarrative(narrative string) {
	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return
	}
	fmt.Fprintln(p.out, text.Bold.Sprint("Narrative"))
	fmt.Fprintln(p.out, narrative)
}

// PrintSimilar renders similarity search hits as a table.
func (p *Printer) PrintSimilar(hits []rag.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(p.out, "No similar dashboards found.")
		return
	}

	t := p.newTable("Similar Dashboards")
	t.AppendHeader(table.Row{"Dashboard ID", "Context", "Similarity"})
	for _, h := range hits {
		t.AppendRow(table.Row{h.ID, h.Metadata["context"], fmt.Sprintf("%.3f", h.Similarity)})
	}
	t.Render()
}

// PrintDashboardSaved prints the persisted dashboard identifier.
func (p *Printer) PrintDashboardSaved(id string) {
	fmt.Fprintf(p.out, "Dashboard saved: %s\n", id)
}
