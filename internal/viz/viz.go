// Package viz implements the visualization mapping stage: a deterministic,
// data-aware heuristic turning KPI definitions and sample rows into chart
// specs. It makes no external calls and never fails; absent or malformed
// sample data degrades to stub charts.
package viz

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/metricmind/internal/types"
)

// maxDataCharts caps how many numeric columns get a chart on the data-aware
// path, so len(visualizations) <= max(maxDataCharts, len(kpis)).
const maxDataCharts = 6

var (
	dateColumnRe  = regexp.MustCompile(`(?i)(date|time|day|week|month|year|timestamp)`)
	barColumnRe   = regexp.MustCompile(`(?i)(share|split|breakdown|distribution)`)
	lineKPINameRe = regexp.MustCompile(`(?i)(trend|rate)`)
)

// Map builds chart specs from the sample rows when possible, falling back to
// one stub chart per KPI definition.
func Map(kpis []types.KPIDefinition, rows []types.Row) []types.ChartSpec {
	if specs := mapFromSample(rows); len(specs) > 0 {
		return specs
	}
	return mapFromKPIs(kpis)
}

// mapFromSample charts up to maxDataCharts numeric columns against a
// date-like column, or the row index when none exists.
func mapFromSample(rows []types.Row) []types.ChartSpec {
	if len(rows) == 0 {
		return nil
	}

	first := rows[0]
	dateColumn := detectDateColumn(first.Columns)

	var specs []types.ChartSpec
	for _, column := range first.Columns {
		if column == dateColumn {
			continue
		}
		if _, ok := first.NumericValue(column); !ok {
			continue
		}

		specs = append(specs, buildDataChart(column, dateColumn, rows))
		if len(specs) == maxDataCharts {
			break
		}
	}
	return specs
}

func buildDataChart(column, dateColumn string, rows []types.Row) types.ChartSpec {
	chartType := types.ChartLine
	if barColumnRe.MatchString(column) {
		chartType = types.ChartBar
	}

	xLabel := dateColumn
	if xLabel == "" {
		xLabel = "index"
	}

	var xs []any
	var ys []float64
	for i, row := range rows {
		v, ok := row.NumericValue(column)
		if !ok {
			continue
		}
		ys = append(ys, v)
		if dateColumn != "" {
			xs = append(xs, row.Values[dateColumn])
		} else {
			xs = append(xs, i)
		}
	}

	return types.ChartSpec{
		ChartType:   chartType,
		Title:       fmt.Sprintf("%s by %s", column, xLabel),
		XAxis:       xLabel,
		YAxis:       column,
		Aggregation: "sum",
		Payload: types.RenderPayload{
			Data:   []types.Series{{Type: chartType, X: xs, Y: ys}},
			Layout: map[string]any{"title": column},
		},
	}
}

// mapFromKPIs is the stub path: one empty-series chart per KPI definition.
func mapFromKPIs(kpis []types.KPIDefinition) []types.ChartSpec {
	specs := make([]types.ChartSpec, 0, len(kpis))
	for _, kpi := range kpis {
		chartType := types.ChartBar
		if lineKPINameRe.MatchString(kpi.Name) {
			chartType = types.ChartLine
		}

		specs = append(specs, types.ChartSpec{
			ChartType:   chartType,
			Title:       fmt.Sprintf("%s Overview", kpi.Name),
			XAxis:       "date",
			YAxis:       kpi.Name,
			Aggregation: "sum",
			Payload: types.RenderPayload{
				Data:   []types.Series{{Type: chartType, X: []any{}, Y: []float64{}}},
				Layout: map[string]any{"title": kpi.Name},
			},
		})
	}
	return specs
}

// detectDateColumn returns the first column whose name looks date-like.
func detectDateColumn(columns []string) string {
	for _, column := range columns {
		if dateColumnRe.MatchString(strings.TrimSpace(column)) {
			return column
		}
	}
	return ""
}
