package types

import "strconv"

// Chart types understood by the rendering front end.
const (
	ChartBar  = "bar"
	ChartLine = "line"
)

// Series is one data series inside a render payload.
type Series struct {
	Type string    `json:"type"`
	X    []any     `json:"x"`
	Y    []float64 `json:"y"`
}

// RenderPayload is the renderer-facing portion of a chart spec. The pipeline
// never interprets it; it is passed through to the charting front end as-is.
type RenderPayload struct {
	Data   []Series       `json:"data"`
	Layout map[string]any `json:"layout"`
}

// ChartSpec is a renderer-agnostic description of one chart.
type ChartSpec struct {
	ChartType   string        `json:"chart_type"`
	Title       string        `json:"title"`
	XAxis       string        `json:"x_axis"`
	YAxis       string        `json:"y_axis"`
	Aggregation string        `json:"aggregation"`
	Payload     RenderPayload `json:"payload"`
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
