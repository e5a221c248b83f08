package anomaly

import (
	"fmt"

	"github.com/jonathan/metricmind/internal/types"
)

// Skip markers written when the stage has nothing to evaluate. The stage
// always writes something; the anomalies field is never left unset.
const (
	SkippedNoData          = "skipped: no data provided"
	SkippedNoNumericColumn = "skipped: no numeric column found"
)

// Evaluate runs outlier detection over the first numeric column of the
// sample and returns the human-readable anomaly summary lines. Only one
// column is ever evaluated per run.
func Evaluate(rows []types.Row, detector Detector) []string {
	if len(rows) == 0 {
		return []string{SkippedNoData}
	}

	column, ok := firstNumericColumn(rows[0])
	if !ok {
		return []string{SkippedNoNumericColumn}
	}

	var values []float64
	for _, row := range rows {
		if v, ok := row.NumericValue(column); ok {
			values = append(values, v)
		}
	}

	mask := detector.Detect(values)
	count := 0
	for _, flagged := range mask {
		if flagged {
			count++
		}
	}

	if count > 0 {
		return []string{fmt.Sprintf("Found %d anomalies in column '%s'", count, column)}
	}
	return []string{fmt.Sprintf("No anomalies found in column '%s'", column)}
}

// firstNumericColumn returns the first column, in the row's declared column
// order, whose value in this row is numeric.
func firstNumericColumn(row types.Row) (string, bool) {
	for _, column := range row.Columns {
		if _, ok := row.NumericValue(column); ok {
			return column, true
		}
	}
	return "", false
}
