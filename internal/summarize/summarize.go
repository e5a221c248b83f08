// Package summarize turns raw delimited text into the schema description,
// descriptive statistics, and bounded row sample the pipeline consumes.
package summarize

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/metricmind/internal/types"
)

// MaxSampleRows bounds the number of rows carried into the pipeline state.
const MaxSampleRows = 100

// PlaceholderSchema is used when the source dataset cannot be parsed. The
// pipeline still runs; the KPI list will likely end up empty.
const PlaceholderSchema = "schema unavailable (unparseable dataset)"

// Summary is the pipeline input preparation derived from one dataset.
type Summary struct {
	Schema     string
	Stats      string
	SampleRows []types.Row
}

type columnType int

const (
	typeInt columnType = iota
	typeFloat
	typeString
)

func (t columnType) String() string {
	switch t {
	case typeInt:
		return "int"
	case typeFloat:
		return "float"
	default:
		return "string"
	}
}

// Summarize parses CSV text and produces a schema string, a statistics
// summary for numeric columns, and a bounded sample of typed rows.
// Malformed input degrades to a placeholder schema rather than an error.
func Summarize(csvText string) Summary {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return Summary{Schema: PlaceholderSchema}
	}

	header := records[0]
	if len(header) == 0 {
		return Summary{Schema: PlaceholderSchema}
	}
	dataRows := records[1:]

	colTypes := inferColumnTypes(header, dataRows)

	return Summary{
		Schema:     buildSchema(header, colTypes),
		Stats:      buildStats(header, colTypes, dataRows),
		SampleRows: buildSample(header, colTypes, dataRows),
	}
}

// inferColumnTypes scans every data row: a column is int if all non-empty
// values parse as integers, float if they all parse as numbers, else string.
func inferColumnTypes(header []string, rows [][]string) []columnType {
	colTypes := make([]columnType, len(header))
	seen := make([]bool, len(header))

	for _, row := range rows {
		for i := range header {
			if i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			t := cellType(cell)
			if !seen[i] {
				colTypes[i] = t
				seen[i] = true
				continue
			}
			colTypes[i] = widen(colTypes[i], t)
		}
	}

	for i := range colTypes {
		if !seen[i] {
			colTypes[i] = typeString
		}
	}
	return colTypes
}

func cellType(cell string) columnType {
	if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return typeInt
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil {
		return typeFloat
	}
	return typeString
}

func widen(a, b columnType) columnType {
	if a == b {
		return a
	}
	if a == typeString || b == typeString {
		return typeString
	}
	return typeFloat
}

func buildSchema(header []string, colTypes []columnType) string {
	parts := make([]string, len(header))
	for i, name := range header {
		parts[i] = fmt.Sprintf("%s: %s", strings.TrimSpace(name), colTypes[i])
	}
	return strings.Join(parts, ", ")
}

func buildStats(header []string, colTypes []columnType, rows [][]string) string {
	var lines []string
	for i, name := range header {
		if colTypes[i] == typeString {
			continue
		}
		values := numericColumn(rows, i)
		if len(values) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: count=%d mean=%.2f min=%.2f max=%.2f",
			strings.TrimSpace(name), len(values), mean(values), minOf(values), maxOf(values)))
	}
	return strings.Join(lines, "\n")
}

func buildSample(header []string, colTypes []columnType, rows [][]string) []types.Row {
	limit := len(rows)
	if limit > MaxSampleRows {
		limit = MaxSampleRows
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	sample := make([]types.Row, 0, limit)
	for _, row := range rows[:limit] {
		values := make(map[string]any, len(columns))
		for i, name := range columns {
			if i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			if colTypes[i] != typeString {
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					values[name] = v
					continue
				}
				continue
			}
			values[name] = cell
		}
		sample = append(sample, types.Row{Columns: columns, Values: values})
	}
	return sample
}

func numericColumn(rows [][]string, idx int) []float64 {
	var values []float64
	for _, row := range rows {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		if v, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return values
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		out = math.Min(out, v)
	}
	return out
}

func maxOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		out = math.Max(out, v)
	}
	return out
}

// Columns returns the column names declared in a schema string of the form
// "name: type, name: type". A nil result means the schema does not follow
// that shape (for example the placeholder schema).
func Columns(schema string) []string {
	if schema == "" || schema == PlaceholderSchema {
		return nil
	}

	var columns []string
	for _, part := range strings.Split(schema, ",") {
		name, _, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name != "" {
			columns = append(columns, name)
		}
	}
	return columns
}
