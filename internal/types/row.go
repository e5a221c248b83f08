package types

// Row is one sampled record. Column order is preserved from the source
// dataset; Go maps do not iterate in insertion order, so the order is carried
// explicitly alongside the values.
type Row struct {
	Columns []string       `json:"columns"`
	Values  map[string]any `json:"values"`
}

// NumericValue returns the value of the named column as a float64 when it is
// numeric, and false otherwise.
func (r Row) NumericValue(column string) (float64, bool) {
	switch v := r.Values[column].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
