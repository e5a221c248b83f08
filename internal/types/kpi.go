// Package types defines the shared data structures produced and consumed by
// the dashboard pipeline stages.
package types

// Display formats a KPI value can be rendered with.
const (
	FormatCurrency = "currency"
	FormatPercent  = "percent"
	FormatNumber   = "number"
	FormatText     = "text"
)

// ValueNotAvailable is the explicit marker used when a KPI value could not be
// extracted or estimated from the data summary.
const ValueNotAvailable = "N/A"

// KPIDefinition is one metric extracted from the dataset schema.
// Formula is an expression over column names present in the schema; definitions
// referencing unknown columns are dropped during normalization.
type KPIDefinition struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	Formula       string `json:"formula"`
	Value         any    `json:"value,omitempty"`
	DisplayFormat string `json:"display_format" validate:"omitempty,oneof=currency percent number text"`
}

// ValueString renders the KPI value for display, falling back to the
// not-available marker.
func (k KPIDefinition) ValueString() string {
	switch v := k.Value.(type) {
	case nil:
		return ValueNotAvailable
	case string:
		if v == "" {
			return ValueNotAvailable
		}
		return v
	case float64:
		return trimFloat(v)
	default:
		return ValueNotAvailable
	}
}
