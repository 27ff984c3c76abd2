package schema

import "go.jacobcolvin.com/avdl/diag"

// Order is a field's sort-order tag.
type Order string

// Field order constants.
const (
	OrderAscending  Order = "ascending"
	OrderDescending Order = "descending"
	OrderIgnore     Order = "ignore"
)

// Field is a single record member.
type Field struct {
	Name       string
	Type       Schema
	Doc        string
	Default    any // a JSON-shaped Go value (nil, bool, float64/int64, string, []any, map[string]any)
	HasDefault bool
	Order      Order
	HasOrder   bool
	Aliases    []string
	Props      map[string]any
	Span       *diag.Span
}
