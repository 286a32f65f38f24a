// Package domain contains the core data types for the field-sales export
// engine. This package has zero heavy dependencies and is imported by every
// other internal package (registry, repo, service, render, handler).
package domain

// ColumnType is the semantic type of an export column. It drives per-cell
// value coercion and number formatting in the spreadsheet renderer.
type ColumnType string

const (
	ColumnString   ColumnType = "string"
	ColumnNumber   ColumnType = "number"
	ColumnCurrency ColumnType = "currency"
	ColumnDatetime ColumnType = "datetime"
	ColumnDate     ColumnType = "date"
	ColumnBoolean  ColumnType = "boolean"
)

// ColumnDefinition describes one exportable column of a dataset.
// Instances are static configuration, versioned with the code, and must
// never be mutated at runtime.
type ColumnDefinition struct {
	// ID is the stable column identifier used in export requests.
	ID string
	// Label is the header text written into the worksheet.
	Label string
	// Type selects value coercion and display formatting.
	Type ColumnType
	// Width is the display-width hint in spreadsheet column units.
	Width float64
	// Default marks columns included when the caller selects none explicitly.
	Default bool
}

// DatasetDefinition describes one exportable dataset: its backing relation,
// whether rows need foreign-entity joins, and its ordered column list.
type DatasetDefinition struct {
	ID       string
	Label    string
	Relation string
	// RequiresJoin is true when rows reference foreign entities that must be
	// resolved through batched lookups before transformation.
	RequiresJoin bool
	Columns      []ColumnDefinition
}
