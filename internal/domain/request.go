package domain

import (
	"time"

	"github.com/google/uuid"
)

// Filters narrows the records fetched for a dataset. All predicates are
// applied server-side by the data source adapter; nil/empty fields mean
// "no restriction".
type Filters struct {
	// DateFrom is inclusive, DateTo exclusive (callers pass the start of the
	// day after the last requested date).
	DateFrom *time.Time
	DateTo   *time.Time
	OwnerIDs []uuid.UUID
	WaveIDs  []uuid.UUID
}

// ExportOptions carries the per-request rendering switches.
type ExportOptions struct {
	// ExpandPaletteProducts selects parent+child rows for container groups
	// instead of the single compact multi-line row.
	ExpandPaletteProducts bool
	// FileName, when non-empty, overrides the date-derived download name.
	FileName string
}

// ExportRequest is the validated form of one export call. Datasets determines
// worksheet order in the output document; Columns maps each dataset id to the
// column ids to include.
type ExportRequest struct {
	Datasets []string
	Columns  map[string][]string
	Filters  Filters
	Options  ExportOptions
}
