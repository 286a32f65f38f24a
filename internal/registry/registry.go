// Package registry holds the static dataset configuration for the export
// engine: per dataset its label, backing relation, join requirement, and
// ordered column definitions. The tables are versioned with the code; all
// lookups are pure and never fail — unknown ids return empty results.
package registry

import "github.com/mwetzel/fieldwave/backend/internal/domain"

// Dataset ids accepted in export requests. The gebietsleiter dataset keeps
// its historical German name (territory managers) because saved export
// presets in the field reference it by id.
const (
	DatasetSubmissions   = "submissions"
	DatasetGebietsleiter = "gebietsleiter"
	DatasetLocations     = "locations"
	DatasetWaves         = "waves"
)

var datasets = map[string]domain.DatasetDefinition{
	DatasetSubmissions: {
		ID:           DatasetSubmissions,
		Label:        "Submissions",
		Relation:     "submissions",
		RequiresJoin: true,
		Columns: []domain.ColumnDefinition{
			{ID: "created_at", Label: "Submitted At", Type: domain.ColumnDatetime, Width: 18, Default: true},
			{ID: "owner_name", Label: "Gebietsleiter", Type: domain.ColumnString, Width: 22, Default: true},
			{ID: "location_name", Label: "Location", Type: domain.ColumnString, Width: 24, Default: true},
			{ID: "wave_name", Label: "Wave", Type: domain.ColumnString, Width: 18, Default: true},
			{ID: "item_name", Label: "Item", Type: domain.ColumnString, Width: 40, Default: true},
			{ID: "item_type", Label: "Item Type", Type: domain.ColumnString, Width: 14},
			{ID: "quantity", Label: "Quantity", Type: domain.ColumnNumber, Width: 10, Default: true},
			{ID: "value_per_unit", Label: "Unit Value", Type: domain.ColumnCurrency, Width: 12, Default: true},
			{ID: "total_value", Label: "Total Value", Type: domain.ColumnCurrency, Width: 12, Default: true},
			{ID: "submitted_on", Label: "Date", Type: domain.ColumnDate, Width: 12},
			{ID: "has_photos", Label: "Photos", Type: domain.ColumnBoolean, Width: 8},
			{ID: "photo_count", Label: "Photo Count", Type: domain.ColumnNumber, Width: 10},
		},
	},
	DatasetGebietsleiter: {
		ID:       DatasetGebietsleiter,
		Label:    "Gebietsleiter",
		Relation: "owners",
		Columns: []domain.ColumnDefinition{
			{ID: "name", Label: "Name", Type: domain.ColumnString, Width: 24, Default: true},
			{ID: "email", Label: "Email", Type: domain.ColumnString, Width: 28, Default: true},
			{ID: "region", Label: "Region", Type: domain.ColumnString, Width: 16, Default: true},
			{ID: "active", Label: "Active", Type: domain.ColumnBoolean, Width: 8, Default: true},
			{ID: "created_at", Label: "Created At", Type: domain.ColumnDatetime, Width: 18},
		},
	},
	DatasetLocations: {
		ID:       DatasetLocations,
		Label:    "Locations",
		Relation: "locations",
		Columns: []domain.ColumnDefinition{
			{ID: "name", Label: "Name", Type: domain.ColumnString, Width: 26, Default: true},
			{ID: "city", Label: "City", Type: domain.ColumnString, Width: 18, Default: true},
			{ID: "region", Label: "Region", Type: domain.ColumnString, Width: 16, Default: true},
		},
	},
	DatasetWaves: {
		ID:       DatasetWaves,
		Label:    "Waves",
		Relation: "waves",
		Columns: []domain.ColumnDefinition{
			{ID: "name", Label: "Name", Type: domain.ColumnString, Width: 26, Default: true},
			{ID: "starts_at", Label: "Starts", Type: domain.ColumnDate, Width: 12, Default: true},
			{ID: "ends_at", Label: "Ends", Type: domain.ColumnDate, Width: 12, Default: true},
		},
	},
}

// Dataset returns the definition for the given id.
// The second return value is false for unknown ids.
func Dataset(id string) (domain.DatasetDefinition, bool) {
	d, ok := datasets[id]
	return d, ok
}

// IsKnown reports whether id names a registered dataset.
func IsKnown(id string) bool {
	_, ok := datasets[id]
	return ok
}

// AllColumns returns the full ordered column list of a dataset, or nil for
// unknown ids.
func AllColumns(id string) []domain.ColumnDefinition {
	d, ok := datasets[id]
	if !ok {
		return nil
	}
	cols := make([]domain.ColumnDefinition, len(d.Columns))
	copy(cols, d.Columns)
	return cols
}

// DefaultColumns returns the columns flagged as default-include, in dataset
// order, or nil for unknown ids.
func DefaultColumns(id string) []domain.ColumnDefinition {
	d, ok := datasets[id]
	if !ok {
		return nil
	}
	var cols []domain.ColumnDefinition
	for _, c := range d.Columns {
		if c.Default {
			cols = append(cols, c)
		}
	}
	return cols
}

// ColumnDef returns a single column definition by dataset and column id.
// The second return value is false when either id is unknown.
func ColumnDef(datasetID, columnID string) (domain.ColumnDefinition, bool) {
	d, ok := datasets[datasetID]
	if !ok {
		return domain.ColumnDefinition{}, false
	}
	for _, c := range d.Columns {
		if c.ID == columnID {
			return c, true
		}
	}
	return domain.ColumnDefinition{}, false
}
