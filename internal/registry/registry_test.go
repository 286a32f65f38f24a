package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
	"github.com/mwetzel/fieldwave/backend/internal/registry"
)

func TestDataset_KnownIDs(t *testing.T) {
	for _, id := range []string{
		registry.DatasetSubmissions,
		registry.DatasetGebietsleiter,
		registry.DatasetLocations,
		registry.DatasetWaves,
	} {
		def, ok := registry.Dataset(id)
		require.True(t, ok, "dataset %q must be registered", id)
		assert.Equal(t, id, def.ID)
		assert.NotEmpty(t, def.Label)
		assert.NotEmpty(t, def.Relation)
		assert.NotEmpty(t, def.Columns)
		assert.True(t, registry.IsKnown(id))
	}
}

func TestDataset_UnknownID(t *testing.T) {
	_, ok := registry.Dataset("bestellungen")
	assert.False(t, ok)
	assert.False(t, registry.IsKnown("bestellungen"))
	assert.Nil(t, registry.AllColumns("bestellungen"))
	assert.Nil(t, registry.DefaultColumns("bestellungen"))

	_, ok = registry.ColumnDef("bestellungen", "item_name")
	assert.False(t, ok)
}

func TestSubmissions_OnlyDatasetRequiringJoins(t *testing.T) {
	sub, _ := registry.Dataset(registry.DatasetSubmissions)
	assert.True(t, sub.RequiresJoin)

	for _, id := range []string{registry.DatasetGebietsleiter, registry.DatasetLocations, registry.DatasetWaves} {
		def, _ := registry.Dataset(id)
		assert.False(t, def.RequiresJoin, "dataset %q is a flat relation", id)
	}
}

func TestColumnDef(t *testing.T) {
	col, ok := registry.ColumnDef(registry.DatasetSubmissions, "total_value")
	require.True(t, ok)
	assert.Equal(t, "Total Value", col.Label)
	assert.Equal(t, domain.ColumnCurrency, col.Type)

	_, ok = registry.ColumnDef(registry.DatasetSubmissions, "warehouse_id")
	assert.False(t, ok)
}

func TestDefaultColumns_SubsetInDatasetOrder(t *testing.T) {
	all := registry.AllColumns(registry.DatasetSubmissions)
	defaults := registry.DefaultColumns(registry.DatasetSubmissions)
	require.NotEmpty(t, defaults)
	assert.Less(t, len(defaults), len(all), "non-default columns exist")

	// Defaults must preserve the dataset's column order.
	idx := make(map[string]int, len(all))
	for i, c := range all {
		idx[c.ID] = i
	}
	for i := 1; i < len(defaults); i++ {
		assert.Less(t, idx[defaults[i-1].ID], idx[defaults[i].ID])
	}
}

func TestAllColumns_ReturnsACopy(t *testing.T) {
	cols := registry.AllColumns(registry.DatasetWaves)
	require.NotEmpty(t, cols)
	cols[0].Label = "mutated"

	again := registry.AllColumns(registry.DatasetWaves)
	assert.NotEqual(t, "mutated", again[0].Label, "registry state must not be mutable through returned slices")
}
