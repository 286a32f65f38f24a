package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
	"github.com/mwetzel/fieldwave/backend/internal/repo"
)

// ---- OwnerRepo -------------------------------------------------------------

func TestOwnerRepo_ByIDs(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	anna := insertOwner(t, tx, "Anna Berger", "Nord")
	insertOwner(t, tx, "Bernd Claas", "Süd")

	out, err := repo.NewOwnerRepo(tx).ByIDs(ctx, []uuid.UUID{anna, uuid.New()})

	require.NoError(t, err)
	require.Len(t, out, 1, "missing ids are absent, not an error")
	assert.Equal(t, "Anna Berger", out[anna].Name)
	assert.Equal(t, "Nord", out[anna].Region)
	assert.True(t, out[anna].Active)
}

func TestOwnerRepo_ByIDs_EmptyInput(t *testing.T) {
	tx := newTestTx(t)

	out, err := repo.NewOwnerRepo(tx).ByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out, "callers index into the map without nil checks")
}

func TestOwnerRepo_List_OrderedByName(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	insertOwner(t, tx, "Bernd Claas", "Süd")
	insertOwner(t, tx, "Anna Berger", "Nord")

	owners, err := repo.NewOwnerRepo(tx).List(ctx, domain.Filters{})

	require.NoError(t, err)
	require.Len(t, owners, 2)
	assert.Equal(t, "Anna Berger", owners[0].Name)
	assert.Equal(t, "Bernd Claas", owners[1].Name)
}

func TestOwnerRepo_List_OwnerFilter(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	anna := insertOwner(t, tx, "Anna Berger", "Nord")
	insertOwner(t, tx, "Bernd Claas", "Süd")

	owners, err := repo.NewOwnerRepo(tx).List(ctx, domain.Filters{OwnerIDs: []uuid.UUID{anna}})

	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, anna, owners[0].ID)
}

// ---- LocationRepo ----------------------------------------------------------

func TestLocationRepo_ByIDsAndList(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	m1 := insertLocation(t, tx, "M1", "Hamburg")
	insertLocation(t, tx, "M2", "Bremen")
	r := repo.NewLocationRepo(tx)

	out, err := r.ByIDs(ctx, []uuid.UUID{m1})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "M1", out[m1].Name)
	assert.Equal(t, "Hamburg", out[m1].City)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// ---- WaveRepo --------------------------------------------------------------

func TestWaveRepo_ByIDs_NullableEndDate(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)
	open := insertWave(t, tx, "Spring Wave", start, nil)
	closed := insertWave(t, tx, "Winter Wave", start.AddDate(0, -4, 0), &end)

	out, err := repo.NewWaveRepo(tx).ByIDs(ctx, []uuid.UUID{open, closed})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Nil(t, out[open].EndsAt)
	require.NotNil(t, out[closed].EndsAt)
	assert.True(t, out[closed].EndsAt.Equal(end))
}

func TestWaveRepo_List_StartDateFilter(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	spring := insertWave(t, tx, "Spring Wave", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	insertWave(t, tx, "Autumn Wave", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), nil)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	waves, err := repo.NewWaveRepo(tx).List(ctx, domain.Filters{DateFrom: &from, DateTo: &to})

	require.NoError(t, err)
	require.Len(t, waves, 1)
	assert.Equal(t, spring, waves[0].ID)
}

// ---- CatalogRepo -----------------------------------------------------------

func TestCatalogRepo_ByIDs_ContainerAndValueMapping(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	shampoo := insertCatalogItem(t, tx, "Shampoo Display", "palette", strPtr("Palette A"), strPtr("2.00"))
	poster := insertCatalogItem(t, tx, "Single Poster", "product", nil, nil)

	out, err := repo.NewCatalogRepo(tx).ByIDs(ctx, []uuid.UUID{shampoo, poster})

	require.NoError(t, err)
	require.Len(t, out, 2)

	s := out[shampoo]
	assert.Equal(t, "Palette A", s.ContainerName)
	assert.True(t, s.Containered())
	require.True(t, s.UnitValue.Valid)
	assert.Equal(t, "2", s.UnitValue.Decimal.String())

	p := out[poster]
	assert.Empty(t, p.ContainerName, "NULL container collapses to empty string")
	assert.False(t, p.Containered())
	assert.False(t, p.UnitValue.Valid, "NULL unit_value stays invalid")
}
