package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

// CatalogRepo defines the read operations for the catalog_items relation.
// Catalog items carry the container name for palette/crate item types and an
// optional catalog-declared unit value that overrides the stored per-record
// value.
type CatalogRepo interface {
	// ByIDs returns the catalog items with the given ids, keyed by id.
	ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.CatalogItem, error)
}

type pgCatalogRepo struct {
	db db
}

// NewCatalogRepo constructs a CatalogRepo backed by the provided db.
func NewCatalogRepo(db db) CatalogRepo {
	return &pgCatalogRepo{db: db}
}

func (r *pgCatalogRepo) ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.CatalogItem, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.CatalogItem{}, nil
	}

	const q = `
		SELECT id, name, item_type, COALESCE(container_name, ''), unit_value
		FROM catalog_items
		WHERE id = ANY(@ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.ByIDs: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]domain.CatalogItem, len(ids))
	for rows.Next() {
		c, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CatalogRepo.ByIDs: scan: %w", err)
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.ByIDs: rows: %w", err)
	}

	return out, nil
}

// scanCatalogItem handles the UUID and nullable unit_value conversions.
// A NULL unit_value becomes an invalid NullDecimal, which the transformer
// reads as "no catalog-declared value, use the record's own".
func scanCatalogItem(s scanner) (domain.CatalogItem, error) {
	var (
		c         domain.CatalogItem
		id        pgtype.UUID
		unitValue pgtype.Numeric
	)
	if err := s.Scan(&id, &c.Name, &c.ItemType, &c.ContainerName, &unitValue); err != nil {
		return domain.CatalogItem{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	if unitValue.Valid && unitValue.Int != nil {
		c.UnitValue = decimal.NullDecimal{
			Decimal: decimal.NewFromBigInt(unitValue.Int, unitValue.Exp),
			Valid:   true,
		}
	}
	return c, nil
}
