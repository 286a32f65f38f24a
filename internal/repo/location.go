package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

// LocationRepo defines the read operations for the locations relation.
type LocationRepo interface {
	// ByIDs returns the locations with the given ids, keyed by id.
	ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Location, error)

	// List returns all locations ordered by name. Locations carry no
	// timestamps or owner references, so filters do not apply.
	List(ctx context.Context) ([]domain.Location, error)
}

type pgLocationRepo struct {
	db db
}

// NewLocationRepo constructs a LocationRepo backed by the provided db.
func NewLocationRepo(db db) LocationRepo {
	return &pgLocationRepo{db: db}
}

func (r *pgLocationRepo) ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Location, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.Location{}, nil
	}

	const q = `
		SELECT id, name, city, region
		FROM locations
		WHERE id = ANY(@ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.ByIDs: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]domain.Location, len(ids))
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LocationRepo.ByIDs: scan: %w", err)
		}
		out[l.ID] = l
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.ByIDs: rows: %w", err)
	}

	return out, nil
}

func (r *pgLocationRepo) List(ctx context.Context) ([]domain.Location, error) {
	const q = `
		SELECT id, name, city, region
		FROM locations
		ORDER BY name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.List: %w", err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LocationRepo.List: scan: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.List: rows: %w", err)
	}

	return locations, nil
}

func scanLocation(s scanner) (domain.Location, error) {
	var (
		l  domain.Location
		id pgtype.UUID
	)
	if err := s.Scan(&id, &l.Name, &l.City, &l.Region); err != nil {
		return domain.Location{}, err
	}
	l.ID = uuid.UUID(id.Bytes)
	return l, nil
}
