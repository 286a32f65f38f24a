package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

// OwnerRepo defines the read operations for the owners relation
// (Gebietsleiter — territory managers).
type OwnerRepo interface {
	// ByIDs returns the owners with the given ids, keyed by id.
	// Missing ids are simply absent from the map; that is not an error.
	ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Owner, error)

	// List returns owners matching the filters, ordered by name.
	// The owner-id set and date range (on created_at) apply; wave ids do not.
	List(ctx context.Context, f domain.Filters) ([]domain.Owner, error)
}

type pgOwnerRepo struct {
	db db
}

// NewOwnerRepo constructs an OwnerRepo backed by the provided db.
func NewOwnerRepo(db db) OwnerRepo {
	return &pgOwnerRepo{db: db}
}

// ByIDs issues a single id-set query regardless of set size; callers batch
// their lookups through here so no per-record queries ever happen.
func (r *pgOwnerRepo) ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Owner, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.Owner{}, nil
	}

	const q = `
		SELECT id, name, email, region, active, created_at
		FROM owners
		WHERE id = ANY(@ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.OwnerRepo.ByIDs: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]domain.Owner, len(ids))
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.OwnerRepo.ByIDs: scan: %w", err)
		}
		out[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OwnerRepo.ByIDs: rows: %w", err)
	}

	return out, nil
}

// List returns the owners dataset rows.
func (r *pgOwnerRepo) List(ctx context.Context, f domain.Filters) ([]domain.Owner, error) {
	q := `
		SELECT id, name, email, region, active, created_at
		FROM owners
		WHERE true`
	args := pgx.NamedArgs{}

	if len(f.OwnerIDs) > 0 {
		q += ` AND id = ANY(@ids)`
		args["ids"] = f.OwnerIDs
	}
	if f.DateFrom != nil {
		q += ` AND created_at >= @date_from`
		args["date_from"] = *f.DateFrom
	}
	if f.DateTo != nil {
		q += ` AND created_at < @date_to`
		args["date_to"] = *f.DateTo
	}
	q += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.OwnerRepo.List: %w", err)
	}
	defer rows.Close()

	var owners []domain.Owner
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.OwnerRepo.List: scan: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OwnerRepo.List: rows: %w", err)
	}

	return owners, nil
}

func scanOwner(s scanner) (domain.Owner, error) {
	var (
		o  domain.Owner
		id pgtype.UUID
	)
	if err := s.Scan(&id, &o.Name, &o.Email, &o.Region, &o.Active, &o.CreatedAt); err != nil {
		return domain.Owner{}, err
	}
	o.ID = uuid.UUID(id.Bytes)
	return o, nil
}
