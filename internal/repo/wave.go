package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

// WaveRepo defines the read operations for the waves relation
// (time-boxed promotional campaigns).
type WaveRepo interface {
	// ByIDs returns the waves with the given ids, keyed by id.
	ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Wave, error)

	// List returns waves matching the filters, ordered by starts_at
	// descending. The wave-id set and date range (on starts_at) apply.
	List(ctx context.Context, f domain.Filters) ([]domain.Wave, error)
}

type pgWaveRepo struct {
	db db
}

// NewWaveRepo constructs a WaveRepo backed by the provided db.
func NewWaveRepo(db db) WaveRepo {
	return &pgWaveRepo{db: db}
}

func (r *pgWaveRepo) ByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Wave, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.Wave{}, nil
	}

	const q = `
		SELECT id, name, starts_at, ends_at
		FROM waves
		WHERE id = ANY(@ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.WaveRepo.ByIDs: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]domain.Wave, len(ids))
	for rows.Next() {
		w, err := scanWave(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.WaveRepo.ByIDs: scan: %w", err)
		}
		out[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.WaveRepo.ByIDs: rows: %w", err)
	}

	return out, nil
}

func (r *pgWaveRepo) List(ctx context.Context, f domain.Filters) ([]domain.Wave, error) {
	q := `
		SELECT id, name, starts_at, ends_at
		FROM waves
		WHERE true`
	args := pgx.NamedArgs{}

	if len(f.WaveIDs) > 0 {
		q += ` AND id = ANY(@ids)`
		args["ids"] = f.WaveIDs
	}
	if f.DateFrom != nil {
		q += ` AND starts_at >= @date_from`
		args["date_from"] = *f.DateFrom
	}
	if f.DateTo != nil {
		q += ` AND starts_at < @date_to`
		args["date_to"] = *f.DateTo
	}
	q += ` ORDER BY starts_at DESC`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.WaveRepo.List: %w", err)
	}
	defer rows.Close()

	var waves []domain.Wave
	for rows.Next() {
		w, err := scanWave(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.WaveRepo.List: scan: %w", err)
		}
		waves = append(waves, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.WaveRepo.List: rows: %w", err)
	}

	return waves, nil
}

// scanWave handles the UUID and nullable ends_at conversions.
func scanWave(s scanner) (domain.Wave, error) {
	var (
		w      domain.Wave
		id     pgtype.UUID
		endsAt pgtype.Timestamptz
	)
	if err := s.Scan(&id, &w.Name, &w.StartsAt, &endsAt); err != nil {
		return domain.Wave{}, err
	}
	w.ID = uuid.UUID(id.Bytes)
	if endsAt.Valid {
		e := endsAt.Time
		w.EndsAt = &e
	}
	return w, nil
}
