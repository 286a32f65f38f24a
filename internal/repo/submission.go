// Package repo contains all database access for the export engine.
// Each relation has its own file with an interface and a Postgres
// implementation. No transform logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// SubmissionRepo defines the read operations for the submissions relation.
// The transformer depends on this interface, not the Postgres implementation,
// so it can be unit-tested with a mock.
type SubmissionRepo interface {
	// ListFiltered returns submission records matching the filters, ordered
	// by created_at descending (newest first). All predicates are applied
	// server-side.
	ListFiltered(ctx context.Context, f domain.Filters) ([]domain.RawSubmissionRecord, error)
}

type pgSubmissionRepo struct {
	db db
}

// NewSubmissionRepo constructs a SubmissionRepo backed by the provided db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation.
func NewSubmissionRepo(db db) SubmissionRepo {
	return &pgSubmissionRepo{db: db}
}

// ListFiltered builds the WHERE clause from the non-empty filter fields only,
// so unfiltered exports stay a plain table scan in query-plan terms.
func (r *pgSubmissionRepo) ListFiltered(ctx context.Context, f domain.Filters) ([]domain.RawSubmissionRecord, error) {
	q := `
		SELECT id, created_at, owner_id, location_id, wave_id,
		       item_type, item_id, quantity, value_per_unit, photo_urls
		FROM submissions
		WHERE true`
	args := pgx.NamedArgs{}

	if f.DateFrom != nil {
		q += ` AND created_at >= @date_from`
		args["date_from"] = *f.DateFrom
	}
	if f.DateTo != nil {
		q += ` AND created_at < @date_to`
		args["date_to"] = *f.DateTo
	}
	if len(f.OwnerIDs) > 0 {
		q += ` AND owner_id = ANY(@owner_ids)`
		args["owner_ids"] = f.OwnerIDs
	}
	if len(f.WaveIDs) > 0 {
		q += ` AND wave_id = ANY(@wave_ids)`
		args["wave_ids"] = f.WaveIDs
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.SubmissionRepo.ListFiltered: %w", err)
	}
	defer rows.Close()

	var recs []domain.RawSubmissionRecord
	for rows.Next() {
		rec, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SubmissionRepo.ListFiltered: scan: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SubmissionRepo.ListFiltered: rows: %w", err)
	}

	return recs, nil
}

// scanSubmission maps a single database row into a domain.RawSubmissionRecord.
func scanSubmission(s scanner) (domain.RawSubmissionRecord, error) {
	var (
		rec        domain.RawSubmissionRecord
		id         pgtype.UUID
		ownerID    pgtype.UUID
		locationID pgtype.UUID
		waveID     pgtype.UUID
		itemID     pgtype.UUID
		value      pgtype.Numeric
	)

	err := s.Scan(&id, &rec.CreatedAt, &ownerID, &locationID, &waveID,
		&rec.ItemType, &itemID, &rec.Quantity, &value, &rec.PhotoURLs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RawSubmissionRecord{}, domain.ErrNotFound
		}
		return domain.RawSubmissionRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.OwnerID = uuid.UUID(ownerID.Bytes)
	rec.LocationID = uuid.UUID(locationID.Bytes)
	rec.WaveID = uuid.UUID(waveID.Bytes)
	rec.ItemID = uuid.UUID(itemID.Bytes)
	rec.ValuePerUnit = numericToDecimal(value)

	return rec, nil
}

// numericToDecimal converts a Postgres numeric into an exact decimal.
// NULL becomes decimal.Zero; the transformer treats a zero stored value as
// "fall through to the next resolution step".
func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
