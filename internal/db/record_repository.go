package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record modes.
const (
	ModeSign   = "sign"
	ModeVerify = "verify"
)

// Record is one archived sign or verify operation.
type Record struct {
	ID        int64
	Source    string // input file path
	Mode      string // ModeSign or ModeVerify
	Prefix    []byte // clear prefix of the signed record
	Signed    []byte // full signed record (prefix || signature)
	Plain     []byte // recovered or original payload
	Verified  bool   // always true for ModeSign
	CreatedAt time.Time
}

// RecordRepository хранит результаты подписи и проверки в таблице records.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository создаёт новый PostgreSQL repository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// SaveRecord вставляет запись и возвращает её id.
func (r *RecordRepository) SaveRecord(ctx context.Context, rec Record) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO records (source, mode, prefix, signed, plain, verified)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		rec.Source, rec.Mode, rec.Prefix, rec.Signed, rec.Plain, rec.Verified,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving record for %q: %w", rec.Source, err)
	}
	slog.Debug("archived record", "id", id, "source", rec.Source, "mode", rec.Mode, "verified", rec.Verified)
	return id, nil
}

// GetRecord возвращает запись по id.
// Возвращает nil, nil если запись не найдена.
func (r *RecordRepository) GetRecord(ctx context.Context, id int64) (*Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx,
		`SELECT id, source, mode, prefix, signed, plain, verified, created_at
		 FROM records WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Source, &rec.Mode, &rec.Prefix, &rec.Signed, &rec.Plain, &rec.Verified, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying record %d: %w", id, err)
	}
	return &rec, nil
}

// ListBySource возвращает все записи для файла, от старых к новым.
func (r *RecordRepository) ListBySource(ctx context.Context, source string) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, source, mode, prefix, signed, plain, verified, created_at
		 FROM records WHERE source = $1 ORDER BY id`, source,
	)
	if err != nil {
		return nil, fmt.Errorf("querying records for %q: %w", source, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Mode, &rec.Prefix, &rec.Signed, &rec.Plain, &rec.Verified, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning record for %q: %w", source, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records for %q: %w", source, err)
	}
	return out, nil
}
