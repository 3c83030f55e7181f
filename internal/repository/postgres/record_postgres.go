package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"fileapi/internal/model"
	"fileapi/internal/repository"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// RecordPostgres is a PostgreSQL implementation of repository.RecordRepository.
// Documents live in a single JSONB table keyed by (collection, id); it uses
// database/sql with parameterized queries and contains no business logic.
type RecordPostgres struct {
	db *sql.DB
}

// NewRecordPostgres creates a new RecordPostgres repository.
func NewRecordPostgres(db *sql.DB) *RecordPostgres {
	return &RecordPostgres{db: db}
}

var _ repository.RecordRepository = (*RecordPostgres)(nil)

// Insert stores a new record row, translating unique violations to ErrDuplicateID.
func (r *RecordPostgres) Insert(ctx context.Context, rec *model.Record) (*model.Record, error) {
	const q = `
		INSERT INTO records (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING collection, id, data, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		rec.Collection,
		rec.ID,
		[]byte(rec.Data),
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	out, err := scanRecord(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s/%s", repository.ErrDuplicateID, rec.Collection, rec.ID)
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single record by collection and id.
func (r *RecordPostgres) FindByID(ctx context.Context, collection, id string) (*model.Record, error) {
	const q = `
		SELECT collection, id, data, created_at, updated_at
		FROM records
		WHERE collection = $1 AND id = $2
	`
	out, err := scanRecord(r.db.QueryRowContext(ctx, q, collection, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", repository.ErrRecordNotFound, collection, id)
		}
		return nil, err
	}
	return out, nil
}

// ListByCollection returns all records of a collection ordered by insertion time.
func (r *RecordPostgres) ListByCollection(ctx context.Context, collection string) ([]model.Record, error) {
	const q = `
		SELECT collection, id, data, created_at, updated_at
		FROM records
		WHERE collection = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Record, 0)
	for rows.Next() {
		var rec model.Record
		var data []byte
		if err := rows.Scan(&rec.Collection, &rec.ID, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Data = data
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update replaces the document of an existing record.
func (r *RecordPostgres) Update(ctx context.Context, rec *model.Record) (*model.Record, error) {
	const q = `
		UPDATE records
		SET data = $3, updated_at = $4
		WHERE collection = $1 AND id = $2
		RETURNING collection, id, data, created_at, updated_at
	`
	out, err := scanRecord(r.db.QueryRowContext(ctx, q,
		rec.Collection,
		rec.ID,
		[]byte(rec.Data),
		rec.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", repository.ErrRecordNotFound, rec.Collection, rec.ID)
		}
		return nil, err
	}
	return out, nil
}

// Delete removes a record; an unknown id is an error, not a no-op.
func (r *RecordPostgres) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM records WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, q, collection, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s/%s", repository.ErrRecordNotFound, collection, id)
	}
	return nil
}

func scanRecord(row *sql.Row) (*model.Record, error) {
	var rec model.Record
	var data []byte
	if err := row.Scan(&rec.Collection, &rec.ID, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Data = data
	return &rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
