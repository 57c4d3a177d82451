package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BerylCAtieno/umrah-docs-api/internal/models"
	"github.com/jmoiron/sqlx"
)

// MaxRecordBytes is the hard per-record ceiling of the record store.
const MaxRecordBytes = 1 << 20

var (
	ErrRecordTooLarge   = errors.New("record exceeds the 1 MiB size limit")
	ErrInvalidFieldPath = errors.New("invalid field path")
)

// Repository stores profile records as JSON field trees. Field paths are
// dot separated, e.g. "documents.passport".
type Repository interface {
	Get(ctx context.Context, id string) (*models.Record, error)
	GetField(ctx context.Context, id, path string) (json.RawMessage, error)
	SetField(ctx context.Context, id, path string, value interface{}) (json.RawMessage, error)
	DeleteField(ctx context.Context, id, path string) (json.RawMessage, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type recordRow struct {
	ID        string `db:"id"`
	Fields    string `db:"fields"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (row *recordRow) toModel() (*models.Record, error) {
	rec := &models.Record{
		ID:     row.ID,
		Fields: map[string]interface{}{},
	}

	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at of record %s: %w", row.ID, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at of record %s: %w", row.ID, err)
	}
	if row.Fields != "" {
		if err := json.Unmarshal([]byte(row.Fields), &rec.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", row.ID, err)
		}
	}
	return rec, nil
}

type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func getRecord(ctx context.Context, q queryer, id string) (*models.Record, error) {
	var row recordRow

	query := `
		SELECT id, fields, created_at, updated_at
		FROM records
		WHERE id = ?
	`

	err := q.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row.toModel()
}

func (r *repository) Get(ctx context.Context, id string) (*models.Record, error) {
	return getRecord(ctx, r.db, id)
}

// GetField returns the JSON at path, or nil if the record or field is absent.
func (r *repository) GetField(ctx context.Context, id, path string) (json.RawMessage, error) {
	keys, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	rec, err := r.Get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}

	value, ok := lookup(rec.Fields, keys)
	if !ok {
		return nil, nil
	}
	return json.Marshal(value)
}

// SetField writes value at path, creating the record and intermediate
// objects as needed, and returns the JSON it replaced, or nil if the field
// was empty. The write is rejected, leaving the stored record untouched, if
// the result would exceed MaxRecordBytes.
func (r *repository) SetField(ctx context.Context, id, path string, value interface{}) (json.RawMessage, error) {
	keys, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON so the stored tree only holds plain JSON
	// values.
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode field %s: %w", path, err)
	}
	var plain interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, fmt.Errorf("failed to decode field %s: %w", path, err)
	}

	var replaced json.RawMessage
	err = r.inTx(ctx, func(tx *sqlx.Tx) error {
		rec, err := getRecord(ctx, tx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if rec == nil {
			rec = &models.Record{ID: id, Fields: map[string]interface{}{}, CreatedAt: now}
		}
		if old, ok := lookup(rec.Fields, keys); ok {
			if replaced, err = json.Marshal(old); err != nil {
				return err
			}
		}
		if err := assign(rec.Fields, keys, plain); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFieldPath, path, err)
		}
		rec.UpdatedAt = now

		return upsert(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return replaced, nil
}

// DeleteField removes path and returns the removed JSON, or nil if nothing
// was there.
func (r *repository) DeleteField(ctx context.Context, id, path string) (json.RawMessage, error) {
	keys, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	var removed json.RawMessage
	err = r.inTx(ctx, func(tx *sqlx.Tx) error {
		rec, err := getRecord(ctx, tx, id)
		if err != nil || rec == nil {
			return err
		}

		value, ok := remove(rec.Fields, keys)
		if !ok {
			return nil
		}
		if removed, err = json.Marshal(value); err != nil {
			return err
		}

		rec.UpdatedAt = time.Now().UTC()
		return upsert(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func upsert(ctx context.Context, tx *sqlx.Tx, rec *models.Record) error {
	fields, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", rec.ID, err)
	}
	if len(fields) > MaxRecordBytes {
		return fmt.Errorf("%w: record %s would be %d bytes", ErrRecordTooLarge, rec.ID, len(fields))
	}

	query := `
		INSERT INTO records (id, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at
	`

	_, err = tx.ExecContext(ctx, query, rec.ID, string(fields),
		rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano))
	return err
}

func (r *repository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
