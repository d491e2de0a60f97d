package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresRecordRepository struct {
	db *sql.DB
}

// NewPostgresRecordRepository creates a RecordRepository on the records
// table created by the database migrations
func NewPostgresRecordRepository(db *sql.DB) RecordRepository {
	return &postgresRecordRepository{db: db}
}

// Get retrieves a record by key using parameterized queries
func (r *postgresRecordRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	query := `SELECT value FROM records WHERE key = $1`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return value, nil
}

// Put inserts or replaces a record in a single statement
func (r *postgresRecordRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	query := `
		INSERT INTO records (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}

	return nil
}

// Delete removes a record; deleting a missing key is not an error
func (r *postgresRecordRepository) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	query := `DELETE FROM records WHERE key = $1`

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	return nil
}

func (r *postgresRecordRepository) Close() error {
	return r.db.Close()
}
