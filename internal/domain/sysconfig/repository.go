package sysconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository defines system_config data access
type Repository interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, entry *Entry) error
	List(ctx context.Context) ([]Entry, error)
}

// PGRepository provides system_config access on Postgres.
type PGRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) Get(ctx context.Context, key string) (*Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var entry Entry
	err := r.db.GetContext(ctx2, &entry, `
		SELECT key, value, data_type, description, updated_at
		FROM system_config
		WHERE key = $1
	`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get config", ErrInternal)
	}

	return &entry, nil
}

func (r *PGRepository) Set(ctx context.Context, entry *Entry) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO system_config (key, value, data_type, description, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			data_type = EXCLUDED.data_type,
			description = COALESCE(EXCLUDED.description, system_config.description),
			updated_at = NOW()
	`, entry.Key, entry.Value, entry.DataType, entry.Description)
	if err != nil {
		return fmt.Errorf("%w: set config", ErrInternal)
	}

	return nil
}

func (r *PGRepository) List(ctx context.Context) ([]Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	entries := make([]Entry, 0)
	err := r.db.SelectContext(ctx2, &entries, `
		SELECT key, value, data_type, description, updated_at
		FROM system_config
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list config", ErrInternal)
	}

	return entries, nil
}
