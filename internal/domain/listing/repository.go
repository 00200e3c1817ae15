package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Store defines listing persistence across the five content tables.
type Store interface {
	// Publish inserts the listing and runs charge inside the same
	// transaction; both commit or neither does.
	Publish(ctx context.Context, l *Listing, charge func(tx *sqlx.Tx) error) error
	GetByID(ctx context.Context, t PostType, id uuid.UUID) (*Listing, error)
	List(ctx context.Context, t PostType, pagination Pagination) ([]Listing, error)
	ListByOwner(ctx context.Context, t PostType, userID uuid.UUID) ([]Listing, error)
	UpdateStatus(ctx context.Context, t PostType, id, userID uuid.UUID, status Status) error
	IncrementViews(ctx context.Context, t PostType, id uuid.UUID) error
	Refresh(ctx context.Context, t PostType, id, userID uuid.UUID) error
}

// Repository implements Store on Postgres.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Publish(ctx context.Context, l *Listing, charge func(tx *sqlx.Tx) error) error {
	table, ok := tableNames[l.Type]
	if !ok {
		return ErrUnknownPostType
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, title, description, status, is_premium, views_count, last_refreshed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, false, 0, NOW(), NOW(), NOW())
		RETURNING last_refreshed, created_at, updated_at
	`, table)

	err = tx.QueryRowContext(ctx2, query, l.ID, l.UserID, l.Title, l.Description, l.Status).
		Scan(&l.LastRefreshed, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert listing", ErrInternal)
	}

	if err := charge(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, t PostType, id uuid.UUID) (*Listing, error) {
	table, ok := tableNames[t]
	if !ok {
		return nil, ErrUnknownPostType
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// is_premium is derived from live premium records, not the cached flag.
	query := fmt.Sprintf(`
		SELECT l.id, l.user_id, l.title, l.description, l.status,
			EXISTS (
				SELECT 1 FROM premium_records p
				WHERE p.post_type = $2 AND p.post_id = l.id AND p.end_time > NOW()
			) AS is_premium,
			false AS top_active,
			l.views_count, l.last_refreshed, l.created_at, l.updated_at
		FROM %s l
		WHERE l.id = $1
	`, table)

	var l Listing
	err := r.db.GetContext(ctx2, &l, query, id, t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get listing", ErrInternal)
	}

	l.Type = t
	return &l, nil
}

func (r *Repository) List(ctx context.Context, t PostType, pagination Pagination) ([]Listing, error) {
	table, ok := tableNames[t]
	if !ok {
		return nil, ErrUnknownPostType
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := pagination.Limit
	if limit <= 0 {
		limit = 20
	}

	// Promoted state is computed from end_time at read time. Listings with a
	// live top placement come first; the rest order by freshness.
	query := fmt.Sprintf(`
		SELECT l.id, l.user_id, l.title, l.description, l.status,
			EXISTS (
				SELECT 1 FROM premium_records p
				WHERE p.post_type = $1 AND p.post_id = l.id AND p.end_time > NOW()
			) AS is_premium,
			EXISTS (
				SELECT 1 FROM premium_records p
				WHERE p.post_type = $1 AND p.post_id = l.id
					AND p.premium_type = 'top' AND p.end_time > NOW()
			) AS top_active,
			l.views_count, l.last_refreshed, l.created_at, l.updated_at
		FROM %s l
		WHERE l.status = 'active'
		ORDER BY top_active DESC, l.last_refreshed DESC
		LIMIT $2 OFFSET $3
	`, table)

	listings := make([]Listing, 0)
	if err := r.db.SelectContext(ctx2, &listings, query, t, limit, pagination.Offset); err != nil {
		return nil, fmt.Errorf("%w: list listings", ErrInternal)
	}

	for i := range listings {
		listings[i].Type = t
	}
	return listings, nil
}

func (r *Repository) ListByOwner(ctx context.Context, t PostType, userID uuid.UUID) ([]Listing, error) {
	table, ok := tableNames[t]
	if !ok {
		return nil, ErrUnknownPostType
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT l.id, l.user_id, l.title, l.description, l.status,
			EXISTS (
				SELECT 1 FROM premium_records p
				WHERE p.post_type = $2 AND p.post_id = l.id AND p.end_time > NOW()
			) AS is_premium,
			false AS top_active,
			l.views_count, l.last_refreshed, l.created_at, l.updated_at
		FROM %s l
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC
	`, table)

	listings := make([]Listing, 0)
	if err := r.db.SelectContext(ctx2, &listings, query, userID, t); err != nil {
		return nil, fmt.Errorf("%w: list own listings", ErrInternal)
	}

	for i := range listings {
		listings[i].Type = t
	}
	return listings, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, t PostType, id, userID uuid.UUID, status Status) error {
	table, ok := tableNames[t]
	if !ok {
		return ErrUnknownPostType
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE %s SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, table)

	result, err := r.db.ExecContext(ctx2, query, id, userID, status)
	if err != nil {
		return fmt.Errorf("%w: update status", ErrInternal)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (r *Repository) IncrementViews(ctx context.Context, t PostType, id uuid.UUID) error {
	table, ok := tableNames[t]
	if !ok {
		return ErrUnknownPostType
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`UPDATE %s SET views_count = views_count + 1 WHERE id = $1`, table)
	_, err := r.db.ExecContext(ctx2, query, id)
	if err != nil {
		return fmt.Errorf("%w: increment views", ErrInternal)
	}
	return nil
}

func (r *Repository) Refresh(ctx context.Context, t PostType, id, userID uuid.UUID) error {
	table, ok := tableNames[t]
	if !ok {
		return ErrUnknownPostType
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE %s SET last_refreshed = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'active'
	`, table)

	result, err := r.db.ExecContext(ctx2, query, id, userID)
	if err != nil {
		return fmt.Errorf("%w: refresh listing", ErrInternal)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrListingNotFound
	}
	return nil
}
