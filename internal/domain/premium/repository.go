package premium

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cargoline/cargoline-api/internal/domain/listing"
)

const queryTimeout = 5 * time.Second

// ActivateParams describes one validated premium purchase.
type ActivateParams struct {
	UserID      uuid.UUID
	PostType    listing.PostType
	PostID      uuid.UUID
	PremiumType Type
	Duration    time.Duration
	Cost        int64
}

// Store defines premium record persistence.
type Store interface {
	// Activate runs the debit (via charge), the premium record write and the
	// listing flag update in one transaction. An active record of the same
	// tier on the same post is extended instead of duplicated.
	Activate(ctx context.Context, p ActivateParams, charge func(tx *sqlx.Tx) error) (*Record, error)
	GetForPost(ctx context.Context, t listing.PostType, postID uuid.UUID) ([]Record, error)
	// ExpireStale flips stale advisory flags; returns flipped record and
	// listing counts. Read paths never depend on it.
	ExpireStale(ctx context.Context) (records int64, listings int64, err error)
}

// Repository implements Store on Postgres.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Activate(ctx context.Context, p ActivateParams, charge func(tx *sqlx.Tx) error) (*Record, error) {
	table, ok := listing.TableName(p.PostType)
	if !ok {
		return nil, listing.ErrUnknownPostType
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	if err := charge(tx); err != nil {
		return nil, err
	}

	record, err := r.upsertRecord(ctx2, tx, p)
	if err != nil {
		return nil, err
	}

	// Cached flag for external consumers; reads derive activity from end_time.
	flagQuery := fmt.Sprintf(`UPDATE %s SET is_premium = true, updated_at = NOW() WHERE id = $1`, table)
	if _, err := tx.ExecContext(ctx2, flagQuery, p.PostID); err != nil {
		return nil, fmt.Errorf("%w: set premium flag", ErrInternal)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return record, nil
}

// upsertRecord extends a still-active record of the same tier, or inserts a
// fresh one. The active row is locked so two concurrent purchases of the
// same tier serialize.
func (r *Repository) upsertRecord(ctx context.Context, tx *sqlx.Tx, p ActivateParams) (*Record, error) {
	var existing Record
	err := tx.QueryRowContext(ctx, `
		SELECT id, user_id, post_type, post_id, premium_type, credits_cost, start_time, end_time, is_active, created_at
		FROM premium_records
		WHERE post_type = $1 AND post_id = $2 AND premium_type = $3 AND end_time > NOW()
		ORDER BY end_time DESC
		LIMIT 1
		FOR UPDATE
	`, p.PostType, p.PostID, p.PremiumType).Scan(
		&existing.ID, &existing.UserID, &existing.PostType, &existing.PostID,
		&existing.PremiumType, &existing.CreditsCost, &existing.StartTime,
		&existing.EndTime, &existing.IsActive, &existing.CreatedAt,
	)

	switch {
	case err == nil:
		newEnd := extendWindow(time.Now(), existing.EndTime, p.Duration)
		_, err := tx.ExecContext(ctx, `
			UPDATE premium_records SET end_time = $2, is_active = true WHERE id = $1
		`, existing.ID, newEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: extend premium record", ErrInternal)
		}
		existing.EndTime = newEnd
		existing.IsActive = true
		return &existing, nil

	case errors.Is(err, sql.ErrNoRows):
		record := Record{
			ID:          uuid.New(),
			UserID:      p.UserID,
			PostType:    p.PostType,
			PostID:      p.PostID,
			PremiumType: p.PremiumType,
			CreditsCost: p.Cost,
			IsActive:    true,
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO premium_records (
				id, user_id, post_type, post_id, premium_type, credits_cost, start_time, end_time, is_active
			)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW() + make_interval(secs => $7), true)
			RETURNING start_time, end_time, created_at
		`, record.ID, record.UserID, record.PostType, record.PostID,
			record.PremiumType, record.CreditsCost, p.Duration.Seconds(),
		).Scan(&record.StartTime, &record.EndTime, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: insert premium record", ErrInternal)
		}
		return &record, nil

	default:
		return nil, fmt.Errorf("%w: lock premium record", ErrInternal)
	}
}

func (r *Repository) GetForPost(ctx context.Context, t listing.PostType, postID uuid.UUID) ([]Record, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	records := make([]Record, 0)
	err := r.db.SelectContext(ctx2, &records, `
		SELECT id, user_id, post_type, post_id, premium_type, credits_cost, start_time, end_time, is_active, created_at
		FROM premium_records
		WHERE post_type = $1 AND post_id = $2
		ORDER BY created_at DESC
	`, t, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: get premium records", ErrInternal)
	}

	return records, nil
}

func (r *Repository) ExpireStale(ctx context.Context) (int64, int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE premium_records SET is_active = false
		WHERE is_active = true AND end_time <= NOW()
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: expire premium records", ErrInternal)
	}
	recordCount, _ := result.RowsAffected()

	var listingCount int64
	for _, t := range listing.AllPostTypes {
		table, _ := listing.TableName(t)
		query := fmt.Sprintf(`
			UPDATE %s l SET is_premium = false, updated_at = NOW()
			WHERE l.is_premium = true AND NOT EXISTS (
				SELECT 1 FROM premium_records p
				WHERE p.post_type = $1 AND p.post_id = l.id AND p.end_time > NOW()
			)
		`, table)

		result, err := r.db.ExecContext(ctx2, query, t)
		if err != nil {
			return recordCount, listingCount, fmt.Errorf("%w: clear premium flags on %s", ErrInternal, table)
		}
		n, _ := result.RowsAffected()
		listingCount += n
	}

	return recordCount, listingCount, nil
}
