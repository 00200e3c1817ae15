package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository is the only component allowed to mutate balance fields on users.
type Repository interface {
	Apply(ctx context.Context, userID string, kind Kind, amount int64, description string, ref *Reference) (*LedgerEntry, error)
	ApplyTx(ctx context.Context, tx *sqlx.Tx, userID string, kind Kind, amount int64, description string, ref *Reference) (*LedgerEntry, error)
	GetBalance(ctx context.Context, userID string) (*Balance, error)
	ListEntries(ctx context.Context, userID string, pagination Pagination) ([]LedgerEntry, error)
	SearchEntries(ctx context.Context, filters SearchFilters) ([]LedgerEntry, error)
}

// LedgerRepository provides balance and ledger operations on Postgres.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Apply executes one balance-changing event in its own transaction: balance
// fields and the ledger row commit together or not at all.
func (r *LedgerRepository) Apply(ctx context.Context, userID string, kind Kind, amount int64, description string, ref *Reference) (*LedgerEntry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	entry, err := r.ApplyTx(ctx2, tx, userID, kind, amount, description, ref)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return entry, nil
}

// ApplyTx executes a balance-changing event inside a caller-owned transaction.
// The user row is locked FOR UPDATE for the read-check-write sequence, so two
// concurrent spends cannot jointly overdraw. The caller commits or rolls back.
func (r *LedgerRepository) ApplyTx(ctx context.Context, tx *sqlx.Tx, userID string, kind Kind, amount int64, description string, ref *Reference) (*LedgerEntry, error) {
	if err := checkKindAmount(kind, amount); err != nil {
		return nil, err
	}

	var bal Balance
	err := tx.QueryRowContext(ctx, `
		SELECT current_balance, total_earned, total_spent
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&bal.Current, &bal.TotalEarned, &bal.TotalSpent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: lock user row", ErrInternal)
	}

	next := bal.Current + amount
	if next < 0 {
		return nil, &InsufficientCreditsError{
			Required: -amount,
			Current:  bal.Current,
			Shortage: -next,
		}
	}

	// Negative adjustments count as spent, positive as earned, so the
	// current == earned - spent invariant holds for admin_adjust too.
	earned, spent := bal.TotalEarned, bal.TotalSpent
	if amount >= 0 {
		earned += amount
	} else {
		spent += -amount
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET current_balance = $2, total_earned = $3, total_spent = $4, updated_at = NOW()
		WHERE id = $1
	`, userID, next, earned, spent)
	if err != nil {
		return nil, fmt.Errorf("%w: update user balance", ErrInternal)
	}

	return insertEntry(ctx, tx, userID, kind, amount, next, description, ref)
}

func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (*Balance, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var bal Balance
	err := r.db.GetContext(ctx2, &bal, `
		SELECT current_balance, total_earned, total_spent
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: get balance", ErrInternal)
	}

	return &bal, nil
}

func (r *LedgerRepository) ListEntries(ctx context.Context, userID string, pagination Pagination) ([]LedgerEntry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := pagination.Limit
	if limit <= 0 {
		limit = 20
	}

	entries := make([]LedgerEntry, 0)
	err := r.db.SelectContext(ctx2, &entries, `
		SELECT id, user_id, kind, amount, balance_after, description, reference_type, reference_id, created_at
		FROM credit_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, pagination.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list entries", ErrInternal)
	}

	return entries, nil
}

func (r *LedgerRepository) SearchEntries(ctx context.Context, filters SearchFilters) ([]LedgerEntry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	base := `
		SELECT id, user_id, kind, amount, balance_after, description, reference_type, reference_id, created_at
		FROM credit_entries
		WHERE 1=1`
	args := make([]interface{}, 0, 8)
	idx := 1

	if filters.UserID != nil && *filters.UserID != "" {
		base += fmt.Sprintf(" AND user_id = $%d", idx)
		args = append(args, *filters.UserID)
		idx++
	}
	if filters.Kind != nil && *filters.Kind != "" {
		base += fmt.Sprintf(" AND kind = $%d", idx)
		args = append(args, *filters.Kind)
		idx++
	}
	if filters.DateFrom != nil {
		base += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *filters.DateFrom)
		idx++
	}
	if filters.DateTo != nil {
		base += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *filters.DateTo)
		idx++
	}
	if filters.ReferenceType != nil && *filters.ReferenceType != "" {
		base += fmt.Sprintf(" AND reference_type = $%d", idx)
		args = append(args, *filters.ReferenceType)
		idx++
	}
	if filters.ReferenceID != nil && *filters.ReferenceID != "" {
		base += fmt.Sprintf(" AND reference_id = $%d", idx)
		args = append(args, *filters.ReferenceID)
		idx++
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	base = strings.TrimSpace(base) + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, filters.Offset)

	entries := make([]LedgerEntry, 0)
	if err := r.db.SelectContext(ctx2, &entries, base, args...); err != nil {
		return nil, fmt.Errorf("%w: search entries", ErrInternal)
	}

	return entries, nil
}

func insertEntry(ctx context.Context, tx *sqlx.Tx, userID string, kind Kind, amount, balanceAfter int64, description string, ref *Reference) (*LedgerEntry, error) {
	if strings.TrimSpace(description) == "" {
		description = "credit balance adjustment"
	}

	var refType, refID *string
	if ref != nil {
		refType, refID = &ref.Type, &ref.ID
	}

	entry := LedgerEntry{
		Kind:          kind,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		Description:   description,
		ReferenceType: refType,
		ReferenceID:   refID,
	}

	err := tx.QueryRowContext(ctx, `
		INSERT INTO credit_entries (
			id, user_id, kind, amount, balance_after, description, reference_type, reference_id
		)
		VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id, user_id, created_at
	`, userID, kind, amount, balanceAfter, description, refType, refID).
		Scan(&entry.ID, &entry.UserID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert ledger entry", ErrInternal)
	}

	return &entry, nil
}

// checkKindAmount enforces the sign conventions per entry kind.
func checkKindAmount(kind Kind, amount int64) error {
	switch kind {
	case KindEarn, KindRefund:
		if amount <= 0 {
			return ErrInvalidAmount
		}
	case KindSpend:
		if amount >= 0 {
			return ErrInvalidAmount
		}
	case KindAdminAdjust:
		if amount == 0 {
			return ErrInvalidAmount
		}
	default:
		return ErrInvalidAmount
	}
	return nil
}
