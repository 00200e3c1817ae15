package credit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Service defines the credit ledger operations exposed to the rest of the
// system. All mutations funnel into Repository.Apply/ApplyTx; no other code
// path writes balance fields.
type Service interface {
	// GetBalance returns the current balance snapshot for a user
	GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error)

	// Earn credits a positive amount (registration bonus, recharge)
	Earn(ctx context.Context, userID uuid.UUID, amount int64, description string, ref *Reference) (*LedgerEntry, error)

	// EarnTx credits within an external transaction (e.g. user registration)
	EarnTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, description string, ref *Reference) (*LedgerEntry, error)

	// Spend debits a positive cost; fails with InsufficientCreditsError
	// (and zero mutation) when the balance cannot cover it
	Spend(ctx context.Context, userID uuid.UUID, cost int64, description string, ref *Reference) (*LedgerEntry, error)

	// SpendTx debits within an external transaction. Used when the debit must
	// be atomic with another operation (listing publish, premium activation).
	SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, cost int64, description string, ref *Reference) (*LedgerEntry, error)

	// Refund credits back a positive amount previously spent
	Refund(ctx context.Context, userID uuid.UUID, amount int64, description string, ref *Reference) (*LedgerEntry, error)

	// AdminAdjust applies a non-zero delta of either sign
	AdminAdjust(ctx context.Context, userID uuid.UUID, delta int64, description string, ref *Reference) (*LedgerEntry, error)

	// ListEntries returns paginated ledger history for a user
	ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]LedgerEntry, error)

	// SearchEntries returns filtered entries (for admin use)
	SearchEntries(ctx context.Context, filters SearchFilters) ([]LedgerEntry, error)
}
