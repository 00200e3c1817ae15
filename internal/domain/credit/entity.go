package credit

import (
	"time"

	"github.com/google/uuid"
)

// Kind defines supported ledger entry kinds.
type Kind string

const (
	KindEarn        Kind = "earn"
	KindSpend       Kind = "spend"
	KindRefund      Kind = "refund"
	KindAdminAdjust Kind = "admin_adjust"
)

// Reference ties a ledger entry to the action that caused it: one of the
// five post types, or "recharge"/"registration".
type Reference struct {
	Type string
	ID   string
}

// Balance is the snapshot of a user's credit accounting fields.
// Current == TotalEarned - TotalSpent at all times.
type Balance struct {
	Current     int64 `db:"current_balance" json:"current"`
	TotalEarned int64 `db:"total_earned" json:"total_earned"`
	TotalSpent  int64 `db:"total_spent" json:"total_spent"`
}

// LedgerEntry is one immutable balance-changing event. Amount is signed:
// negative for spend, positive for earn/refund, either for admin_adjust.
type LedgerEntry struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Kind          Kind      `db:"kind" json:"kind"`
	Amount        int64     `db:"amount" json:"amount"`
	BalanceAfter  int64     `db:"balance_after" json:"balance_after"`
	Description   string    `db:"description" json:"description"`
	ReferenceType *string   `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID   *string   `db:"reference_id" json:"reference_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Pagination controls simple list pagination.
type Pagination struct {
	Limit  int
	Offset int
}

// SearchFilters provides admin-facing ledger filtering.
type SearchFilters struct {
	UserID        *string
	Kind          *string
	DateFrom      *time.Time
	DateTo        *time.Time
	ReferenceType *string
	ReferenceID   *string
	Limit         int
	Offset        int
}
