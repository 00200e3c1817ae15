package credit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// service implements the Service interface
type service struct {
	repo Repository
}

// NewService creates a new credit service
func NewService(db *sqlx.DB) Service {
	return &service{repo: NewRepository(db)}
}

// NewServiceWithRepository creates a credit service on an explicit repository
func NewServiceWithRepository(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	return s.repo.GetBalance(ctx, userID.String())
}

func (s *service) Earn(ctx context.Context, userID uuid.UUID, amount int64, description string, ref *Reference) (*LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.Apply(ctx, userID.String(), KindEarn, amount, description, ref)
}

func (s *service) EarnTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, description string, ref *Reference) (*LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.ApplyTx(ctx, tx, userID.String(), KindEarn, amount, description, ref)
}

func (s *service) Spend(ctx context.Context, userID uuid.UUID, cost int64, description string, ref *Reference) (*LedgerEntry, error) {
	if cost <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.Apply(ctx, userID.String(), KindSpend, -cost, description, ref)
}

func (s *service) SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, cost int64, description string, ref *Reference) (*LedgerEntry, error) {
	if cost <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.ApplyTx(ctx, tx, userID.String(), KindSpend, -cost, description, ref)
}

func (s *service) Refund(ctx context.Context, userID uuid.UUID, amount int64, description string, ref *Reference) (*LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.Apply(ctx, userID.String(), KindRefund, amount, description, ref)
}

func (s *service) AdminAdjust(ctx context.Context, userID uuid.UUID, delta int64, description string, ref *Reference) (*LedgerEntry, error) {
	if delta == 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.Apply(ctx, userID.String(), KindAdminAdjust, delta, description, ref)
}

func (s *service) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListEntries(ctx, userID.String(), Pagination{Limit: limit, Offset: offset})
}

func (s *service) SearchEntries(ctx context.Context, filters SearchFilters) ([]LedgerEntry, error) {
	return s.repo.SearchEntries(ctx, filters)
}
