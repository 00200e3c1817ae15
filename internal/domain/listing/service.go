package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/cargoline/cargoline-api/internal/domain/credit"
	"github.com/cargoline/cargoline-api/internal/domain/sysconfig"
)

// Ledger is the slice of the credit service the listing flow needs.
type Ledger interface {
	Spend(ctx context.Context, userID uuid.UUID, cost int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error)
	SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, cost int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error)
}

// Pricing reads configured publish fees.
type Pricing interface {
	GetInt(ctx context.Context, key string) (int64, error)
}

// Service publishes and manages the five content types. Publishing and the
// credit debit run in one transaction: a failed charge never leaves an
// unpaid listing behind.
type Service struct {
	store   Store
	ledger  Ledger
	pricing Pricing
}

func NewService(store Store, ledger Ledger, pricing Pricing) *Service {
	return &Service{store: store, ledger: ledger, pricing: pricing}
}

// PublishInput carries the user-supplied listing fields.
type PublishInput struct {
	Title       string
	Description string
}

// Publish creates a listing and debits the configured publish fee atomically.
func (s *Service) Publish(ctx context.Context, userID uuid.UUID, t PostType, input PublishInput) (*Listing, *credit.LedgerEntry, error) {
	cost, err := s.postCost(ctx, t)
	if err != nil {
		return nil, nil, err
	}

	l := &Listing{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        t,
		Title:       input.Title,
		Description: input.Description,
		Status:      StatusActive,
	}

	var entry *credit.LedgerEntry
	err = s.store.Publish(ctx, l, func(tx *sqlx.Tx) error {
		e, err := s.ledger.SpendTx(ctx, tx, userID, cost,
			fmt.Sprintf("publish %s", t),
			&credit.Reference{Type: string(t), ID: l.ID.String()})
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("post_type", string(t)).
		Str("post_id", l.ID.String()).
		Int64("cost", cost).
		Msg("listing published")

	return l, entry, nil
}

// ChargeForPost debits the standard publish fee for an already existing
// listing, used by relist flows where the row predates the charge.
func (s *Service) ChargeForPost(ctx context.Context, userID uuid.UUID, t PostType, postID uuid.UUID) (*credit.LedgerEntry, error) {
	cost, err := s.postCost(ctx, t)
	if err != nil {
		return nil, err
	}

	return s.ledger.Spend(ctx, userID, cost,
		fmt.Sprintf("publish %s", t),
		&credit.Reference{Type: string(t), ID: postID.String()})
}

func (s *Service) postCost(ctx context.Context, t PostType) (int64, error) {
	if _, ok := tableNames[t]; !ok {
		return 0, ErrUnknownPostType
	}

	cost, err := s.pricing.GetInt(ctx, sysconfig.PostCostKey(string(t)))
	if err != nil {
		if errors.Is(err, sysconfig.ErrConfigNotFound) || errors.Is(err, sysconfig.ErrTypeMismatch) {
			return 0, ErrPricingUnavailable
		}
		return 0, err
	}
	if cost < 0 {
		return 0, ErrPricingUnavailable
	}
	return cost, nil
}

func (s *Service) Get(ctx context.Context, t PostType, id uuid.UUID) (*Listing, error) {
	l, err := s.store.GetByID(ctx, t, id)
	if err != nil {
		return nil, err
	}

	// View counting is best effort; a miss never fails the read.
	if err := s.store.IncrementViews(ctx, t, id); err != nil {
		log.Warn().Err(err).Str("post_id", id.String()).Msg("failed to increment views")
	} else {
		l.ViewsCount++
	}

	return l, nil
}

func (s *Service) List(ctx context.Context, t PostType, pagination Pagination) ([]Listing, error) {
	return s.store.List(ctx, t, pagination)
}

func (s *Service) ListOwn(ctx context.Context, t PostType, userID uuid.UUID) ([]Listing, error) {
	return s.store.ListByOwner(ctx, t, userID)
}

func (s *Service) UpdateStatus(ctx context.Context, userID uuid.UUID, t PostType, id uuid.UUID, status Status) error {
	return s.store.UpdateStatus(ctx, t, id, userID, status)
}

func (s *Service) Refresh(ctx context.Context, userID uuid.UUID, t PostType, id uuid.UUID) error {
	return s.store.Refresh(ctx, t, id, userID)
}
