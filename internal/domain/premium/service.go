package premium

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/cargoline/cargoline-api/internal/domain/credit"
	"github.com/cargoline/cargoline-api/internal/domain/listing"
	"github.com/cargoline/cargoline-api/internal/domain/sysconfig"
)

// Ledger is the slice of the credit service the premium flow needs.
type Ledger interface {
	SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, cost int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error)
}

// Listings resolves post ownership before a purchase.
type Listings interface {
	GetByID(ctx context.Context, t listing.PostType, id uuid.UUID) (*listing.Listing, error)
}

// Pricing reads configured tier prices.
type Pricing interface {
	GetInt(ctx context.Context, key string) (int64, error)
}

// Service sells premium placement on listings. Activation debits credits and
// writes the premium record in one transaction.
type Service struct {
	store    Store
	listings Listings
	ledger   Ledger
	pricing  Pricing
}

func NewService(store Store, listings Listings, ledger Ledger, pricing Pricing) *Service {
	return &Service{store: store, listings: listings, ledger: ledger, pricing: pricing}
}

// ActivateInput carries the validated purchase request.
type ActivateInput struct {
	PostType      listing.PostType
	PostID        uuid.UUID
	PremiumType   Type
	DurationHours int
}

// Activate purchases a premium tier for a listing the caller owns. Top
// placement sells in 24, 72 or 168 hour windows; highlight and urgent are
// fixed 24-hour purchases. Re-buying an active tier extends its window.
func (s *Service) Activate(ctx context.Context, userID uuid.UUID, input ActivateInput) (*Record, *credit.LedgerEntry, error) {
	hours, err := resolveDuration(input.PremiumType, input.DurationHours)
	if err != nil {
		return nil, nil, err
	}

	cost, err := s.tierCost(ctx, input.PremiumType, hours)
	if err != nil {
		return nil, nil, err
	}

	l, err := s.listings.GetByID(ctx, input.PostType, input.PostID)
	if err != nil {
		return nil, nil, err
	}
	if l.UserID != userID {
		return nil, nil, ErrNotOwner
	}

	params := ActivateParams{
		UserID:      userID,
		PostType:    input.PostType,
		PostID:      input.PostID,
		PremiumType: input.PremiumType,
		Duration:    time.Duration(hours) * time.Hour,
		Cost:        cost,
	}

	var entry *credit.LedgerEntry
	record, err := s.store.Activate(ctx, params, func(tx *sqlx.Tx) error {
		e, err := s.ledger.SpendTx(ctx, tx, userID, cost,
			fmt.Sprintf("activate %s for %dh", input.PremiumType, hours),
			&credit.Reference{Type: string(input.PostType), ID: input.PostID.String()})
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
		Str("post_type", string(input.PostType)).
		Str("post_id", input.PostID.String()).
		Str("premium_type", string(input.PremiumType)).
		Int("duration_hours", hours).
		Int64("cost", cost).
		Time("end_time", record.EndTime).
		Msg("premium activated")

	return record, entry, nil
}

// resolveDuration normalizes the requested window. Zero means "default".
func resolveDuration(t Type, hours int) (int, error) {
	if hours == 0 {
		hours = DefaultDurationHours
	}

	if t == TypeTop {
		if !validTopDurations[hours] {
			return 0, ErrInvalidDuration
		}
		return hours, nil
	}

	// Highlight and urgent only sell in the default window.
	if hours != DefaultDurationHours {
		return 0, ErrInvalidDuration
	}
	return hours, nil
}

func (s *Service) tierCost(ctx context.Context, t Type, hours int) (int64, error) {
	cost, err := s.pricing.GetInt(ctx, sysconfig.PremiumCostKey(string(t), hours))
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

// Status returns all premium records for a post with activity recomputed
// against the current clock.
func (s *Service) Status(ctx context.Context, t listing.PostType, postID uuid.UUID) ([]Record, error) {
	records, err := s.store.GetForPost(ctx, t, postID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range records {
		records[i].IsActive = records[i].ActiveAt(now)
	}

	return records, nil
}

// Sweep flips stale advisory flags. Correctness never depends on it running;
// reads always compare end_time to the clock.
func (s *Service) Sweep(ctx context.Context) (int64, int64, error) {
	return s.store.ExpireStale(ctx)
}
