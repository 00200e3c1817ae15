package listing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cargoline/cargoline-api/internal/domain/credit"
	"github.com/cargoline/cargoline-api/internal/domain/listing"
	"github.com/cargoline/cargoline-api/internal/domain/sysconfig"
)

type fakeLedger struct {
	balance int64
	entries []credit.LedgerEntry
}

func (f *fakeLedger) Spend(ctx context.Context, userID uuid.UUID, cost int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error) {
	return f.SpendTx(ctx, nil, userID, cost, description, ref)
}

func (f *fakeLedger) SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, cost int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error) {
	if f.balance < cost {
		return nil, &credit.InsufficientCreditsError{
			Required: cost,
			Current:  f.balance,
			Shortage: cost - f.balance,
		}
	}
	f.balance -= cost
	entry := credit.LedgerEntry{
		ID:           uuid.New(),
		UserID:       userID,
		Kind:         credit.KindSpend,
		Amount:       -cost,
		BalanceAfter: f.balance,
		Description:  description,
	}
	if ref != nil {
		entry.ReferenceType = &ref.Type
		entry.ReferenceID = &ref.ID
	}
	f.entries = append(f.entries, entry)
	return &entry, nil
}

type fakeStore struct {
	published []listing.Listing
}

func (f *fakeStore) Publish(ctx context.Context, l *listing.Listing, charge func(tx *sqlx.Tx) error) error {
	// A charge failure rolls the insert back, so nothing is recorded.
	if err := charge(nil); err != nil {
		return err
	}
	f.published = append(f.published, *l)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, t listing.PostType, id uuid.UUID) (*listing.Listing, error) {
	for i := range f.published {
		if f.published[i].ID == id {
			return &f.published[i], nil
		}
	}
	return nil, listing.ErrListingNotFound
}

func (f *fakeStore) List(ctx context.Context, t listing.PostType, p listing.Pagination) ([]listing.Listing, error) {
	return f.published, nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, t listing.PostType, userID uuid.UUID) ([]listing.Listing, error) {
	return f.published, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, t listing.PostType, id, userID uuid.UUID, status listing.Status) error {
	return nil
}

func (f *fakeStore) IncrementViews(ctx context.Context, t listing.PostType, id uuid.UUID) error {
	return nil
}

func (f *fakeStore) Refresh(ctx context.Context, t listing.PostType, id, userID uuid.UUID) error {
	return nil
}

type fakePricing map[string]int64

func (f fakePricing) GetInt(ctx context.Context, key string) (int64, error) {
	v, ok := f[key]
	if !ok {
		return 0, sysconfig.ErrConfigNotFound
	}
	return v, nil
}

func defaultPricing() fakePricing {
	return fakePricing{
		"post_costs.load":    10,
		"post_costs.truck":   10,
		"post_costs.company": 20,
		"post_costs.job":     15,
		"post_costs.resume":  5,
	}
}

func TestPublishChargesAndCreates(t *testing.T) {
	ledger := &fakeLedger{balance: 100}
	store := &fakeStore{}
	svc := listing.NewService(store, ledger, defaultPricing())

	userID := uuid.New()
	l, entry, err := svc.Publish(context.Background(), userID, listing.PostTypeLoad, listing.PublishInput{
		Title: "Hamburg to Rotterdam, 24t",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l.Status != listing.StatusActive {
		t.Fatalf("expected active listing, got %s", l.Status)
	}
	if entry.Amount != -10 || entry.BalanceAfter != 90 {
		t.Fatalf("unexpected charge entry: %+v", entry)
	}
	if entry.ReferenceType == nil || *entry.ReferenceType != "load" || *entry.ReferenceID != l.ID.String() {
		t.Fatalf("charge entry not tied to the listing: %+v", entry)
	}
	if len(store.published) != 1 {
		t.Fatalf("expected 1 published listing, got %d", len(store.published))
	}
	if ledger.balance != 90 {
		t.Fatalf("expected balance 90, got %d", ledger.balance)
	}
}

func TestPublishInsufficientCreditsLeavesNothing(t *testing.T) {
	ledger := &fakeLedger{balance: 5}
	store := &fakeStore{}
	svc := listing.NewService(store, ledger, defaultPricing())

	_, _, err := svc.Publish(context.Background(), uuid.New(), listing.PostTypeLoad, listing.PublishInput{
		Title: "Hamburg to Rotterdam, 24t",
	})
	if !errors.Is(err, credit.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}

	var insufficient *credit.InsufficientCreditsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected *InsufficientCreditsError, got %T", err)
	}
	if insufficient.Shortage != 5 {
		t.Fatalf("expected shortage 5, got %d", insufficient.Shortage)
	}

	if len(store.published) != 0 {
		t.Fatal("a failed charge must not leave a published listing")
	}
	if ledger.balance != 5 {
		t.Fatalf("balance must be untouched, got %d", ledger.balance)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("expected no ledger entries, got %d", len(ledger.entries))
	}
}

func TestPublishUnknownPostType(t *testing.T) {
	svc := listing.NewService(&fakeStore{}, &fakeLedger{balance: 100}, defaultPricing())

	_, _, err := svc.Publish(context.Background(), uuid.New(), listing.PostType("boat"), listing.PublishInput{Title: "x"})
	if !errors.Is(err, listing.ErrUnknownPostType) {
		t.Fatalf("expected ErrUnknownPostType, got %v", err)
	}
}

func TestPublishPricingUnavailable(t *testing.T) {
	pricing := defaultPricing()
	delete(pricing, "post_costs.resume")
	ledger := &fakeLedger{balance: 100}
	store := &fakeStore{}
	svc := listing.NewService(store, ledger, pricing)

	_, _, err := svc.Publish(context.Background(), uuid.New(), listing.PostTypeResume, listing.PublishInput{Title: "Driver, class CE"})
	if !errors.Is(err, listing.ErrPricingUnavailable) {
		t.Fatalf("expected ErrPricingUnavailable, got %v", err)
	}
	if len(store.published) != 0 || ledger.balance != 100 {
		t.Fatal("missing pricing must block publishing entirely")
	}
}

func TestChargeForPost(t *testing.T) {
	ledger := &fakeLedger{balance: 30}
	svc := listing.NewService(&fakeStore{}, ledger, defaultPricing())

	postID := uuid.New()
	entry, err := svc.ChargeForPost(context.Background(), uuid.New(), listing.PostTypeJob, postID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Amount != -15 || ledger.balance != 15 {
		t.Fatalf("unexpected charge: entry=%+v balance=%d", entry, ledger.balance)
	}
}
