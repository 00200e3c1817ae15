package account_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cargoline/cargoline-api/internal/domain/account"
	"github.com/cargoline/cargoline-api/internal/domain/credit"
	"github.com/cargoline/cargoline-api/internal/domain/sysconfig"
	"github.com/cargoline/cargoline-api/internal/pkg/jwt"
)

type fakeRepo struct {
	users map[string]*account.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*account.User)}
}

func (f *fakeRepo) Create(ctx context.Context, u *account.User, grant func(tx *sqlx.Tx) error) error {
	if _, ok := f.users[u.Email]; ok {
		return account.ErrEmailTaken
	}
	if grant != nil {
		// A failed grant rolls the insert back.
		if err := grant(nil); err != nil {
			return err
		}
	}
	f.users[u.Email] = u
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, account.ErrUserNotFound
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, account.ErrUserNotFound
	}
	return u, nil
}

type fakeLedger struct {
	balances map[uuid.UUID]*credit.Balance
	entries  []credit.LedgerEntry
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[uuid.UUID]*credit.Balance)}
}

func (f *fakeLedger) earn(userID uuid.UUID, amount int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error) {
	if amount <= 0 {
		return nil, credit.ErrInvalidAmount
	}
	bal, ok := f.balances[userID]
	if !ok {
		bal = &credit.Balance{}
		f.balances[userID] = bal
	}
	bal.Current += amount
	bal.TotalEarned += amount

	entry := credit.LedgerEntry{
		ID:           uuid.New(),
		UserID:       userID,
		Kind:         credit.KindEarn,
		Amount:       amount,
		BalanceAfter: bal.Current,
		Description:  description,
	}
	if ref != nil {
		entry.ReferenceType = &ref.Type
		entry.ReferenceID = &ref.ID
	}
	f.entries = append(f.entries, entry)
	return &entry, nil
}

func (f *fakeLedger) Earn(ctx context.Context, userID uuid.UUID, amount int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error) {
	return f.earn(userID, amount, description, ref)
}

func (f *fakeLedger) EarnTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error) {
	return f.earn(userID, amount, description, ref)
}

func (f *fakeLedger) GetBalance(ctx context.Context, userID uuid.UUID) (*credit.Balance, error) {
	bal, ok := f.balances[userID]
	if !ok {
		return &credit.Balance{}, nil
	}
	return bal, nil
}

func (f *fakeLedger) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]credit.LedgerEntry, error) {
	var out []credit.LedgerEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeConfig struct {
	ints map[string]int64
	maps map[string]map[string]int64
}

func (f *fakeConfig) GetInt(ctx context.Context, key string) (int64, error) {
	v, ok := f.ints[key]
	if !ok {
		return 0, sysconfig.ErrConfigNotFound
	}
	return v, nil
}

func (f *fakeConfig) GetIntMap(ctx context.Context, key string) (map[string]int64, error) {
	v, ok := f.maps[key]
	if !ok {
		return nil, sysconfig.ErrConfigNotFound
	}
	return v, nil
}

func testJWT() *jwt.Service {
	return jwt.NewService("test-secret", time.Minute)
}

func TestRegisterGrantsBonus(t *testing.T) {
	repo := newFakeRepo()
	ledger := newFakeLedger()
	cfg := &fakeConfig{ints: map[string]int64{sysconfig.KeyRegistrationBonus: 100}}
	svc := account.NewService(repo, ledger, cfg, testJWT())

	u, token, err := svc.Register(context.Background(), "Driver@Example.COM ", "s3cretpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected an access token")
	}
	if u.Email != "driver@example.com" {
		t.Fatalf("email must be normalized, got %q", u.Email)
	}

	bal, _ := ledger.GetBalance(context.Background(), u.ID)
	if bal.Current != 100 || bal.TotalEarned != 100 || bal.TotalSpent != 0 {
		t.Fatalf("expected 100/100/0 after registration, got %+v", bal)
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(ledger.entries))
	}
	entry := ledger.entries[0]
	if entry.Kind != credit.KindEarn || entry.Amount != 100 {
		t.Fatalf("unexpected bonus entry: %+v", entry)
	}
	if entry.ReferenceType == nil || *entry.ReferenceType != "registration" {
		t.Fatalf("bonus entry must reference the registration: %+v", entry)
	}
}

func TestRegisterNoBonusConfigured(t *testing.T) {
	repo := newFakeRepo()
	ledger := newFakeLedger()
	cfg := &fakeConfig{}
	svc := account.NewService(repo, ledger, cfg, testJWT())

	u, _, err := svc.Register(context.Background(), "driver@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("a missing bonus key must not block registration: %v", err)
	}

	bal, _ := ledger.GetBalance(context.Background(), u.ID)
	if bal.Current != 0 {
		t.Fatalf("expected zero balance, got %d", bal.Current)
	}
	if len(ledger.entries) != 0 {
		t.Fatal("a zero bonus must not write a ledger entry")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := account.NewService(repo, newFakeLedger(), &fakeConfig{}, testJWT())

	if _, _, err := svc.Register(context.Background(), "driver@example.com", "s3cretpass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err := svc.Register(context.Background(), "DRIVER@example.com", "otherpass1")
	if !errors.Is(err, account.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := account.NewService(repo, newFakeLedger(), &fakeConfig{}, testJWT())

	if _, _, err := svc.Register(context.Background(), "driver@example.com", "s3cretpass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, token, err := svc.Login(context.Background(), "driver@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil || token == "" {
		t.Fatal("expected a user and a token")
	}

	if _, _, err := svc.Login(context.Background(), "driver@example.com", "wrongpass"); !errors.Is(err, account.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for a wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cretpass"); !errors.Is(err, account.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for an unknown email, got %v", err)
	}
}

func TestRecharge(t *testing.T) {
	ledger := newFakeLedger()
	cfg := &fakeConfig{maps: map[string]map[string]int64{
		sysconfig.KeyRechargeRates: {"5": 50, "10": 110, "20": 240},
	}}
	svc := account.NewService(newFakeRepo(), ledger, cfg, testJWT())

	userID := uuid.New()
	entry, err := svc.Recharge(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Amount != 110 || entry.BalanceAfter != 110 {
		t.Fatalf("expected 110 credits for a 10 payment, got %+v", entry)
	}
	if entry.ReferenceType == nil || *entry.ReferenceType != "recharge" || entry.ReferenceID == nil {
		t.Fatalf("recharge entry must carry a payment reference: %+v", entry)
	}
	if !strings.HasPrefix(entry.Description, "recharge") {
		t.Fatalf("unexpected description %q", entry.Description)
	}
}

func TestRechargeUnknownAmount(t *testing.T) {
	cfg := &fakeConfig{maps: map[string]map[string]int64{
		sysconfig.KeyRechargeRates: {"5": 50, "10": 110, "20": 240},
	}}
	svc := account.NewService(newFakeRepo(), newFakeLedger(), cfg, testJWT())

	_, err := svc.Recharge(context.Background(), uuid.New(), 7)
	if !errors.Is(err, account.ErrInvalidRechargeAmount) {
		t.Fatalf("expected ErrInvalidRechargeAmount, got %v", err)
	}
}

func TestRechargeRatesMissing(t *testing.T) {
	svc := account.NewService(newFakeRepo(), newFakeLedger(), &fakeConfig{}, testJWT())

	_, err := svc.Recharge(context.Background(), uuid.New(), 10)
	if !errors.Is(err, account.ErrRechargeUnavailable) {
		t.Fatalf("expected ErrRechargeUnavailable, got %v", err)
	}
}
