package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/cargoline/cargoline-api/internal/domain/credit"
	"github.com/cargoline/cargoline-api/internal/domain/sysconfig"
	"github.com/cargoline/cargoline-api/internal/pkg/jwt"
	"github.com/cargoline/cargoline-api/internal/pkg/password"
)

// Ledger is the slice of the credit service the account flow needs.
type Ledger interface {
	EarnTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error)
	Earn(ctx context.Context, userID uuid.UUID, amount int64, description string, ref *credit.Reference) (*credit.LedgerEntry, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*credit.Balance, error)
	ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]credit.LedgerEntry, error)
}

// Config reads account-related settings.
type Config interface {
	GetInt(ctx context.Context, key string) (int64, error)
	GetIntMap(ctx context.Context, key string) (map[string]int64, error)
}

// Service handles registration, login and credit top-ups.
type Service struct {
	repo   Repository
	ledger Ledger
	config Config
	jwt    *jwt.Service
}

func NewService(repo Repository, ledger Ledger, config Config, jwtService *jwt.Service) *Service {
	return &Service{repo: repo, ledger: ledger, config: config, jwt: jwtService}
}

// Register creates an account and grants the configured welcome bonus in the
// same transaction. A missing bonus key means zero bonus, not a failed
// registration.
func (s *Service) Register(ctx context.Context, email, plainPassword string) (*User, string, error) {
	email = normalizeEmail(email)

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%w: hash password", ErrInternal)
	}

	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
	}

	bonus := s.registrationBonus(ctx)

	err = s.repo.Create(ctx, u, func(tx *sqlx.Tx) error {
		if bonus <= 0 {
			return nil
		}
		entry, err := s.ledger.EarnTx(ctx, tx, u.ID, bonus, "registration bonus",
			&credit.Reference{Type: "registration", ID: u.ID.String()})
		if err != nil {
			return err
		}
		u.CurrentBalance = entry.BalanceAfter
		u.TotalEarned = entry.BalanceAfter
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, "", fmt.Errorf("%w: sign token", ErrInternal)
	}

	log.Info().
		Str("user_id", u.ID.String()).
		Int64("bonus", bonus).
		Msg("user registered")

	return u, token, nil
}

func (s *Service) registrationBonus(ctx context.Context) int64 {
	bonus, err := s.config.GetInt(ctx, sysconfig.KeyRegistrationBonus)
	if err != nil {
		if !errors.Is(err, sysconfig.ErrConfigNotFound) {
			log.Warn().Err(err).Msg("registration bonus lookup failed, granting nothing")
		}
		return 0
	}
	if bonus < 0 {
		return 0
	}
	return bonus
}

// Login authenticates by email and password.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !password.Verify(plainPassword, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, "", fmt.Errorf("%w: sign token", ErrInternal)
	}

	return u, token, nil
}

// Recharge converts a payment into credits using the configured rate table.
// The table maps payment amounts to credit grants, so bulk top-ups can carry
// bonus credits. Payment capture itself is out of scope; the payment ID
// recorded here is the gateway's reference.
func (s *Service) Recharge(ctx context.Context, userID uuid.UUID, paymentAmount int64) (*credit.LedgerEntry, error) {
	rates, err := s.config.GetIntMap(ctx, sysconfig.KeyRechargeRates)
	if err != nil {
		if errors.Is(err, sysconfig.ErrConfigNotFound) || errors.Is(err, sysconfig.ErrTypeMismatch) {
			return nil, ErrRechargeUnavailable
		}
		return nil, err
	}

	credits, ok := rates[strconv.FormatInt(paymentAmount, 10)]
	if !ok || credits <= 0 {
		return nil, ErrInvalidRechargeAmount
	}

	paymentID := uuid.New().String()
	entry, err := s.ledger.Earn(ctx, userID, credits,
		fmt.Sprintf("recharge %d", paymentAmount),
		&credit.Reference{Type: "recharge", ID: paymentID})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("payment_id", paymentID).
		Int64("payment_amount", paymentAmount).
		Int64("credits", credits).
		Msg("balance recharged")

	return entry, nil
}

// Balance returns the caller's credit snapshot.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (*credit.Balance, error) {
	return s.ledger.GetBalance(ctx, userID)
}

// Transactions returns the caller's paginated ledger history.
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]credit.LedgerEntry, error) {
	return s.ledger.ListEntries(ctx, userID, limit, offset)
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}
