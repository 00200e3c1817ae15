package account

import "github.com/cargoline/cargoline-api/internal/domain/credit"

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RechargeRequest is the top-up payload. Amount is the payment amount in the
// store currency, which must match a configured recharge rate.
type RechargeRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// AuthResponse returns the account and its access token.
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
}

// RechargeResponse returns the grant entry produced by a top-up.
type RechargeResponse struct {
	Entry *credit.LedgerEntry `json:"entry"`
}
