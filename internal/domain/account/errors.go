package account

import "errors"

var (
	// ErrEmailTaken is returned when the email already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned for lookups of a missing account
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidRechargeAmount is returned for a payment amount outside the
	// configured recharge rate table
	ErrInvalidRechargeAmount = errors.New("invalid recharge amount")

	// ErrRechargeUnavailable is returned when the recharge rate table is
	// missing or malformed; recharging is disabled rather than guessed
	ErrRechargeUnavailable = errors.New("recharge temporarily unavailable")

	ErrInternal = errors.New("internal error")
)
