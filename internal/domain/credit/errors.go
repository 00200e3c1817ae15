package credit

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientCredits is returned when a spend would overdraw the balance
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInvalidAmount is returned when the amount sign does not match the entry kind
	ErrInvalidAmount = errors.New("invalid amount for entry kind")

	// ErrUserNotFound is returned when the user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	ErrInternal = errors.New("internal error")
)

// InsufficientCreditsError carries the shortfall so callers can prompt a top-up.
type InsufficientCreditsError struct {
	Required int64
	Current  int64
	Shortage int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required %d, current %d, shortage %d",
		e.Required, e.Current, e.Shortage)
}

// Unwrap makes errors.Is(err, ErrInsufficientCredits) hold.
func (e *InsufficientCreditsError) Unwrap() error {
	return ErrInsufficientCredits
}
