package premium

import "errors"

var (
	// ErrInvalidType is returned for a premium type outside {top, highlight, urgent}
	ErrInvalidType = errors.New("invalid premium type")

	// ErrInvalidDuration is returned when a top placement is requested for a
	// duration other than 24, 72 or 168 hours
	ErrInvalidDuration = errors.New("invalid premium duration")

	// ErrPricingUnavailable is returned when the tier's price is not
	// configured; the tier is not purchasable rather than free
	ErrPricingUnavailable = errors.New("premium pricing unavailable")

	ErrNotOwner = errors.New("you do not own this listing")

	ErrInternal = errors.New("internal error")
)
