package listing

import "errors"

var (
	// ErrUnknownPostType is returned for a post type outside the five-element set
	ErrUnknownPostType = errors.New("unknown post type")

	// ErrPricingUnavailable is returned when the publish fee for a post type
	// is not configured; publishing is blocked rather than free
	ErrPricingUnavailable = errors.New("publish pricing unavailable")

	ErrListingNotFound = errors.New("listing not found")
	ErrNotOwner        = errors.New("you do not own this listing")
	ErrInvalidStatus   = errors.New("invalid listing status")

	ErrInternal = errors.New("internal error")
)
