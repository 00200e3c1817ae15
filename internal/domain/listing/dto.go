package listing

import "github.com/cargoline/cargoline-api/internal/domain/credit"

// PublishRequest is the create-listing payload.
type PublishRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

// UpdateStatusRequest toggles a listing's lifecycle state.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PublishResponse returns the created listing and the charge applied for it.
type PublishResponse struct {
	Listing *Listing            `json:"listing"`
	Charge  *credit.LedgerEntry `json:"charge"`
}
