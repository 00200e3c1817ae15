package premium

import "github.com/cargoline/cargoline-api/internal/domain/credit"

// ActivateRequest is the premium purchase payload. DurationHours only
// matters for top placement; zero selects the 24h default.
type ActivateRequest struct {
	PostType      string `json:"post_type" validate:"required,post_type"`
	PostID        string `json:"post_id" validate:"required,uuid"`
	PremiumType   string `json:"premium_type" validate:"required,premium_type"`
	DurationHours int    `json:"duration_hours" validate:"omitempty,min=0,max=168"`
}

// ActivateResponse returns the premium record and the charge applied for it.
type ActivateResponse struct {
	Record *Record             `json:"record"`
	Charge *credit.LedgerEntry `json:"charge"`
}
