package premium

import (
	"time"

	"github.com/google/uuid"

	"github.com/cargoline/cargoline-api/internal/domain/listing"
)

// Type is a promotional display treatment.
type Type string

const (
	TypeTop       Type = "top"
	TypeHighlight Type = "highlight"
	TypeUrgent    Type = "urgent"
)

// ParseType validates a raw premium type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeTop, TypeHighlight, TypeUrgent:
		return Type(s), nil
	}
	return "", ErrInvalidType
}

// DefaultDurationHours applies to highlight and urgent, and to top when the
// caller omits a duration.
const DefaultDurationHours = 24

// validTopDurations are the sellable top-placement windows, in hours.
var validTopDurations = map[int]bool{24: true, 72: true, 168: true}

// Record is one time-boxed premium purchase. Rows are never deleted; a
// record is semantically inactive once now >= EndTime regardless of the
// advisory IsActive flag.
type Record struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	UserID      uuid.UUID        `db:"user_id" json:"user_id"`
	PostType    listing.PostType `db:"post_type" json:"post_type"`
	PostID      uuid.UUID        `db:"post_id" json:"post_id"`
	PremiumType Type             `db:"premium_type" json:"premium_type"`
	CreditsCost int64            `db:"credits_cost" json:"credits_cost"`
	StartTime   time.Time        `db:"start_time" json:"start_time"`
	EndTime     time.Time        `db:"end_time" json:"end_time"`
	IsActive    bool             `db:"is_active" json:"is_active"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// ActiveAt is the authoritative activity check: now < EndTime.
func (r *Record) ActiveAt(now time.Time) bool {
	return now.Before(r.EndTime)
}

// extendWindow computes the new end time when a tier is re-purchased while
// still active: the bought duration extends from the later of now and the
// current end, so already-paid time is never lost.
func extendWindow(now, currentEnd time.Time, d time.Duration) time.Time {
	base := currentEnd
	if now.After(base) {
		base = now
	}
	return base.Add(d)
}
