package listing

import (
	"time"

	"github.com/google/uuid"
)

// PostType is one of the five content categories that can be published
// and promoted.
type PostType string

const (
	PostTypeLoad    PostType = "load"
	PostTypeTruck   PostType = "truck"
	PostTypeCompany PostType = "company"
	PostTypeJob     PostType = "job"
	PostTypeResume  PostType = "resume"
)

// AllPostTypes lists every valid post type.
var AllPostTypes = []PostType{PostTypeLoad, PostTypeTruck, PostTypeCompany, PostTypeJob, PostTypeResume}

// tableNames maps each post type to its table. Queries interpolate table
// names only through this map, never from request input.
var tableNames = map[PostType]string{
	PostTypeLoad:    "loads",
	PostTypeTruck:   "trucks",
	PostTypeCompany: "companies",
	PostTypeJob:     "jobs",
	PostTypeResume:  "resumes",
}

// TableName returns the content table backing a post type.
func TableName(t PostType) (string, bool) {
	name, ok := tableNames[t]
	return name, ok
}

// ParsePostType validates a raw post type string.
func ParsePostType(s string) (PostType, error) {
	t := PostType(s)
	if _, ok := tableNames[t]; !ok {
		return "", ErrUnknownPostType
	}
	return t, nil
}

// Status represents listing lifecycle state. Listings are never hard-deleted;
// ledger and premium rows keep referencing them.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusArchived Status = "archived"
)

// ParseStatus validates a raw status string for owner status toggles.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusArchived:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Listing is the shared shape of all five content tables.
type Listing struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Type        PostType  `db:"-" json:"post_type"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Status      Status    `db:"status" json:"status"`

	// IsPremium is recomputed from premium_records.end_time on every read
	// path; the stored flag is only a cache for external consumers.
	IsPremium bool `db:"is_premium" json:"is_premium"`
	// TopActive orders list views; filled by queries, not stored.
	TopActive bool `db:"top_active" json:"-"`

	ViewsCount    int       `db:"views_count" json:"views_count"`
	LastRefreshed time.Time `db:"last_refreshed" json:"last_refreshed"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination controls list pagination.
type Pagination struct {
	Limit  int
	Offset int
}
