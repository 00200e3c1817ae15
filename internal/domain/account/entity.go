package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role defines user access levels
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account with its credit accounting fields. The balance
// columns are owned by the credit ledger; this package never writes them
// directly.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`

	CurrentBalance int64 `db:"current_balance" json:"current_balance"`
	TotalEarned    int64 `db:"total_earned" json:"total_earned"`
	TotalSpent     int64 `db:"total_spent" json:"total_spent"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// normalizeEmail lowercases and trims an email so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
