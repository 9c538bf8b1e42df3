package domain

import (
	"strings"
	"time"
)

// User is the credential record kept by the user directory.
// RefreshToken and RefreshTokenExpiry are always written together.
type User struct {
	ID                 string    `json:"user_id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	RefreshToken       string    `json:"-"`
	RefreshTokenExpiry int64     `json:"-"` // unix seconds
	CreatedAt          time.Time `json:"created_at"`
}

// NormalizeEmail trims and lower-cases an address before any lookup or store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
