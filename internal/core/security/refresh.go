package security

import (
	"crypto/subtle"
	"time"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// CheckRefreshToken compares a presented refresh token with the stored one.
// The token must match exactly and now must not be past storedExpiry (unix
// seconds); expiry equal to now is still valid.
func CheckRefreshToken(presented, stored string, storedExpiry int64, now time.Time) error {
	if stored == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) != 1 {
		return domain.ErrRefreshMismatch
	}
	if now.Unix() > storedExpiry {
		return domain.ErrTokenExpired
	}
	return nil
}

// IsRefreshTokenValid is the boolean form of CheckRefreshToken.
func IsRefreshTokenValid(presented, stored string, storedExpiry int64, now time.Time) bool {
	return CheckRefreshToken(presented, stored, storedExpiry, now) == nil
}
