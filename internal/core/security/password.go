package security

import (
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every new hash.
const PasswordCost = 12

// BcryptHasher hashes passwords with a per-call random salt. The cost is
// embedded in the output so verification needs no external state.
type BcryptHasher struct {
	log zerolog.Logger
}

func NewBcryptHasher(log zerolog.Logger) *BcryptHasher {
	return &BcryptHasher{log: log}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Malformed hashes and any
// other fault read as a mismatch; the cause is only logged.
func (h *BcryptHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		h.log.Warn().Err(err).Msg("password verification fault")
	}
	return false
}
