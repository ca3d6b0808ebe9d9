package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72 byte input limit.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

const decoyPassword = "not-a-real-password"

// HashPassword returns the bcrypt hash of plain at the given cost. A cost
// outside bcrypt's range falls back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if len(plain) > 72 {
		return "", ErrPasswordTooLong
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether candidate matches storedHash. Any failure,
// including a malformed hash, yields false.
func VerifyPassword(candidate, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
}

// DecoyHash returns a hash to verify against when a login names an unknown
// email. It must be built at the same cost as real hashes so both failure
// paths spend the same bcrypt time.
func DecoyHash(cost int) (string, error) {
	return HashPassword(decoyPassword, cost)
}
