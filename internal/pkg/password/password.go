package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const MinLength = 8

var (
	ErrTooShort = errors.New("password too short")
	ErrMismatch = errors.New("password mismatch")
)

func Hash(pw string) (string, error) {
	if len(strings.TrimSpace(pw)) < MinLength {
		return "", ErrTooShort
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare returns ErrMismatch for any hash/password pair that does not verify,
// including malformed hashes.
func Compare(hash, pw string) error {
	if hash == "" || pw == "" {
		return ErrMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)); err != nil {
		return ErrMismatch
	}
	return nil
}
