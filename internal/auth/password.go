package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/hanzi/internal/config"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
)

// HashPassword creates a bcrypt hash of the password. minLength counts
// characters, so a password typed in hanzi is measured the same way as a
// latin one; zero means config.DefaultMinPasswordLength.
func HashPassword(password string, minLength, cost int) (string, error) {
	if minLength <= 0 {
		minLength = config.DefaultMinPasswordLength
	}
	if utf8.RuneCountInString(password) < minLength {
		return "", fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, minLength)
	}
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with its hash.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}
