package config

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrAdminDisabled is returned when no admin PIN hash is configured.
var ErrAdminDisabled = errors.New("config: admin mode is not configured")

// ErrWrongPIN is returned when the PIN does not match the configured hash.
var ErrWrongPIN = errors.New("config: wrong admin PIN")

// VerifyAdminPIN checks a PIN against the configured bcrypt hash.
func (a AdminConfig) VerifyAdminPIN(pin string) error {
	if a.PINHash == "" {
		return ErrAdminDisabled
	}
	err := bcrypt.CompareHashAndPassword([]byte(a.PINHash), []byte(pin))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrWrongPIN
	}
	if err != nil {
		return fmt.Errorf("config: bad admin PIN hash: %w", err)
	}
	return nil
}

// HashPIN returns the bcrypt hash to store in admin.pin_hash.
func HashPIN(pin string) (string, error) {
	if len(pin) < 4 {
		return "", fmt.Errorf("config: admin PIN must have at least 4 characters")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("config: cannot hash admin PIN: %w", err)
	}
	return string(h), nil
}
