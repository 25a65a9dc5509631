// Package keyring keeps the ledger's secrets in the OS keyring: the postgres
// connection string and the web session signing secret.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/shiftledger/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

const sessionSecretBytes = 32

func get(user string) (string, error) {
	v, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func set(user, value string) error {
	if err := keyring.Set(constants.AppName, user, value); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func del(user string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetConnectionString returns the stored postgres connection string.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return set(constants.DefaultKeyringUser, connStr)
}

func DeleteConnectionString() error {
	return del(constants.DefaultKeyringUser)
}

// SessionSecret returns the session signing secret, generating and storing a
// fresh one on first use.
func SessionSecret() ([]byte, error) {
	encoded, err := get(constants.SessionKeyringUser)
	if err == nil {
		secret, decodeErr := hex.DecodeString(encoded)
		if decodeErr == nil && len(secret) >= sessionSecretBytes {
			return secret, nil
		}
		// Corrupt entry; replace it.
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	secret := make([]byte, sessionSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	if err := set(constants.SessionKeyringUser, hex.EncodeToString(secret)); err != nil {
		return nil, err
	}
	return secret, nil
}

// RotateSessionSecret discards the stored secret, invalidating every session.
func RotateSessionSecret() error {
	if err := del(constants.SessionKeyringUser); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// IsAvailable is a best-effort probe: a not-found read still proves the
// keyring answered.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
