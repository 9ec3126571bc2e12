package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"
)

const (
	service    = "serene"
	tokenUser  = "session-token"
	probeUser  = "availability-probe"
	probeValue = "ok"
)

// ErrNotFound is returned when no session token is stored.
var ErrNotFound = errors.New("not found in keyring")

// SetToken stores the live session token in the OS keyring.
func SetToken(token string) error {
	if token == "" {
		return errors.New("token must not be empty")
	}
	return gokeyring.Set(service, tokenUser, token)
}

// GetToken returns the stored session token, or ErrNotFound.
func GetToken() (string, error) {
	token, err := gokeyring.Get(service, tokenUser)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading session token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the stored session token.
func DeleteToken() error {
	err := gokeyring.Delete(service, tokenUser)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// IsAvailable reports whether the OS keyring can be written and read.
func IsAvailable() bool {
	if err := gokeyring.Set(service, probeUser, probeValue); err != nil {
		return false
	}
	defer func() { _ = gokeyring.Delete(service, probeUser) }()
	v, err := gokeyring.Get(service, probeUser)
	return err == nil && v == probeValue
}
