// Package session resolves the credential attached to outbound requests.
//
// The mode (development bypass or live token) is chosen once at startup from
// the persisted settings and the resulting source is handed to the API client.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/serene/internal/keyring"
	"github.com/julianstephens/serene/internal/logger"
	"github.com/julianstephens/serene/internal/models"
)

// BypassToken is the fixed sentinel credential accepted by development backends.
const BypassToken = "mock_bestie_token"

type Mode string

const (
	ModeBypass Mode = "bypass"
	ModeLive   Mode = "live"
)

// Source yields the bearer credential for one request. An empty token means
// the request goes out unauthenticated.
type Source interface {
	Token(ctx context.Context) (string, error)
	Authenticated(ctx context.Context) bool
	Mode() Mode
}

// Bypass always yields the development sentinel.
type Bypass struct{}

func (Bypass) Token(context.Context) (string, error) { return BypassToken, nil }
func (Bypass) Authenticated(context.Context) bool    { return true }
func (Bypass) Mode() Mode                            { return ModeBypass }

// TokenStore is where the auth provider's token is kept between runs.
type TokenStore interface {
	GetToken() (string, error)
}

// KeyringStore reads the token from the OS keyring.
type KeyringStore struct{}

func (KeyringStore) GetToken() (string, error) { return keyring.GetToken() }

// Live fetches a fresh token from the store on every request.
type Live struct {
	Store TokenStore
	// Now is used for expiry checks; defaults to time.Now.
	Now func() time.Time
}

func NewLive(store TokenStore) *Live {
	return &Live{Store: store, Now: time.Now}
}

// Token returns the stored token, or "" when none is stored or it has expired.
func (l *Live) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := l.Store.GetToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading session token: %w", err)
	}

	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	if expired, exp := tokenExpired(token, now()); expired {
		logger.Info("Stored session token has expired", "expired_at", exp)
		return "", nil
	}
	return token, nil
}

func (l *Live) Authenticated(ctx context.Context) bool {
	token, err := l.Token(ctx)
	return err == nil && token != ""
}

func (l *Live) Mode() Mode { return ModeLive }

// tokenExpired inspects the exp claim without verifying the signature; the
// backend does verification. Opaque (non-JWT) tokens are never considered expired.
func tokenExpired(token string, now time.Time) (bool, time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, time.Time{}
	}
	return !now.Before(exp.Time), exp.Time
}

// FromSettings picks the credential source for this process.
func FromSettings(settings models.Settings, store TokenStore) Source {
	if settings.DevBypass {
		return Bypass{}
	}
	return NewLive(store)
}
