package apitest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningKey signs tokens minted by Token. The fake backend never verifies them.
var SigningKey = []byte("serene-test-signing-key")

// Token mints an HS256 session token for subject that expires at exp.
func Token(t testing.TB, subject string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(SigningKey)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}
