package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/serene/internal/keyring"
	"github.com/julianstephens/serene/internal/models"
)

type fakeStore struct {
	token string
	err   error
}

func (f fakeStore) GetToken() (string, error) { return f.token, f.err }

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBypass(t *testing.T) {
	var src Source = Bypass{}
	tok, err := src.Token(context.Background())
	if err != nil || tok != BypassToken {
		t.Errorf("Token() = %q, %v", tok, err)
	}
	if !src.Authenticated(context.Background()) || src.Mode() != ModeBypass {
		t.Error("bypass source should always be authenticated")
	}
}

func TestLiveToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	valid := signed(t, now.Add(time.Hour))
	expired := signed(t, now.Add(-time.Minute))

	tests := []struct {
		name     string
		store    fakeStore
		want     string
		wantErr  bool
		wantAuth bool
	}{
		{name: "valid jwt", store: fakeStore{token: valid}, want: valid, wantAuth: true},
		{name: "expired jwt", store: fakeStore{token: expired}, want: ""},
		{name: "opaque token", store: fakeStore{token: "sess_abc"}, want: "sess_abc", wantAuth: true},
		{name: "nothing stored", store: fakeStore{err: keyring.ErrNotFound}, want: ""},
		{name: "keyring failure", store: fakeStore{err: errors.New("locked")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := &Live{Store: tt.store, Now: func() time.Time { return now }}
			got, err := live.Token(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Token() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
			if auth := live.Authenticated(context.Background()); auth != tt.wantAuth {
				t.Errorf("Authenticated() = %v, want %v", auth, tt.wantAuth)
			}
		})
	}
}

func TestLiveTokenCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLive(fakeStore{token: "x"}).Token(ctx); err == nil {
		t.Error("Token() should honour a cancelled context")
	}
}

func TestFromSettings(t *testing.T) {
	if FromSettings(models.Settings{DevBypass: true}, fakeStore{}).Mode() != ModeBypass {
		t.Error("DevBypass settings should select the bypass source")
	}
	if FromSettings(models.Settings{}, fakeStore{}).Mode() != ModeLive {
		t.Error("default settings should select the live source")
	}
}
