package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/keyring"
	"github.com/julianstephens/serene/internal/session"
)

type AuthCmd struct {
	Login  AuthLoginCmd  `cmd:"" help:"Store a session token from the auth provider."`
	Logout AuthLogoutCmd `cmd:"" help:"Forget the session token and leave bypass mode."`
	Bypass AuthBypassCmd `cmd:"" help:"Use the development bypass credential."`
	Status AuthStatusCmd `cmd:"" help:"Show how requests are authenticated." default:"1"`
}

// AuthLoginCmd stores a live session token in the OS keyring
type AuthLoginCmd struct {
	Token string `help:"Session token issued by the auth provider." required:""`
}

func (cmd *AuthLoginCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		return errors.New("token must not be empty")
	}
	if err := keyring.SetToken(token); err != nil {
		return fmt.Errorf("failed to store session token in keyring: %w", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.DevBypass {
		settings.DevBypass = false
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	ctx.Println("✓ Session token stored in OS keyring")
	return nil
}

// AuthLogoutCmd clears both the stored token and the bypass flag
type AuthLogoutCmd struct{}

func (cmd *AuthLogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete session token from keyring: %w", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.DevBypass = false
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	ctx.Println("✓ Logged out")
	return nil
}

// AuthBypassCmd toggles the persisted development bypass flag
type AuthBypassCmd struct {
	Off bool `help:"Turn bypass mode off again."`
}

func (cmd *AuthBypassCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.DevBypass = !cmd.Off
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if cmd.Off {
		ctx.Println("✓ Development bypass disabled")
	} else {
		ctx.Println("✓ Development bypass enabled; requests will use the sentinel credential")
	}
	return nil
}

type AuthStatusCmd struct{}

func (cmd *AuthStatusCmd) Run(ctx *cli.Context) error {
	src, err := ctx.Session()
	if err != nil {
		return err
	}

	switch src.Mode() {
	case session.ModeBypass:
		ctx.Println("Mode: development bypass")
	default:
		ctx.Println("Mode: live session")
		if !keyring.IsAvailable() {
			ctx.Println("❌ OS keyring is not available on this system")
		}
	}

	if src.Authenticated(ctx.Context()) {
		ctx.Println("✓ Authenticated")
	} else {
		ctx.Println("ℹ Not authenticated. Use 'serene auth login --token' or 'serene auth bypass'")
	}
	ctx.Printf("Backend: %s\n", ctx.APIURL())
	return nil
}
