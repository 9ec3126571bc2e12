package settings

import (
	"fmt"
	"net/url"

	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/logger"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	APIURL    *string `name:"api-url" help:"Backend URL to use when none is configured."`
	DevBypass *bool   `help:"Use the development bypass credential."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		apiURL := settings.APIURL
		if apiURL == "" {
			apiURL = "(not set)"
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  API URL:     %s\n", apiURL)
		ctx.Printf("  Dev Bypass:  %v\n", settings.DevBypass)
		ctx.Printf("  Database:    %s\n", ctx.Store.GetConfigPath())
		if path := logger.Path(); path != "" {
			ctx.Printf("  Log file:    %s\n", path)
		}
		return nil
	}

	updated := false
	if c.APIURL != nil {
		if *c.APIURL != "" {
			u, err := url.Parse(*c.APIURL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("invalid API URL %q", *c.APIURL)
			}
		}
		settings.APIURL = *c.APIURL
		updated = true
	}
	if c.DevBypass != nil {
		settings.DevBypass = *c.DevBypass
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
