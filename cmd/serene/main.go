package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/cli/chats"
	"github.com/julianstephens/serene/internal/cli/journals"
	"github.com/julianstephens/serene/internal/cli/settings"
	"github.com/julianstephens/serene/internal/cli/system"
	"github.com/julianstephens/serene/internal/cli/wellness"
	"github.com/julianstephens/serene/internal/config"
	"github.com/julianstephens/serene/internal/errors"
	"github.com/julianstephens/serene/internal/logger"
	"github.com/julianstephens/serene/internal/storage/sqlite"
)

var CLI struct {
	Version   kong.VersionFlag
	APIURL    string `name:"api-url" help:"Backend base URL. Overrides SERENE_API_URL."`
	ConfigDir string `name:"config-dir" help:"Directory for settings and logs. Overrides SERENE_CONFIG_DIR."`
	Debug     bool   `help:"Log debug output to stderr."`

	Init      system.InitCmd        `cmd:"" help:"Initialize serene storage."`
	Tui       system.TuiCmd         `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Dashboard wellness.DashboardCmd `cmd:"" help:"Show forecast, insights and streak."`
	Report    wellness.ReportCmd    `cmd:"" help:"Show the weekly wellness report."`
	Checkin   wellness.CheckinCmd   `cmd:"" help:"Record a daily check-in."`
	Journal   journals.JournalCmd   `cmd:"" help:"Manage journal entries."`
	Chat      chats.ChatCmd         `cmd:"" help:"Talk with the Serene assistant."`
	Auth      system.AuthCmd        `cmd:"" help:"Manage the session credential."`
	Settings  settings.SettingsCmd  `cmd:"" help:"Manage application settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("serene"),
		kong.Description("Terminal client for the Serene wellness companion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.APIURL != "" {
		cfg.APIURL = CLI.APIURL
	}
	if CLI.ConfigDir != "" {
		cfg.ConfigDir = CLI.ConfigDir
	}
	cfg.Debug = cfg.Debug || CLI.Debug
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: filepath.Dir(dbPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	store := sqlite.NewStore(dbPath)
	defer store.Close()

	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx := &cli.Context{
		Store:  store,
		Config: cfg,
		Ctx:    runCtx,
	}

	if err := ctx.Run(appCtx); err != nil {
		stop()
		store.Close()
		errors.Fatal(err)
	}
}
