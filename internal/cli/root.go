package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/serene/internal/api"
	"github.com/julianstephens/serene/internal/checkin"
	"github.com/julianstephens/serene/internal/chat"
	"github.com/julianstephens/serene/internal/config"
	"github.com/julianstephens/serene/internal/dashboard"
	"github.com/julianstephens/serene/internal/journal"
	"github.com/julianstephens/serene/internal/logger"
	"github.com/julianstephens/serene/internal/report"
	"github.com/julianstephens/serene/internal/session"
	"github.com/julianstephens/serene/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Store  storage.Provider
	Config config.Config
	// Tokens is where the live session token is read from. Defaults to the OS keyring.
	Tokens session.TokenStore

	// Ctx is cancelled when the user interrupts the process.
	Ctx context.Context
	Out io.Writer
	In  io.Reader

	source session.Source
	client *api.Client
}

// Context returns the command's context.Context.
func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Session resolves the credential source from the persisted settings. The
// result is fixed for the lifetime of the process.
func (c *Context) Session() (session.Source, error) {
	if c.source != nil {
		return c.source, nil
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	tokens := c.Tokens
	if tokens == nil {
		tokens = session.KeyringStore{}
	}
	c.source = session.FromSettings(settings, tokens)
	logger.Debug("Resolved session", "mode", c.source.Mode())
	return c.source, nil
}

// APIURL is the configured backend URL, unless only the default is configured
// and a URL has been saved in settings.
func (c *Context) APIURL() string {
	if c.Config.APIURL != "" && c.Config.APIURL != config.DefaultAPIURL {
		return c.Config.APIURL
	}
	if settings, err := c.Store.GetSettings(); err == nil && settings.APIURL != "" {
		return settings.APIURL
	}
	return config.DefaultAPIURL
}

// Client returns the backend client bound to the session's credential source.
func (c *Context) Client() (*api.Client, error) {
	if c.client != nil {
		return c.client, nil
	}
	src, err := c.Session()
	if err != nil {
		return nil, err
	}

	var opts []api.Option
	if c.Config.HTTPTimeout > 0 {
		opts = append(opts, api.WithTimeout(c.Config.HTTPTimeout))
	}
	c.client = api.New(c.APIURL(), src, opts...)
	return c.client, nil
}

// Services bundles the controllers a front end drives.
type Services struct {
	Session   session.Source
	Dashboard *dashboard.Aggregator
	Journal   *journal.Controller
	Chat      *chat.Exchange
	Checkin   *checkin.Controller
	Report    *report.Loader
}

func (c *Context) Services(chatOpts ...chat.Option) (*Services, error) {
	client, err := c.Client()
	if err != nil {
		return nil, err
	}
	src, err := c.Session()
	if err != nil {
		return nil, err
	}

	opts := []chat.Option{chat.WithReplyDelay(c.Config.ChatDelay)}
	opts = append(opts, chatOpts...)

	agg := dashboard.New(client, src)
	return &Services{
		Session:   src,
		Dashboard: agg,
		Journal:   journal.New(client),
		Chat:      chat.New(client, opts...),
		Checkin:   checkin.New(client, agg),
		Report:    report.NewLoader(client),
	}, nil
}
