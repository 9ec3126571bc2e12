package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL      = "http://localhost:8000/api"
	DefaultHTTPTimeout = 15 * time.Second
	DefaultChatDelay   = 800 * time.Millisecond
	DefaultConfigDir   = "~/.config/serene"
	DatabaseFile       = "serene.db"
)

// Config holds client configuration resolved from the environment.
type Config struct {
	APIURL      string
	ConfigDir   string
	Debug       bool
	HTTPTimeout time.Duration
	ChatDelay   time.Duration
}

// Load reads an optional .env file from the working directory and then the
// SERENE_* environment variables. Missing variables fall back to defaults.
func Load() (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		APIURL:      getEnv("SERENE_API_URL", DefaultAPIURL),
		ConfigDir:   getEnv("SERENE_CONFIG_DIR", DefaultConfigDir),
		HTTPTimeout: DefaultHTTPTimeout,
		ChatDelay:   DefaultChatDelay,
	}

	var err error
	if cfg.Debug, err = getEnvAsBool("SERENE_DEBUG", false); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = getEnvAsDuration("SERENE_HTTP_TIMEOUT", DefaultHTTPTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ChatDelay, err = getEnvAsDuration("SERENE_CHAT_DELAY", DefaultChatDelay); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API URL %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API URL %q: missing host", c.APIURL)
	}
	if c.HTTPTimeout < 0 {
		return errors.New("HTTP timeout must not be negative")
	}
	if c.ChatDelay < 0 {
		return errors.New("chat reply delay must not be negative")
	}
	if c.ConfigDir == "" {
		return errors.New("config directory must be set")
	}
	return nil
}

// ResolvedConfigDir returns ConfigDir with a leading ~ expanded.
func (c Config) ResolvedConfigDir() (string, error) {
	return ExpandHome(c.ConfigDir)
}

// DatabasePath returns the path of the local settings database.
func (c Config) DatabasePath() (string, error) {
	dir, err := c.ResolvedConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DatabaseFile), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return b, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
