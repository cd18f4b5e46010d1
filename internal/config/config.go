// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/janisto/locale-playground/internal/platform/timeutil"
)

var (
	ErrNoLocales             = errors.New("at least one supported locale is required")
	ErrDefaultLocaleMismatch = errors.New("default locale is not a supported locale")
	ErrInvalidTimezone       = errors.New("default timezone is not a recognized IANA zone")
)

// Config holds the settings read at startup.
type Config struct {
	Port            string   `env:"PORT"             envDefault:"8080"`
	Languages       []string `env:"LANGUAGES"        envDefault:"en,fr"   envSeparator:","`
	DefaultLocale   string   `env:"DEFAULT_LOCALE"   envDefault:"en"`
	DefaultTimezone string   `env:"DEFAULT_TIMEZONE" envDefault:"UTC"`
	UsersFile       string   `env:"USERS_FILE"`
	LogLevel        string   `env:"LOG_LEVEL"        envDefault:"info"`
}

// Load reads an optional .env file, then parses and validates the environment.
// Variables already set in the environment win over the .env file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	langs := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		l = strings.TrimSpace(l)
		if l != "" && !slices.Contains(langs, l) {
			langs = append(langs, l)
		}
	}
	c.Languages = langs
	c.DefaultLocale = strings.TrimSpace(c.DefaultLocale)
	c.DefaultTimezone = strings.TrimSpace(c.DefaultTimezone)
	if tz, ok := timeutil.CanonicalZone(c.DefaultTimezone); ok {
		c.DefaultTimezone = tz
	}
	c.UsersFile = strings.TrimSpace(c.UsersFile)
}

// Validate checks the invariants the locale and timezone resolver relies on.
func (c Config) Validate() error {
	if len(c.Languages) == 0 {
		return ErrNoLocales
	}
	for _, l := range c.Languages {
		if _, err := language.Parse(l); err != nil {
			return fmt.Errorf("supported locale %q: %w", l, err)
		}
	}
	if !slices.Contains(c.Languages, c.DefaultLocale) {
		return fmt.Errorf("%w: %q not in %v", ErrDefaultLocaleMismatch, c.DefaultLocale, c.Languages)
	}
	if !timeutil.ValidZone(c.DefaultTimezone) {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, c.DefaultTimezone)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
