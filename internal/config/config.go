// Package config loads the pokedex process configuration from the environment.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-pokedex/internal/logging"
	"github.com/goliatone/go-pokedex/internal/storeinfra"
)

// Config is the full process configuration.
type Config struct {
	ListenAddr      string        `env:"POKEDEX_LISTEN_ADDR"          envDefault:"127.0.0.1:3030"`
	DatabaseURL     string        `env:"POKEDEX_DATABASE_URL"         envDefault:"file:pokemon.db?cache=shared&_busy_timeout=5000"`
	MaxOpenConns    int           `env:"POKEDEX_DB_MAX_OPEN_CONNS"    envDefault:"10"`
	MaxIdleConns    int           `env:"POKEDEX_DB_MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"POKEDEX_DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	CreateSchema    bool          `env:"POKEDEX_CREATE_SCHEMA"        envDefault:"true"`
	DebugSQL        bool          `env:"POKEDEX_DEBUG_SQL"            envDefault:"false"`
	LogLevel        string        `env:"POKEDEX_LOG_LEVEL"            envDefault:"info"`
	LogFormat       string        `env:"POKEDEX_LOG_FORMAT"           envDefault:"text"`
	ShutdownTimeout time.Duration `env:"POKEDEX_SHUTDOWN_TIMEOUT"     envDefault:"10s"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom reads the configuration from environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the process settings and the derived store settings.
func (c Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	err := validation.ValidateStruct(&c,
		validation.Field(&c.ListenAddr, validation.Required),
		validation.Field(&c.ShutdownTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.LogFormat, validation.In(string(logging.FormatText), string(logging.FormatJSON))),
	)
	if err != nil {
		return err
	}
	return c.Store().Validate()
}

// Store returns the store settings.
func (c Config) Store() storeinfra.Config {
	return storeinfra.Config{
		DSN:             c.DatabaseURL,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		CreateSchema:    c.CreateSchema,
		Debug:           c.DebugSQL,
	}
}

// Logging returns logger settings writing to out.
func (c Config) Logging(out io.Writer) logging.Config {
	return logging.Config{
		Level:  logging.ParseLevel(c.LogLevel),
		Format: logging.ParseFormat(strings.TrimSpace(c.LogFormat)),
		Output: out,
	}
}
