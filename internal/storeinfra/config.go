package storeinfra

import (
	"net/url"
	"strings"
	"time"
)

// Dialect names the SQL backend a DSN resolves to.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// Config holds the store connection settings.
type Config struct {
	// DSN selects the backend by scheme:
	//   postgres:// or postgresql:// -> lib/pq
	//   mysql://                     -> go-sql-driver/mysql
	//   anything else                -> sqlite3 (file path or file: URI)
	DSN string

	// MaxOpenConns caps the pool. SQLite is always pinned to a single
	// connection since it allows one writer at a time.
	MaxOpenConns int

	// MaxIdleConns is the number of idle connections kept ready.
	MaxIdleConns int

	// ConnMaxLifetime recycles connections older than this. Zero keeps them forever.
	ConnMaxLifetime time.Duration

	// CreateSchema issues CREATE TABLE IF NOT EXISTS for the pokemon table on open.
	CreateSchema bool

	// Debug logs every query through bundebug.
	Debug bool
}

// DefaultConfig returns a Config pointing at a local sqlite file.
func DefaultConfig() Config {
	return Config{
		DSN:             "file:pokemon.db?cache=shared&_busy_timeout=5000",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		CreateSchema:    true,
		Debug:           false,
	}
}

// Dialect resolves the backend named by the DSN.
func (c Config) Dialect() Dialect {
	lower := strings.ToLower(c.DSN)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres
	case strings.HasPrefix(lower, "mysql://"):
		return DialectMySQL
	default:
		return DialectSQLite
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DSN) == "" {
		return &ConfigError{Field: "DSN", Message: "must not be empty"}
	}

	if c.Dialect() != DialectSQLite {
		u, err := url.Parse(c.DSN)
		if err != nil {
			return &ConfigError{Field: "DSN", Message: "must be a valid URL: " + err.Error()}
		}
		if u.Host == "" {
			return &ConfigError{Field: "DSN", Message: "must include a host"}
		}
		if strings.Trim(u.Path, "/") == "" {
			return &ConfigError{Field: "DSN", Message: "must include a database name"}
		}
	}

	if c.MaxOpenConns <= 0 {
		return &ConfigError{Field: "MaxOpenConns", Message: "must be greater than 0"}
	}

	if c.MaxIdleConns < 0 {
		return &ConfigError{Field: "MaxIdleConns", Message: "must be non-negative"}
	}

	if c.MaxIdleConns > c.MaxOpenConns {
		return &ConfigError{Field: "MaxIdleConns", Message: "must not exceed MaxOpenConns"}
	}

	if c.ConnMaxLifetime < 0 {
		return &ConfigError{Field: "ConnMaxLifetime", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
