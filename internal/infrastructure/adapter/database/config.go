package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents database configuration
type Config struct {
	Driver          string
	URL             string
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
	LogLevel        string
	SlowThreshold   time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	MonitorInterval time.Duration
}

// DefaultConfig returns a Config with default values.
// Credentials are never defaulted and must come from configuration.
func DefaultConfig() *Config {
	return &Config{
		Driver:          DriverPostgres,
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    2 * time.Second,
		LogLevel:        "warn",
		SlowThreshold:   200 * time.Millisecond,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		MonitorInterval: 30 * time.Second,
	}
}

// SQLiteMemoryDSN returns a DSN for a named in-memory database shared by every connection of one pool
func SQLiteMemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", url.QueryEscape(name))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.URL == "" {
			if c.Host == "" {
				return errors.New("database host is required")
			}
			if c.Port <= 0 || c.Port > 65535 {
				return fmt.Errorf("invalid port number: %d", c.Port)
			}
			if c.Username == "" {
				return errors.New("database username is required")
			}
			if c.Database == "" {
				return errors.New("database name is required")
			}
		}

		validSSLModes := map[string]bool{
			"disable":     true,
			"require":     true,
			"verify-ca":   true,
			"verify-full": true,
			"prefer":      true,
		}
		if c.URL == "" && !validSSLModes[c.SSLMode] {
			return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
		}
	case DriverSQLite:
		if c.URL == "" && c.Database == "" {
			return errors.New("sqlite requires a database url or file name")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}

	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got: %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max idle connections must not be negative, got: %d", c.MaxIdleConns)
	}
	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts must be non-negative, got: %d", c.RetryAttempts)
	}

	return nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Driver == DriverSQLite {
		if c.Database == ":memory:" {
			return SQLiteMemoryDSN("kodbank")
		}
		return c.Database + "?_foreign_keys=1"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode,
	)
}

// IsInMemory reports whether the configured sqlite database lives only in memory
func (c *Config) IsInMemory() bool {
	return c.Driver == DriverSQLite && (c.Database == ":memory:" || strings.Contains(c.DSN(), "mode=memory"))
}

// UsesTLS reports whether a postgres connection asks for TLS
func (c *Config) UsesTLS() bool {
	if c.Driver != DriverPostgres {
		return false
	}
	dsn := c.DSN()
	return !strings.Contains(dsn, "sslmode=disable") && (strings.Contains(dsn, "sslmode=") || c.URL != "")
}
