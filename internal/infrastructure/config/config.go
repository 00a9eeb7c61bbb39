package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Account     AccountConfig  `mapstructure:"account"`
	Ledger      LedgerConfig   `mapstructure:"ledger"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	BasePath          string        `mapstructure:"basePath"`
	CORSOrigins       []string      `mapstructure:"corsOrigins"`
	StaticDir         string        `mapstructure:"staticDir"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // milliseconds
	SlowThreshold   time.Duration `mapstructure:"slowThreshold"`   // milliseconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"`      // seconds
	MonitorInterval time.Duration `mapstructure:"monitorInterval"` // seconds
	LogLevel        string        `mapstructure:"logLevel"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// AuthConfig contains session and credential settings
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwtSecret"`
	TokenTTL       time.Duration `mapstructure:"tokenTTL"` // minutes
	CookieName     string        `mapstructure:"cookieName"`
	CookieSecure   bool          `mapstructure:"cookieSecure"`
	BcryptCost     int           `mapstructure:"bcryptCost"`
	GoogleClientID string        `mapstructure:"googleClientID"`
	SweepInterval  time.Duration `mapstructure:"sweepInterval"` // minutes
}

// AccountConfig contains new account settings
type AccountConfig struct {
	StartingBalance string `mapstructure:"startingBalance"`
}

// LedgerConfig contains transaction history settings
type LedgerConfig struct {
	RecentLimit int `mapstructure:"recentLimit"`
	MaxLimit    int `mapstructure:"maxLimit"`
}

// IsProduction reports whether the production profile is active
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}
