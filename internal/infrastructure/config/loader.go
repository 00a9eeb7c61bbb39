package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
	"../../configs/.env",
}

// LoadConfig loads configuration from file based on the environment.
// A missing config file is not an error; defaults and environment variables still apply.
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		fmt.Printf("Warning: no %s config file found, using defaults\n", env)
	}

	v.SetEnvPrefix("KB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	config.Server.CORSOrigins = splitOrigins(config.Server.CORSOrigins)

	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first .env file found in DotEnvPaths
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return errors.New("no .env file found in search paths")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds
	v.SetDefault("server.basePath", "/api")
	v.SetDefault("server.corsOrigins", []string{"http://localhost:5173"})
	v.SetDefault("server.staticDir", "")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 5)  // minutes
	v.SetDefault("database.queryTimeout", 2000)  // milliseconds
	v.SetDefault("database.slowThreshold", 200)  // milliseconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1)       // seconds
	v.SetDefault("database.monitorInterval", 30) // seconds
	v.SetDefault("database.logLevel", "warn")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("auth.tokenTTL", 60) // minutes
	v.SetDefault("auth.cookieName", "token")
	v.SetDefault("auth.cookieSecure", false)
	v.SetDefault("auth.bcryptCost", 10)
	v.SetDefault("auth.googleClientID", "")
	v.SetDefault("auth.sweepInterval", 15) // minutes

	v.SetDefault("account.startingBalance", "100000.00")

	v.SetDefault("ledger.recentLimit", 10)
	v.SetDefault("ledger.maxLimit", 100)
}

// getEnvironment determines the environment from KB_ENV, defaulting to development
func getEnvironment() string {
	env := os.Getenv("KB_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides applies environment variables over configuration file values.
// Conventional unprefixed names used by hosting platforms are honoured first, then the KB_ ones.
func processEnvOverrides(v *viper.Viper) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		v.Set("auth.jwtSecret", secret)
	}
	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
		v.Set("auth.googleClientID", clientID)
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}
	if port := getEnvInt("PORT", 0); port > 0 {
		v.Set("server.port", port)
	}
	if origins := os.Getenv("CORS_ORIGIN"); origins != "" {
		v.Set("server.corsOrigins", origins)
	}

	if secret := os.Getenv("KB_AUTH_JWT_SECRET"); secret != "" {
		v.Set("auth.jwtSecret", secret)
	}
	if clientID := os.Getenv("KB_AUTH_GOOGLE_CLIENT_ID"); clientID != "" {
		v.Set("auth.googleClientID", clientID)
	}

	if dbDriver := os.Getenv("KB_DB_DRIVER"); dbDriver != "" {
		v.Set("database.driver", dbDriver)
	}
	if dbURL := os.Getenv("KB_DB_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}
	if dbHost := os.Getenv("KB_DB_HOST"); dbHost != "" {
		v.Set("database.host", dbHost)
	}
	if dbPort := getEnvInt("KB_DB_PORT", 0); dbPort > 0 {
		v.Set("database.port", dbPort)
	}
	if dbUser := os.Getenv("KB_DB_USERNAME"); dbUser != "" {
		v.Set("database.username", dbUser)
	}
	if dbPass := os.Getenv("KB_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}
	if dbName := os.Getenv("KB_DB_NAME"); dbName != "" {
		v.Set("database.database", dbName)
	}
	if sslMode := os.Getenv("KB_DB_SSL_MODE"); sslMode != "" {
		v.Set("database.sslMode", sslMode)
	}
	if maxOpenConns := getEnvInt("KB_DB_MAX_OPEN_CONNS", 0); maxOpenConns > 0 {
		v.Set("database.maxOpenConns", maxOpenConns)
	}
	if queryTimeout := getEnvInt("KB_DB_QUERY_TIMEOUT_MS", 0); queryTimeout > 0 {
		v.Set("database.queryTimeout", queryTimeout)
	}

	if serverHost := os.Getenv("KB_SERVER_HOST"); serverHost != "" {
		v.Set("server.host", serverHost)
	}
	if serverPort := getEnvInt("KB_SERVER_PORT", 0); serverPort > 0 {
		v.Set("server.port", serverPort)
	}

	if logLevel := os.Getenv("KB_LOGGER_LEVEL"); logLevel != "" {
		v.Set("logger.level", logLevel)
	}
}

func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// splitOrigins accepts both a YAML list and a single comma separated value
func splitOrigins(origins []string) []string {
	result := make([]string, 0, len(origins))
	for _, entry := range origins {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				result = append(result, origin)
			}
		}
	}
	return result
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Millisecond
	config.Database.SlowThreshold = time.Duration(config.Database.SlowThreshold) * time.Millisecond
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second
	config.Database.MonitorInterval = time.Duration(config.Database.MonitorInterval) * time.Second

	config.Auth.TokenTTL = time.Duration(config.Auth.TokenTTL) * time.Minute
	config.Auth.SweepInterval = time.Duration(config.Auth.SweepInterval) * time.Minute
}
