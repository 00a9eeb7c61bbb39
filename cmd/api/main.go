package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	secport "github.com/amirhossein-jamali/kodbank/internal/domain/port/security"
	"github.com/amirhossein-jamali/kodbank/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/kodbank/internal/domain/usecase/auth"
	"github.com/amirhossein-jamali/kodbank/internal/domain/usecase/balance"
	"github.com/amirhossein-jamali/kodbank/internal/domain/usecase/ledger"

	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/security"
	timeProvider "github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/worker"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// minSecretLength matches the minimum HMAC key length accepted by the token issuer
const minSecretLength = 32

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger, err := logger.NewZapLogger(logger.Settings{
		Production: cfg.IsProduction(),
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		CallerInfo: cfg.Logger.CallerInfo,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database and bring the schema up to date
	dbManager := database.NewManager(database.CreateConfigFromViperConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(context.Background()); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	if err := dbManager.Migrate(context.Background()); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Security adapters
	tokenIssuer, err := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, tp)
	if err != nil {
		appLogger.Error("Failed to create token issuer", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	var identities secport.IdentityVerifier
	if cfg.Auth.GoogleClientID != "" {
		identities = security.NewGoogleVerifier(cfg.Auth.GoogleClientID)
	} else {
		appLogger.Warn("Google sign-in disabled: no client ID configured", nil)
	}

	startingBalance, err := entity.ParseBalance(cfg.Account.StartingBalance)
	if err != nil {
		appLogger.Error("Invalid starting balance", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// Initialize use cases
	accounts := dbManager.AccountRepository()

	authService := auth.NewService(
		accounts,
		dbManager.SessionRepository(),
		dbManager.CreateUnitOfWork(),
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokenIssuer,
		identities,
		startingBalance,
		tp,
		appLogger,
	)
	accountService := account.NewService(accounts, appLogger)
	balanceService := balance.NewService(dbManager.CreateUnitOfWork(), tp, appLogger)
	ledgerReader := ledger.NewReader(accounts, dbManager.LedgerRepository(), appLogger, cfg.Ledger.RecentLimit, cfg.Ledger.MaxLimit)

	// Background session cleanup
	sweeper := worker.NewSessionSweeper(authService, appLogger, cfg.Auth.SweepInterval, cfg.Database.QueryTimeout)
	if err := sweeper.Start(); err != nil {
		appLogger.Warn("Session sweeper not started", map[string]any{"error": err.Error()})
	}

	// Initialize API handlers
	handlers := routes.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.CookieSettings{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		}, tp, appLogger),
		Account:     handler.NewAccountHandler(accountService, appLogger),
		Transaction: handler.NewTransactionHandler(balanceService, ledgerReader, appLogger),
		Health:      handler.NewHealthHandler(database.NewHealthChecker(dbManager, appLogger, tp, cfg.Database.QueryTimeout)),
	}

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, cfg.Server.CORSOrigins)
	routes.SetupRoutes(router, cfg.Server.BasePath, handlers, middleware.Authenticate(authService, cfg.Auth.CookieName, appLogger))
	routes.SetupFallback(router, cfg.Server.BasePath, cfg.Server.StaticDir)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":      server.Addr,
			"base_path": cfg.Server.BasePath,
			"env":       cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	sweeper.Stop()

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port (or PORT)")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	if cfg.Database.URL == "" {
		if cfg.Database.Database == "" {
			missingConfigs = append(missingConfigs, "database.database (or DATABASE_URL)")
		}
		if cfg.Database.Driver != database.DriverSQLite {
			if cfg.Database.Host == "" {
				missingConfigs = append(missingConfigs, "database.host (or DATABASE_URL)")
			}
			if cfg.Database.Username == "" {
				missingConfigs = append(missingConfigs, "database.username (or KB_DB_USERNAME)")
			}
		}
	}

	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Validate auth configuration
	if cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or JWT_SECRET)")
	}

	if cfg.Auth.TokenTTL == 0 {
		missingConfigs = append(missingConfigs, "auth.tokenTTL")
	}

	if cfg.Auth.CookieName == "" {
		missingConfigs = append(missingConfigs, "auth.cookieName")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if len(cfg.Auth.JWTSecret) < minSecretLength {
		return fmt.Errorf("auth.jwtSecret must be at least %d characters", minSecretLength)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.IsProduction() {
		var warnings []string

		// Check database security settings
		dbConfig := database.CreateConfigFromViperConfig(cfg)
		if dbConfig.Driver == database.DriverPostgres && !dbConfig.UsesTLS() {
			warnings = append(warnings, "database connection should use sslmode 'require', 'verify-ca', or 'verify-full' in production")
		}
		if dbConfig.IsInMemory() {
			warnings = append(warnings, "database is in memory; all data is lost on restart")
		}

		if !cfg.Auth.CookieSecure {
			warnings = append(warnings, "auth.cookieSecure should be enabled in production")
		}

		for _, origin := range cfg.Server.CORSOrigins {
			if origin == "*" {
				warnings = append(warnings, "server.corsOrigins allows any origin")
				break
			}
		}

		// Check timeout settings
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}

		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
