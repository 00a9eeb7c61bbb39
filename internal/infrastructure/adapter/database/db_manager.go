package database

import (
	"context"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// Manager manages database connections
type Manager struct {
	config       *Config
	db           *gorm.DB
	logger       coreport.Logger
	migrationMgr *migration.MigrationManager
	poolWatcher  *PoolWatcher
	timeProvider coreport.TimeProvider
}

// NewManager creates a new database manager
func NewManager(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Connect establishes a database connection, retrying with backoff on failure
func (m *Manager) Connect(ctx context.Context) (*gorm.DB, error) {
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	m.logger.Info("Connecting to database", map[string]any{
		"driver": m.config.Driver,
		"host":   m.config.Host,
		"name":   m.config.Database,
	})

	var gormDB *gorm.DB
	connect := func() error {
		dial, err := dialector(m.config)
		if err != nil {
			return err
		}

		db, err := gorm.Open(dial, &gorm.Config{
			Logger: NewDatabaseLogger(m.logger, m.timeProvider, m.config.LogLevel, m.config.SlowThreshold),
			NowFunc: func() time.Time {
				return m.timeProvider.Now()
			},
			PrepareStmt:            m.config.Driver == DriverPostgres,
			SkipDefaultTransaction: true,
		})
		if err != nil {
			return err
		}

		if err := configurePool(db, m.config); err != nil {
			return err
		}
		if err := ping(ctx, db, m.config.QueryTimeout); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return err
		}

		gormDB = db
		return nil
	}

	if err := retryConnect(ctx, RetryConfigFrom(m.config), connect, m.timeProvider, m.logger); err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", m.config.RetryAttempts, err)
	}

	m.db = gormDB
	m.migrationMgr = migration.NewMigrationManager(gormDB, m.logger, m.timeProvider)

	m.logger.Info("Successfully connected to database", map[string]any{
		"driver":         m.config.Driver,
		"max_open_conns": m.config.MaxOpenConns,
		"query_timeout":  m.config.QueryTimeout.String(),
	})

	if m.config.MonitorInterval > 0 {
		if sqlDB, err := m.db.DB(); err == nil {
			m.poolWatcher = NewPoolWatcher(sqlDB.Stats, m.logger)
			m.poolWatcher.Start(m.config.MonitorInterval)
		} else {
			m.logger.Warn("Connection pool monitoring disabled", map[string]any{"error": err.Error()})
		}
	}

	return m.db, nil
}

// DB returns the GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Config returns the database configuration
func (m *Manager) Config() *Config {
	return m.config
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection", nil)

	if m.poolWatcher != nil {
		m.poolWatcher.Stop()
	}
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	return sqlDB.Close()
}

// Ping checks database connectivity
func (m *Manager) Ping(ctx context.Context, timeout time.Duration) error {
	if m.db == nil {
		return fmt.Errorf("database is not connected")
	}
	return ping(ctx, m.db, timeout)
}

// PoolStats returns the latest sampled pool statistics, or a live read when sampling is off
func (m *Manager) PoolStats() PoolStats {
	if m.poolWatcher != nil {
		return m.poolWatcher.Latest()
	}
	if m.db == nil {
		return PoolStats{}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return PoolStats{}
	}
	return poolStatsFrom(sqlDB.Stats())
}

// Migrate brings the schema to the current version
func (m *Manager) Migrate(ctx context.Context) error {
	if m.migrationMgr == nil {
		return fmt.Errorf("database is not connected")
	}
	return m.migrationMgr.MigrateAll(ctx)
}

// MigrationManager returns the migration manager
func (m *Manager) MigrationManager() *migration.MigrationManager {
	return m.migrationMgr
}

func (m *Manager) queryTimeout() coreport.Duration {
	return coreport.Duration(m.config.QueryTimeout)
}

// CreateUnitOfWork creates a new UnitOfWork instance
func (m *Manager) CreateUnitOfWork() persistence.UnitOfWork {
	return NewUnitOfWork(m.db, m.logger, m.timeProvider, m.queryTimeout())
}

// AccountRepository returns an account repository outside any transaction
func (m *Manager) AccountRepository() persistence.AccountRepository {
	return repository.NewAccountRepository(m.db, m.timeProvider, m.logger, m.queryTimeout())
}

// LedgerRepository returns a ledger repository outside any transaction
func (m *Manager) LedgerRepository() persistence.LedgerRepository {
	return repository.NewLedgerRepository(m.db, m.timeProvider, m.logger, m.queryTimeout())
}

// SessionRepository returns the session repository
func (m *Manager) SessionRepository() persistence.SessionRepository {
	return repository.NewSessionRepository(m.db, m.timeProvider, m.logger, m.queryTimeout())
}
