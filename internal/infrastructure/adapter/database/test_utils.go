package database

import (
	"context"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/model"
	timeprovider "github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/time"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TestDBManager provides an isolated, migrated in-memory database for tests
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager opens a fresh sqlite database, migrates it and closes it when the test ends
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	timeProvider := timeprovider.NewRealTimeProvider()

	config := DefaultConfig()
	config.Driver = DriverSQLite
	config.URL = SQLiteMemoryDSN("test-" + uuid.NewString())
	config.LogLevel = "silent"
	config.QueryTimeout = 5 * time.Second
	config.RetryAttempts = 1
	config.MonitorInterval = 0

	manager := NewManager(config, logger, timeProvider)
	if _, err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// CreateTestAccount inserts an account row directly and returns its ID
func (m *TestDBManager) CreateTestAccount(t *testing.T, username string, balance string) uint64 {
	t.Helper()

	now := m.TimeProvider.Now()
	account := model.Account{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "not-a-real-hash",
		Role:      "customer",
		Balance:   decimal.RequireFromString(balance),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.Manager.DB().Create(&account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return account.ID
}

// CountRows returns the number of rows in a table
func (m *TestDBManager) CountRows(t *testing.T, table string) int64 {
	t.Helper()

	var count int64
	if err := m.Manager.DB().Table(table).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count rows of %s: %v", table, err)
	}
	return count
}
