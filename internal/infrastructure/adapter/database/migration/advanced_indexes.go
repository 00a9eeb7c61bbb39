package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages secondary indexes and PostgreSQL-specific tuning
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

type indexDefinition struct {
	name string
	sql  string
}

// portableIndexes work on every supported dialect
var portableIndexes = []indexDefinition{
	{
		name: "idx_transactions_account_created",
		sql:  `CREATE INDEX IF NOT EXISTS idx_transactions_account_created ON transactions (account_id, created_at DESC)`,
	},
	{
		name: "idx_session_tokens_expires_at",
		sql:  `CREATE INDEX IF NOT EXISTS idx_session_tokens_expires_at ON session_tokens (expires_at)`,
	},
}

var postgresIndexes = []indexDefinition{
	{
		name: "idx_transactions_completed",
		sql: `CREATE INDEX IF NOT EXISTS idx_transactions_completed
			ON transactions (account_id, created_at DESC)
			WHERE status = 'completed'`,
	},
}

// CreateIndexes creates the indexes every dialect needs
func (m *AdvancedIndexManager) CreateIndexes(ctx context.Context) error {
	m.logger.Info("Creating database indexes", nil)
	return m.create(ctx, portableIndexes)
}

// CreateAdvancedIndexes creates PostgreSQL-only indexes
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)
	return m.create(ctx, postgresIndexes)
}

func (m *AdvancedIndexManager) create(ctx context.Context, indexes []indexDefinition) error {
	for _, idx := range indexes {
		if err := m.db.WithContext(ctx).Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL storage settings. Failures are logged, not returned.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE accounts SET (fillfactor = 90)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for accounts table", map[string]any{
			"error": err.Error(),
		})
	}

	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE transactions ALTER COLUMN account_id SET STATISTICS 1000`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for account_id", map[string]any{
			"error": err.Error(),
		})
	}
}
