package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// AddProfileImage adds the profile_image column to accounts created before it existed
type AddProfileImage struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAddProfileImage creates a new migration instance
func NewAddProfileImage(db *gorm.DB, logger coreport.Logger) *AddProfileImage {
	return &AddProfileImage{
		db:     db,
		logger: logger,
	}
}

// Run executes the migration. It is a no-op when the column is present.
func (m *AddProfileImage) Run(ctx context.Context) error {
	migrator := m.db.WithContext(ctx).Migrator()

	if migrator.HasColumn(&model.Account{}, "ProfileImage") {
		return nil
	}

	m.logger.Info("Adding profile_image column to accounts table", nil)
	if err := migrator.AddColumn(&model.Account{}, "ProfileImage"); err != nil {
		m.logger.Error("Failed to add profile_image column", map[string]any{"error": err.Error()})
		return err
	}

	return nil
}
