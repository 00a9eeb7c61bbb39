package repository

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository implements persistence.LedgerRepository using GORM
type LedgerRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	queryTimeout    coreport.Duration
	errorClassifier *ErrorClassifier
}

// NewLedgerRepository creates a new LedgerRepository instance
func NewLedgerRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger, queryTimeout coreport.Duration) *LedgerRepository {
	return &LedgerRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		queryTimeout:    queryTimeout,
		errorClassifier: NewErrorClassifier(),
	}
}

var _ persistence.LedgerRepository = (*LedgerRepository)(nil)

func (r *LedgerRepository) entityToModel(entry *entity.LedgerEntry) model.LedgerEntry {
	return model.LedgerEntry{
		AccountID:   entry.AccountID,
		Type:        string(entry.Type),
		Amount:      entry.Amount,
		Description: entry.Description,
		Category:    entry.Category,
		Status:      entry.Status,
		CreatedAt:   entry.CreatedAt,
	}
}

func (r *LedgerRepository) modelToEntity(m *model.LedgerEntry) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:          m.ID,
		AccountID:   m.AccountID,
		Type:        entity.EntryType(m.Type),
		Amount:      m.Amount.Round(entity.MaxDecimalPlaces),
		Description: m.Description,
		Category:    m.Category,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *LedgerRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return r.timeProvider.WithTimeout(ctx, r.queryTimeout)
}

// Append records an entry
func (r *LedgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := r.entityToModel(entry)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		mapped := r.errorClassifier.Map(err, errs.ErrAccountNotFound)
		r.logger.Error("Failed to append ledger entry", map[string]any{
			"account_id": entry.AccountID,
			"type":       string(entry.Type),
			"error":      err.Error(),
		})
		return mapped
	}

	entry.ID = m.ID
	return nil
}

// ListRecent returns the newest entries of an account
func (r *LedgerRepository) ListRecent(ctx context.Context, accountID uint64, limit int) ([]*entity.LedgerEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.logger.Error("Failed to list ledger entries", map[string]any{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return nil, r.errorClassifier.Map(err, errs.ErrNotFound)
	}

	entries := make([]*entity.LedgerEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, r.modelToEntity(&rows[i]))
	}
	return entries, nil
}
