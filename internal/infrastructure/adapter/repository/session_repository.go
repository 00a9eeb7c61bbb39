package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository implements persistence.SessionRepository using GORM
type SessionRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	queryTimeout    coreport.Duration
	errorClassifier *ErrorClassifier
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger, queryTimeout coreport.Duration) *SessionRepository {
	return &SessionRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		queryTimeout:    queryTimeout,
		errorClassifier: NewErrorClassifier(),
	}
}

var _ persistence.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return r.timeProvider.WithTimeout(ctx, r.queryTimeout)
}

func (r *SessionRepository) fail(operation string, err error, notFound error) error {
	mapped := r.errorClassifier.Map(err, notFound)
	if errs.KindOf(mapped) == errs.KindStorage {
		r.logger.Error("Session store failure", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
	}
	return mapped
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, session *entity.Session) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := model.SessionToken{
		TokenHash: session.TokenHash,
		AccountID: session.AccountID,
		ExpiresAt: session.ExpiresAt.UTC(),
		CreatedAt: session.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return r.fail("create", err, errs.ErrAccountNotFound)
	}

	session.ID = m.ID
	return nil
}

// GetByTokenHash returns the session stored for a token hash
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var m model.SessionToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&m).Error; err != nil {
		return nil, r.fail("lookup", err, errs.ErrSessionNotFound)
	}

	return &entity.Session{
		ID:        m.ID,
		TokenHash: m.TokenHash,
		AccountID: m.AccountID,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}, nil
}

// DeleteByTokenHash revokes one session
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&model.SessionToken{}).Error; err != nil {
		return r.fail("delete", err, nil)
	}
	return nil
}

// DeleteByAccount revokes all sessions of an account
func (r *SessionRepository) DeleteByAccount(ctx context.Context, accountID uint64) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&model.SessionToken{})
	if result.Error != nil {
		return 0, r.fail("delete by account", result.Error, nil)
	}
	return result.RowsAffected, nil
}

// DeleteExpired removes sessions that expired at or before now
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&model.SessionToken{})
	if result.Error != nil {
		return 0, r.fail("sweep", result.Error, nil)
	}
	return result.RowsAffected, nil
}
