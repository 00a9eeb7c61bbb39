package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const txKey contextKey = "tx"

type txState struct {
	tx     *gorm.DB
	cancel context.CancelFunc
}

// UnitOfWork implements the unit of work pattern for database transactions
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	queryTimeout coreport.Duration
	errorMapper  *ErrorMapper
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider, queryTimeout coreport.Duration) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		queryTimeout: queryTimeout,
		errorMapper:  NewErrorMapper(),
	}
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// Begin starts a transaction bounded by the query timeout.
// Waiting for a pooled connection counts against the same deadline.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if _, ok := ctx.Value(txKey).(*txState); ok {
		return ctx, fmt.Errorf("%w: transaction already open in context", errs.ErrInternalServer)
	}

	txCtx, cancel := u.timeProvider.WithTimeout(ctx, u.queryTimeout)

	tx := u.db.WithContext(txCtx).Begin(&sql.TxOptions{Isolation: sql.LevelDefault})
	if tx.Error != nil {
		cancel()
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, u.errorMapper.MapError(tx.Error, "begin")
	}

	u.logger.Debug("Database transaction started", nil)
	return context.WithValue(txCtx, txKey, &txState{tx: tx, cancel: cancel}), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	state, ok := ctx.Value(txKey).(*txState)
	if !ok {
		return fmt.Errorf("%w: no transaction found in context", errs.ErrInternalServer)
	}
	defer state.cancel()

	if err := state.tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return u.errorMapper.MapError(err, "commit")
	}

	u.logger.Debug("Database transaction committed", nil)
	return nil
}

// Rollback rolls back the current transaction. Rolling back a finished transaction is not an error.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	state, ok := ctx.Value(txKey).(*txState)
	if !ok {
		return fmt.Errorf("%w: no transaction found in context", errs.ErrInternalServer)
	}
	defer state.cancel()

	err := state.tx.Rollback().Error
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
		return u.errorMapper.MapError(err, "rollback")
	}

	u.logger.Debug("Database transaction rolled back", nil)
	return nil
}

// GetAccountRepository returns an account repository in the current transaction
func (u *UnitOfWork) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	return repository.NewAccountRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger, u.queryTimeout)
}

// GetLedgerRepository returns a ledger repository in the current transaction
func (u *UnitOfWork) GetLedgerRepository(ctx context.Context) persistence.LedgerRepository {
	return repository.NewLedgerRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger, u.queryTimeout)
}

// GetSessionRepository returns a session repository in the current transaction
func (u *UnitOfWork) GetSessionRepository(ctx context.Context) persistence.SessionRepository {
	return repository.NewSessionRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger, u.queryTimeout)
}

// getDbFromContext retrieves the database instance from context
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	if state, ok := ctx.Value(txKey).(*txState); ok {
		return state.tx
	}
	return u.db
}
