package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/kodbank/internal/domain/usecase/balance"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersists(t *testing.T) {
	// Arrange
	tdb := NewTestDBManager(t, logger.NewNoopLogger())
	id := tdb.CreateTestAccount(t, "alice", "10.00")
	uow := tdb.Manager.CreateUnitOfWork()

	// Act
	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	_, err = uow.GetAccountRepository(txCtx).Credit(txCtx, id, decimal.RequireFromString("5"))
	require.NoError(t, err)
	require.NoError(t, uow.Commit(txCtx))

	// Assert
	account, err := tdb.Manager.AccountRepository().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "15.00", entity.FormatAmount(account.Balance()))
	assert.NoError(t, uow.Rollback(txCtx))
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	tdb := NewTestDBManager(t, logger.NewNoopLogger())
	id := tdb.CreateTestAccount(t, "bob", "10.00")
	uow := tdb.Manager.CreateUnitOfWork()

	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	_, err = uow.GetAccountRepository(txCtx).Debit(txCtx, id, decimal.RequireFromString("4"))
	require.NoError(t, err)
	require.NoError(t, uow.GetLedgerRepository(txCtx).Append(txCtx,
		entity.NewLedgerEntry(id, entity.EntryTypeDebit, decimal.RequireFromString("4"), "", "", tdb.TimeProvider.Now())))
	require.NoError(t, uow.Rollback(txCtx))

	account, err := tdb.Manager.AccountRepository().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "10.00", entity.FormatAmount(account.Balance()))
	assert.Equal(t, int64(0), tdb.CountRows(t, "transactions"))
}

func TestUnitOfWork_RollbackKeepsPasswordAndSessions(t *testing.T) {
	// Arrange
	tdb := NewTestDBManager(t, logger.NewNoopLogger())
	id := tdb.CreateTestAccount(t, "carol", "10.00")
	now := tdb.TimeProvider.Now()
	require.NoError(t, tdb.Manager.SessionRepository().Create(context.Background(),
		entity.NewSession("carol-token", id, now, now.Add(time.Hour))))
	uow := tdb.Manager.CreateUnitOfWork()

	// Act
	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, uow.GetAccountRepository(txCtx).UpdatePassword(txCtx, id, "new-hash"))
	revoked, err := uow.GetSessionRepository(txCtx).DeleteByAccount(txCtx, id)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback(txCtx))

	// Assert
	assert.Equal(t, int64(1), revoked)
	account, err := tdb.Manager.AccountRepository().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "not-a-real-hash", account.PasswordHash)
	_, err = tdb.Manager.SessionRepository().GetByTokenHash(context.Background(), entity.HashToken("carol-token"))
	assert.NoError(t, err)
}

func TestUnitOfWork_ContextErrors(t *testing.T) {
	tdb := NewTestDBManager(t, logger.NewNoopLogger())
	uow := tdb.Manager.CreateUnitOfWork()
	ctx := context.Background()

	assert.ErrorIs(t, uow.Commit(ctx), errs.ErrInternalServer)
	assert.ErrorIs(t, uow.Rollback(ctx), errs.ErrInternalServer)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = uow.Rollback(txCtx) }()

	_, err = uow.Begin(txCtx)
	assert.ErrorIs(t, err, errs.ErrInternalServer)
}

func TestBalanceService_AgainstStore(t *testing.T) {
	// Arrange
	tdb := NewTestDBManager(t, logger.NewNoopLogger())
	id := tdb.CreateTestAccount(t, "carol", "100000.00")
	service := balance.NewService(tdb.Manager.CreateUnitOfWork(), tdb.TimeProvider, logger.NewNoopLogger())
	ctx := context.Background()

	// Act
	credited, err := service.Credit(ctx, id, "5000", usecase.EntryDetails{Description: "Salary", Category: "Income"})
	require.NoError(t, err)
	debited, err := service.Debit(ctx, id, "3000", usecase.EntryDetails{})
	require.NoError(t, err)
	_, refusedErr := service.Debit(ctx, id, "1000000", usecase.EntryDetails{})

	// Assert
	assert.Equal(t, "105000.00", entity.FormatAmount(credited.NewBalance))
	assert.Equal(t, "102000.00", entity.FormatAmount(debited.NewBalance))
	assert.True(t, errs.IsInsufficientFunds(refusedErr))

	entries, err := tdb.Manager.LedgerRepository().ListRecent(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.EntryTypeDebit, entries[0].Type)
	assert.Equal(t, "Account Debit", entries[0].Description)
	assert.Equal(t, "Salary", entries[1].Description)
	assert.Equal(t, "Income", entries[1].Category)
}

func TestBalanceService_ConcurrentAdjustmentsKeepLedgerConsistent(t *testing.T) {
	// Arrange
	tdb := NewTestDBManager(t, logger.NewNoopLogger())
	id := tdb.CreateTestAccount(t, "dave", "500.00")
	service := balance.NewService(tdb.Manager.CreateUnitOfWork(), tdb.TimeProvider, logger.NewNoopLogger())
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied = decimal.RequireFromString("500.00")
	)

	// Act
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var (
				result *usecase.AdjustResult
				err    error
			)
			if i%3 == 0 {
				result, err = service.Credit(ctx, id, "25.25", usecase.EntryDetails{})
			} else {
				result, err = service.Debit(ctx, id, "60.10", usecase.EntryDetails{})
			}
			if err != nil {
				assert.True(t, errs.IsInsufficientFunds(err), "unexpected error: %v", err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			if result.Direction == entity.EntryTypeCredit {
				applied = applied.Add(result.Amount)
			} else {
				applied = applied.Sub(result.Amount)
			}
		}(i)
	}
	wg.Wait()

	// Assert
	account, err := tdb.Manager.AccountRepository().GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, account.Balance().IsNegative())
	assert.Equal(t, entity.FormatAmount(applied), entity.FormatAmount(account.Balance()))

	entries, err := tdb.Manager.LedgerRepository().ListRecent(ctx, id, 100)
	require.NoError(t, err)
	ledgerSum := decimal.RequireFromString("500.00")
	for _, entry := range entries {
		if entry.Type == entity.EntryTypeCredit {
			ledgerSum = ledgerSum.Add(entry.Amount)
		} else {
			ledgerSum = ledgerSum.Sub(entry.Amount)
		}
	}
	assert.Equal(t, entity.FormatAmount(account.Balance()), entity.FormatAmount(ledgerSum))
}

func TestHealthChecker_Check(t *testing.T) {
	tdb := NewTestDBManager(t, logger.NewNoopLogger())
	checker := NewHealthChecker(tdb.Manager, logger.NewNoopLogger(), tdb.TimeProvider, tdb.Config.QueryTimeout)

	report := checker.Check(context.Background())

	assert.True(t, report.Healthy)
	assert.Empty(t, report.Error)
	assert.Equal(t, 1, report.Pool.MaxOpen)

	require.NoError(t, tdb.Manager.Close())
	report = checker.Check(context.Background())
	assert.False(t, report.Healthy)
	assert.NotEmpty(t, report.Error)
}
