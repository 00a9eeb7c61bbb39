package balance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/kodbank/mocks/port/core"
	"github.com/amirhossein-jamali/kodbank/mocks/port/persistence"
)

type txMarker struct{}

type fixture struct {
	uow      *persistence.MockUnitOfWork
	accounts *persistence.MockAccountRepository
	ledger   *persistence.MockLedgerRepository
	service  *Service
	ctx      context.Context
	txCtx    context.Context
}

func newFixture(t *testing.T, now time.Time) *fixture {
	f := &fixture{
		uow:      new(persistence.MockUnitOfWork),
		accounts: new(persistence.MockAccountRepository),
		ledger:   new(persistence.MockLedgerRepository),
		ctx:      context.Background(),
	}
	f.txCtx = context.WithValue(f.ctx, txMarker{}, "tx")

	timeProvider := core.NewMockTimeProvider(t).Fixed(now)
	logger := core.NewMockLogger(t).AllowAll()
	f.service = NewService(f.uow, timeProvider, logger)
	return f
}

func (f *fixture) expectTransaction() {
	f.uow.On("Begin", f.ctx).Return(f.txCtx, nil)
	f.uow.On("GetAccountRepository", f.txCtx).Return(f.accounts)
	f.uow.On("GetLedgerRepository", f.txCtx).Return(f.ledger).Maybe()
}

func TestService_Adjust(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	accountID := uint64(42)

	t.Run("credit increments balance and appends one entry", func(t *testing.T) {
		// Arrange
		f := newFixture(t, fixedTime)
		f.expectTransaction()
		f.accounts.On("Credit", f.txCtx, accountID, decimal.RequireFromString("5000")).
			Return(decimal.RequireFromString("105000.00"), nil)
		f.ledger.On("Append", f.txCtx, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
			return e.AccountID == accountID &&
				e.Type == entity.EntryTypeCredit &&
				e.Amount.Equal(decimal.NewFromInt(5000)) &&
				e.Description == "Account Credit" &&
				e.Category == entity.DefaultCategory &&
				e.Status == entity.StatusCompleted &&
				e.CreatedAt.Equal(fixedTime)
		})).Return(nil)
		f.uow.On("Commit", f.txCtx).Return(nil)

		// Act
		result, err := f.service.Credit(f.ctx, accountID, "5000", usecase.EntryDetails{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "105000.00", entity.FormatAmount(result.NewBalance))
		assert.Equal(t, entity.EntryTypeCredit, result.Direction)
		f.uow.AssertNotCalled(t, "Rollback", mock.Anything)
		f.uow.AssertExpectations(t)
		f.accounts.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
	})

	t.Run("debit uses the conditional update and keeps supplied labels", func(t *testing.T) {
		// Arrange
		f := newFixture(t, fixedTime)
		f.expectTransaction()
		f.accounts.On("Debit", f.txCtx, accountID, decimal.RequireFromString("3000")).
			Return(decimal.RequireFromString("102000.00"), nil)
		f.ledger.On("Append", f.txCtx, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
			return e.Type == entity.EntryTypeDebit && e.Description == "Rent" && e.Category == "Housing"
		})).Return(nil)
		f.uow.On("Commit", f.txCtx).Return(nil)

		// Act
		result, err := f.service.Debit(f.ctx, accountID, "3000", usecase.EntryDetails{Description: "Rent", Category: "Housing"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "102000.00", entity.FormatAmount(result.NewBalance))
		f.accounts.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient funds rolls back without a ledger entry", func(t *testing.T) {
		// Arrange
		f := newFixture(t, fixedTime)
		f.expectTransaction()
		f.accounts.On("Debit", f.txCtx, accountID, decimal.RequireFromString("200000")).
			Return(decimal.Zero, errs.NewInsufficientFundsError(accountID, "200000.00", "102000.00"))
		f.uow.On("Rollback", f.txCtx).Return(nil)

		// Act
		result, err := f.service.Debit(f.ctx, accountID, "200000", usecase.EntryDetails{})

		// Assert
		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, errs.KindInsufficientFunds, errs.KindOf(err))
		f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
		f.uow.AssertExpectations(t)
	})

	t.Run("missing account is reported as not found", func(t *testing.T) {
		// Arrange
		f := newFixture(t, fixedTime)
		f.expectTransaction()
		f.accounts.On("Credit", f.txCtx, uint64(7), mock.Anything).Return(decimal.Zero, errs.ErrAccountNotFound)
		f.uow.On("Rollback", f.txCtx).Return(nil)

		// Act
		_, err := f.service.Credit(f.ctx, 7, "10", usecase.EntryDetails{})

		// Assert
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
		f.uow.AssertExpectations(t)
	})

	t.Run("ledger failure rolls back the balance change", func(t *testing.T) {
		// Arrange
		f := newFixture(t, fixedTime)
		f.expectTransaction()
		f.accounts.On("Credit", f.txCtx, accountID, mock.Anything).Return(decimal.NewFromInt(100010), nil)
		f.ledger.On("Append", f.txCtx, mock.Anything).
			Return(fmt.Errorf("%w: connection reset", errs.ErrStorageFailure))
		f.uow.On("Rollback", f.txCtx).Return(nil)

		// Act
		result, err := f.service.Credit(f.ctx, accountID, "10", usecase.EntryDetails{})

		// Assert
		assert.Nil(t, result)
		assert.True(t, errs.IsStorageFailure(err))
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
		f.uow.AssertExpectations(t)
	})

	t.Run("commit failure is a storage failure", func(t *testing.T) {
		// Arrange
		f := newFixture(t, fixedTime)
		f.expectTransaction()
		f.accounts.On("Credit", f.txCtx, accountID, mock.Anything).Return(decimal.NewFromInt(100010), nil)
		f.ledger.On("Append", f.txCtx, mock.Anything).Return(nil)
		f.uow.On("Commit", f.txCtx).Return(fmt.Errorf("%w: commit", errs.ErrStorageFailure))
		f.uow.On("Rollback", f.txCtx).Return(nil)

		// Act
		_, err := f.service.Credit(f.ctx, accountID, "10", usecase.EntryDetails{})

		// Assert
		assert.True(t, errs.IsStorageFailure(err))
		f.uow.AssertExpectations(t)
	})

	t.Run("begin failure never touches repositories", func(t *testing.T) {
		// Arrange
		f := newFixture(t, fixedTime)
		f.uow.On("Begin", f.ctx).Return(nil, fmt.Errorf("%w: pool timeout", errs.ErrStorageFailure))

		// Act
		_, err := f.service.Debit(f.ctx, accountID, "10", usecase.EntryDetails{})

		// Assert
		assert.True(t, errs.IsStorageFailure(err))
		f.uow.AssertNotCalled(t, "GetAccountRepository", mock.Anything)
		f.uow.AssertNotCalled(t, "Rollback", mock.Anything)
	})
}

func TestService_Adjust_RejectsBeforeStorage(t *testing.T) {
	testCases := []struct {
		name      string
		accountID uint64
		direction entity.EntryType
		amount    string
		expected  error
	}{
		{"absent amount", 1, entity.EntryTypeCredit, "", errs.ErrInvalidAmount},
		{"zero amount", 1, entity.EntryTypeDebit, "0", errs.ErrInvalidAmount},
		{"negative amount", 1, entity.EntryTypeCredit, "-5", errs.ErrInvalidAmount},
		{"non-numeric amount", 1, entity.EntryTypeDebit, "ten", errs.ErrInvalidAmount},
		{"overflowing amount", 1, entity.EntryTypeCredit, "99999999999999", errs.ErrAmountOverflow},
		{"huge exponent", 1, entity.EntryTypeCredit, "1e100000000", errs.ErrAmountOverflow},
		{"tiny exponent", 1, entity.EntryTypeDebit, "1e-100000000", errs.ErrInvalidAmount},
		{"zero account", 0, entity.EntryTypeCredit, "10", errs.ErrInvalidAccountID},
		{"transfer direction", 1, entity.EntryTypeTransfer, "10", errs.ErrInvalidDirection},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, time.Now())

			// Act
			result, err := f.service.Adjust(f.ctx, tc.accountID, tc.direction, tc.amount, usecase.EntryDetails{})

			// Assert
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tc.expected), "got %v", err)
			assert.Equal(t, errs.KindValidation, errs.KindOf(err))
			f.uow.AssertNotCalled(t, "Begin", mock.Anything)
		})
	}
}
