package balance

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// Service applies credits and debits.
// Each adjustment is one conditional balance update plus one ledger append in the same
// database transaction, so a ledger row exists exactly when the balance change committed.
type Service struct {
	uow          persistence.UnitOfWork
	validator    *AdjustmentValidator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new balance Service
func NewService(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		validator:    NewAdjustmentValidator(),
		timeProvider: timeProvider,
		logger:       logger,
	}
}

var _ usecase.BalanceUseCase = (*Service)(nil)

// Credit adds amount to the account balance
func (s *Service) Credit(ctx context.Context, accountID uint64, amount string, details usecase.EntryDetails) (*usecase.AdjustResult, error) {
	return s.Adjust(ctx, accountID, entity.EntryTypeCredit, amount, details)
}

// Debit removes amount from the account balance if it is covered
func (s *Service) Debit(ctx context.Context, accountID uint64, amount string, details usecase.EntryDetails) (*usecase.AdjustResult, error) {
	return s.Adjust(ctx, accountID, entity.EntryTypeDebit, amount, details)
}

// Adjust performs a single signed adjustment and records it
func (s *Service) Adjust(
	ctx context.Context,
	accountID uint64,
	direction entity.EntryType,
	rawAmount string,
	details usecase.EntryDetails,
) (*usecase.AdjustResult, error) {
	amount, err := s.validator.Validate(accountID, direction, rawAmount)
	if err != nil {
		s.logger.Warn("Rejected balance adjustment", map[string]any{
			"account_id": accountID,
			"direction":  string(direction),
			"amount":     rawAmount,
			"error":      err.Error(),
		})
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, s.fail(accountID, direction, amount, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Failed to roll back balance adjustment", map[string]any{
				"account_id": accountID,
				"error":      rbErr.Error(),
			})
		}
	}()

	accounts := s.uow.GetAccountRepository(txCtx)

	var newBalance decimal.Decimal
	if direction == entity.EntryTypeCredit {
		newBalance, err = accounts.Credit(txCtx, accountID, amount)
	} else {
		newBalance, err = accounts.Debit(txCtx, accountID, amount)
	}
	if err != nil {
		return nil, s.fail(accountID, direction, amount, err)
	}

	entry := entity.NewLedgerEntry(accountID, direction, amount, details.Description, details.Category, s.timeProvider.Now())
	if err := s.uow.GetLedgerRepository(txCtx).Append(txCtx, entry); err != nil {
		return nil, s.fail(accountID, direction, amount, err)
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, s.fail(accountID, direction, amount, err)
	}
	committed = true

	s.logger.Info("Balance adjusted", map[string]any{
		"account_id":  accountID,
		"direction":   string(direction),
		"amount":      entity.FormatAmount(amount),
		"new_balance": entity.FormatAmount(newBalance),
		"entry_id":    entry.ID,
	})

	return &usecase.AdjustResult{
		AccountID:  accountID,
		Direction:  direction,
		Amount:     amount,
		NewBalance: newBalance,
		Entry:      entry,
	}, nil
}

// fail wraps err with the adjustment and logs it at a level matching its kind
func (s *Service) fail(accountID uint64, direction entity.EntryType, amount decimal.Decimal, err error) error {
	wrapped := errs.NewBalanceError(accountID, string(direction), entity.FormatAmount(amount), err)

	fields := errs.LogFieldsOf(wrapped)
	switch errs.KindOf(err) {
	case errs.KindStorage, errs.KindInternal:
		s.logger.Error("Balance adjustment failed", fields)
	default:
		s.logger.Warn("Balance adjustment refused", fields)
	}

	return wrapped
}
