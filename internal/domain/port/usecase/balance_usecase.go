package usecase

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// EntryDetails are the optional labels recorded with a ledger entry
type EntryDetails struct {
	Description string
	Category    string
}

// AdjustResult describes a committed balance change
type AdjustResult struct {
	AccountID  uint64
	Direction  entity.EntryType
	Amount     decimal.Decimal
	NewBalance decimal.Decimal
	Entry      *entity.LedgerEntry
}

// BalanceUseCase mutates balances and records each change in the ledger
type BalanceUseCase interface {
	// Adjust applies one credit or debit. The amount is validated before storage is touched.
	Adjust(ctx context.Context, accountID uint64, direction entity.EntryType, amount string, details EntryDetails) (*AdjustResult, error)
	Credit(ctx context.Context, accountID uint64, amount string, details EntryDetails) (*AdjustResult, error)
	Debit(ctx context.Context, accountID uint64, amount string, details EntryDetails) (*AdjustResult, error)
}

// LedgerUseCase reads the transaction history
type LedgerUseCase interface {
	// RecentEntries returns the newest entries first. A limit of zero selects the default window.
	RecentEntries(ctx context.Context, accountID uint64, limit int) ([]entity.LedgerEntryView, error)
}
