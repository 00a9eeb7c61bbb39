package ledger

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
)

// Window bounds for history reads
const (
	DefaultRecentLimit = 10
	DefaultMaxLimit    = 100
)

// Reader returns bounded, newest-first windows of an account's ledger
type Reader struct {
	accounts     persistence.AccountRepository
	entries      persistence.LedgerRepository
	logger       coreport.Logger
	defaultLimit int
	maxLimit     int
}

// NewReader creates a ledger Reader. Non-positive limits fall back to the package defaults.
func NewReader(
	accounts persistence.AccountRepository,
	entries persistence.LedgerRepository,
	logger coreport.Logger,
	defaultLimit int,
	maxLimit int,
) *Reader {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultRecentLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}

	return &Reader{
		accounts:     accounts,
		entries:      entries,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

var _ usecase.LedgerUseCase = (*Reader)(nil)

// RecentEntries returns at most limit entries, newest first, with display defaults applied
func (r *Reader) RecentEntries(ctx context.Context, accountID uint64, limit int) ([]entity.LedgerEntryView, error) {
	if accountID == 0 {
		return nil, errs.ErrInvalidAccountID
	}

	limit = r.window(limit)

	if _, err := r.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	entries, err := r.entries.ListRecent(ctx, accountID, limit)
	if err != nil {
		r.logger.Error("Failed to list ledger entries", map[string]any{
			"account_id": accountID,
			"limit":      limit,
			"error":      err.Error(),
		})
		return nil, err
	}

	views := make([]entity.LedgerEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entry.View())
	}

	return views, nil
}

func (r *Reader) window(limit int) int {
	if limit <= 0 {
		return r.defaultLimit
	}
	if limit > r.maxLimit {
		return r.maxLimit
	}
	return limit
}
