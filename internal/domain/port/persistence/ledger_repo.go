package persistence

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
)

// LedgerRepository defines the append-only transaction ledger
type LedgerRepository interface {
	// Append records an entry and sets its ID
	//
	// Possible errors:
	// - ErrAccountNotFound: If the referenced account doesn't exist
	// - ErrStorageFailure: If the store cannot be reached or times out
	Append(ctx context.Context, entry *entity.LedgerEntry) error

	// ListRecent returns at most limit entries of an account, newest first
	//
	// Possible errors:
	// - ErrStorageFailure: If the store cannot be reached or times out
	ListRecent(ctx context.Context, accountID uint64, limit int) ([]*entity.LedgerEntry, error)
}
