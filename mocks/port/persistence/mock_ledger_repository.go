package persistence

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockLedgerRepository is a testify mock of persistence.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListRecent(ctx context.Context, accountID uint64, limit int) ([]*entity.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if v := args.Get(0); v != nil {
		return v.([]*entity.LedgerEntry), args.Error(1)
	}
	return nil, args.Error(1)
}
