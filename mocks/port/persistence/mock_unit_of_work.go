package persistence

import (
	"context"

	port "github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a testify mock of persistence.UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(context.Context), args.Error(1)
	}
	return ctx, args.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) GetAccountRepository(ctx context.Context) port.AccountRepository {
	args := m.Called(ctx)
	return args.Get(0).(port.AccountRepository)
}

func (m *MockUnitOfWork) GetLedgerRepository(ctx context.Context) port.LedgerRepository {
	args := m.Called(ctx)
	return args.Get(0).(port.LedgerRepository)
}

func (m *MockUnitOfWork) GetSessionRepository(ctx context.Context) port.SessionRepository {
	args := m.Called(ctx)
	return args.Get(0).(port.SessionRepository)
}
