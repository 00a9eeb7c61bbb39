package persistence

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a testify mock of persistence.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uint64) (*entity.Account, error) {
	args := m.Called(ctx, id)
	return accountArg(args), args.Error(1)
}

func (m *MockAccountRepository) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	args := m.Called(ctx, username)
	return accountArg(args), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	return accountArg(args), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, id uint64, phone, profileImage string) error {
	args := m.Called(ctx, id, phone, profileImage)
	return args.Error(0)
}

func (m *MockAccountRepository) Credit(ctx context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func accountArg(args mock.Arguments) *entity.Account {
	if v := args.Get(0); v != nil {
		return v.(*entity.Account)
	}
	return nil
}
