package usecase

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	port "github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/stretchr/testify/mock"
)

// MockBalanceUseCase is a testify mock of usecase.BalanceUseCase
type MockBalanceUseCase struct {
	mock.Mock
}

func (m *MockBalanceUseCase) Adjust(ctx context.Context, accountID uint64, direction entity.EntryType, amount string, details port.EntryDetails) (*port.AdjustResult, error) {
	args := m.Called(ctx, accountID, direction, amount, details)
	return adjustArg(args), args.Error(1)
}

func (m *MockBalanceUseCase) Credit(ctx context.Context, accountID uint64, amount string, details port.EntryDetails) (*port.AdjustResult, error) {
	args := m.Called(ctx, accountID, amount, details)
	return adjustArg(args), args.Error(1)
}

func (m *MockBalanceUseCase) Debit(ctx context.Context, accountID uint64, amount string, details port.EntryDetails) (*port.AdjustResult, error) {
	args := m.Called(ctx, accountID, amount, details)
	return adjustArg(args), args.Error(1)
}

func adjustArg(args mock.Arguments) *port.AdjustResult {
	if v := args.Get(0); v != nil {
		return v.(*port.AdjustResult)
	}
	return nil
}

// MockLedgerUseCase is a testify mock of usecase.LedgerUseCase
type MockLedgerUseCase struct {
	mock.Mock
}

func (m *MockLedgerUseCase) RecentEntries(ctx context.Context, accountID uint64, limit int) ([]entity.LedgerEntryView, error) {
	args := m.Called(ctx, accountID, limit)
	if v := args.Get(0); v != nil {
		return v.([]entity.LedgerEntryView), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAccountUseCase is a testify mock of usecase.AccountUseCase
type MockAccountUseCase struct {
	mock.Mock
}

func (m *MockAccountUseCase) Profile(ctx context.Context, accountID uint64) (*entity.AccountProfile, error) {
	args := m.Called(ctx, accountID)
	return profileArg(args), args.Error(1)
}

func (m *MockAccountUseCase) Balance(ctx context.Context, accountID uint64) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

func (m *MockAccountUseCase) UpdateProfile(ctx context.Context, accountID uint64, update port.ProfileUpdate) (*entity.AccountProfile, error) {
	args := m.Called(ctx, accountID, update)
	return profileArg(args), args.Error(1)
}

func profileArg(args mock.Arguments) *entity.AccountProfile {
	if v := args.Get(0); v != nil {
		return v.(*entity.AccountProfile)
	}
	return nil
}

// MockAuthUseCase is a testify mock of usecase.AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, registration port.Registration) (*entity.AccountProfile, error) {
	args := m.Called(ctx, registration)
	return profileArg(args), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, username, password string) (*port.LoginResult, error) {
	args := m.Called(ctx, username, password)
	return loginArg(args), args.Error(1)
}

func (m *MockAuthUseCase) GoogleLogin(ctx context.Context, idToken string) (*port.LoginResult, error) {
	args := m.Called(ctx, idToken)
	return loginArg(args), args.Error(1)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthUseCase) ChangePassword(ctx context.Context, accountID uint64, currentPassword, newPassword string) error {
	args := m.Called(ctx, accountID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthUseCase) ResolveAccount(ctx context.Context, token string) (uint64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uint64), args.Error(1)
}

func loginArg(args mock.Arguments) *port.LoginResult {
	if v := args.Get(0); v != nil {
		return v.(*port.LoginResult)
	}
	return nil
}

// MockSessionSweeper is a testify mock of usecase.SessionSweeper
type MockSessionSweeper struct {
	mock.Mock
}

func (m *MockSessionSweeper) SweepExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
