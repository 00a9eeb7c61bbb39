package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
)

const (
	maxPhoneLength        = 20
	maxProfileImageLength = 2048
)

// Service handles profile reads and edits
type Service struct {
	accounts persistence.AccountRepository
	logger   coreport.Logger
}

// NewService creates a new account Service
func NewService(accounts persistence.AccountRepository, logger coreport.Logger) *Service {
	return &Service{
		accounts: accounts,
		logger:   logger,
	}
}

var _ usecase.AccountUseCase = (*Service)(nil)

// Profile returns the non-secret projection of an account
func (s *Service) Profile(ctx context.Context, accountID uint64) (*entity.AccountProfile, error) {
	account, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile := account.Profile()
	return &profile, nil
}

// Balance returns the stored balance with two decimal places
func (s *Service) Balance(ctx context.Context, accountID uint64) (string, error) {
	account, err := s.load(ctx, accountID)
	if err != nil {
		return "", err
	}
	return account.GetBalance(), nil
}

// UpdateProfile changes phone and profile image; nil fields keep their value
func (s *Service) UpdateProfile(ctx context.Context, accountID uint64, update usecase.ProfileUpdate) (*entity.AccountProfile, error) {
	account, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if update.Phone != nil {
		phone := strings.TrimSpace(*update.Phone)
		if len(phone) > maxPhoneLength {
			return nil, fmt.Errorf("%w: phone must be at most %d characters", errs.ErrValidation, maxPhoneLength)
		}
		account.Phone = phone
	}

	if update.ProfileImage != nil {
		image := strings.TrimSpace(*update.ProfileImage)
		if len(image) > maxProfileImageLength {
			return nil, fmt.Errorf("%w: profile_image must be at most %d characters", errs.ErrValidation, maxProfileImageLength)
		}
		account.ProfileImage = image
	}

	if err := s.accounts.UpdateProfile(ctx, accountID, account.Phone, account.ProfileImage); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", map[string]any{
		"account_id": accountID,
	})

	profile := account.Profile()
	return &profile, nil
}

func (s *Service) load(ctx context.Context, accountID uint64) (*entity.Account, error) {
	if accountID == 0 {
		return nil, errs.ErrInvalidAccountID
	}
	return s.accounts.GetByID(ctx, accountID)
}
