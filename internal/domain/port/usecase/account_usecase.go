package usecase

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
)

// ProfileUpdate carries the editable profile fields. Nil leaves a field unchanged.
type ProfileUpdate struct {
	Phone        *string
	ProfileImage *string
}

// AccountUseCase reads and edits the non-secret part of an account
type AccountUseCase interface {
	Profile(ctx context.Context, accountID uint64) (*entity.AccountProfile, error)
	Balance(ctx context.Context, accountID uint64) (string, error)
	UpdateProfile(ctx context.Context, accountID uint64, update ProfileUpdate) (*entity.AccountProfile, error)
}
