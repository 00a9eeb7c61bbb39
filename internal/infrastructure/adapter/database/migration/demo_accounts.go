package migration

import (
	"context"
	"errors"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
)

// DemoAccounts are registered by the seed command in development
var DemoAccounts = []usecase.Registration{
	{Username: "demo", Email: "demo@kodbank.local", Password: "demo-pass-123", Phone: "5550100"},
	{Username: "demo2", Email: "demo2@kodbank.local", Password: "demo-pass-123", Phone: "5550101"},
}

// SeedDemoAccounts registers each account that does not exist yet and returns how many were created
func SeedDemoAccounts(ctx context.Context, auth usecase.AuthUseCase, accounts []usecase.Registration, logger coreport.Logger) (int, error) {
	created := 0
	for _, registration := range accounts {
		_, err := auth.Register(ctx, registration)
		switch {
		case err == nil:
			created++
		case errors.Is(err, errs.ErrDuplicateUsername), errors.Is(err, errs.ErrDuplicateEmail):
			logger.Debug("Demo account already present", map[string]any{"username": registration.Username})
		default:
			return created, err
		}
	}
	return created, nil
}
