package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/logger"
	mockusecase "github.com/amirhossein-jamali/kodbank/mocks/port/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccountRouter(accounts *mockusecase.MockAccountUseCase, accountID uint64) http.Handler {
	h := NewAccountHandler(accounts, logger.NewNoopLogger())
	router := newRouter(accountID)
	router.GET("/bank/profile", h.Profile)
	router.PUT("/bank/update-profile", h.UpdateProfile)
	router.GET("/bank/balance", h.Balance)
	return router
}

func TestAccountHandler_Profile(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		accounts := new(mockusecase.MockAccountUseCase)
		accounts.On("Profile", mock.Anything, uint64(7)).Return(&entity.AccountProfile{
			ID:       7,
			Username: "alice",
			Email:    "a@x.io",
			Role:     "customer",
			Balance:  "100000.00",
		}, nil)
		router := newAccountRouter(accounts, 7)

		rec, env := perform(t, router, http.MethodGet, "/bank/profile", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var profile map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &profile))
		assert.Equal(t, "alice", profile["username"])
		assert.Equal(t, "100000.00", profile["balance"])
		assert.NotContains(t, profile, "password")
	})

	t.Run("account removed", func(t *testing.T) {
		accounts := new(mockusecase.MockAccountUseCase)
		accounts.On("Profile", mock.Anything, uint64(7)).Return(nil, errs.ErrAccountNotFound)
		router := newAccountRouter(accounts, 7)

		rec, env := perform(t, router, http.MethodGet, "/bank/profile", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Account not found", env.Message)
	})
}

func TestAccountHandler_Balance(t *testing.T) {
	accounts := new(mockusecase.MockAccountUseCase)
	accounts.On("Balance", mock.Anything, uint64(7)).Return("102000.00", nil)
	router := newAccountRouter(accounts, 7)

	rec, env := perform(t, router, http.MethodGet, "/bank/balance", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"balance": "102000.00"}`, string(env.Data))
}

func TestAccountHandler_UpdateProfile(t *testing.T) {
	accounts := new(mockusecase.MockAccountUseCase)
	accounts.On("UpdateProfile", mock.Anything, uint64(7), mock.MatchedBy(func(update usecase.ProfileUpdate) bool {
		return update.Phone != nil && *update.Phone == "+1 555 0100" && update.ProfileImage == nil
	})).Return(&entity.AccountProfile{ID: 7, Phone: "+1 555 0100"}, nil)
	router := newAccountRouter(accounts, 7)

	rec, env := perform(t, router, http.MethodPut, "/bank/update-profile", `{"phone": "+1 555 0100"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Profile updated successfully", env.Message)
	accounts.AssertExpectations(t)
}
