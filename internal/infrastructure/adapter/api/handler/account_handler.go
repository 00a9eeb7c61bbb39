package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// AccountHandler serves the profile and balance of the signed-in account
type AccountHandler struct {
	accounts usecase.AccountUseCase
	logger   coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(accounts usecase.AccountUseCase, logger coreport.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// Profile handles GET /bank/profile
func (h *AccountHandler) Profile(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	profile, err := h.accounts.Profile(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "profile", err)
		return
	}

	c.JSON(http.StatusOK, dto.Success("Profile retrieved", profile))
}

// UpdateProfile handles PUT /bank/update-profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "update profile", err)
		return
	}

	profile, err := h.accounts.UpdateProfile(c.Request.Context(), id, usecase.ProfileUpdate{
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondError(c, h.logger, "update profile", err)
		return
	}

	c.JSON(http.StatusOK, dto.Success("Profile updated successfully", profile))
}

// Balance handles GET /bank/balance
func (h *AccountHandler) Balance(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	balance, err := h.accounts.Balance(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "balance", err)
		return
	}

	c.JSON(http.StatusOK, dto.Success("Balance retrieved", dto.BalanceResponse{Balance: balance}))
}
