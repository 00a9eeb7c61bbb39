package handler

import (
	"net/http"
	"time"

	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// CookieSettings controls the session cookie
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthHandler handles registration, sign-in and credential changes
type AuthHandler struct {
	auth         usecase.AuthUseCase
	cookie       CookieSettings
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(
	auth usecase.AuthUseCase,
	cookie CookieSettings,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		cookie:       cookie,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "register", err)
		return
	}

	if _, err := h.auth.Register(c.Request.Context(), usecase.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	}); err != nil {
		respondError(c, h.logger, "register", err)
		return
	}

	c.JSON(http.StatusCreated, dto.Success("User registered successfully", nil))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "login", err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	c.JSON(http.StatusOK, dto.Success("Login successful", dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.Account,
	}))
}

// GoogleLogin handles POST /auth/google-login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "google login", err)
		return
	}

	result, err := h.auth.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, h.logger, "google login", err)
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	c.JSON(http.StatusOK, dto.Success("Google login successful", dto.UserResponse{User: result.Account}))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.TokenFrom(c)); err != nil {
		respondError(c, h.logger, "logout", err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, dto.Success("Logged out successfully", nil))
}

// ChangePassword handles PUT /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "change password", err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, "change password", err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, dto.Success("Password changed successfully, please log in again", nil))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(h.timeProvider.Until(expiresAt).Std().Seconds())
	if maxAge <= 0 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}
