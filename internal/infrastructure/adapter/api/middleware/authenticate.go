package middleware

import (
	"strings"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/dto"
	applog "github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
)

// Gin context keys set by Authenticate
const (
	AccountIDKey = "account_id"
	TokenKey     = "session_token"
)

// Authenticate resolves the session token to an account and rejects the request with 401 otherwise.
// The cookie is preferred; an Authorization bearer header is the fallback.
func Authenticate(auth usecase.AuthUseCase, cookieName string, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			c.AbortWithStatusJSON(dto.ErrorStatus(errs.ErrUnauthorized), dto.ErrorResponse(errs.ErrUnauthorized))
			return
		}

		accountID, err := auth.ResolveAccount(c.Request.Context(), token)
		if err != nil {
			log := applog.FromContext(c.Request.Context(), logger)
			if errs.KindOf(err) == errs.KindAuth {
				log.Debug("Request rejected by authentication", map[string]any{"error": err.Error()})
			} else {
				log.Error("Authentication lookup failed", map[string]any{"error": err.Error()})
			}
			c.AbortWithStatusJSON(dto.ErrorStatus(err), dto.ErrorResponse(err))
			return
		}

		c.Set(AccountIDKey, accountID)
		c.Set(TokenKey, token)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// AccountIDFrom returns the account resolved by Authenticate
func AccountIDFrom(c *gin.Context) (uint64, bool) {
	value, ok := c.Get(AccountIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok && id != 0
}

// TokenFrom returns the raw session token accepted by Authenticate
func TokenFrom(c *gin.Context) string {
	return c.GetString(TokenKey)
}
