package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter returns an engine whose requests are already authenticated as accountID
func newRouter(accountID uint64) *gin.Engine {
	router := gin.New()
	if accountID != 0 {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.AccountIDKey, accountID)
			c.Set(middleware.TokenKey, "session-token")
			c.Next()
		})
	}
	return router
}

func perform(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}
