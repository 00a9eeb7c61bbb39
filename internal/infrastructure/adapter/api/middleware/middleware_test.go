package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	applog "github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/logger"
	mockusecase "github.com/amirhossein-jamali/kodbank/mocks/port/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const cookieName = "kb_session"

// whoami echoes what Authenticate stored on the context
func whoami(c *gin.Context) {
	id, _ := AccountIDFrom(c)
	c.JSON(http.StatusOK, gin.H{"account_id": id, "token": TokenFrom(c)})
}

func TestAuthenticate(t *testing.T) {
	testCases := []struct {
		name           string
		cookie         string
		authorization  string
		setupMock      func(auth *mockusecase.MockAuthUseCase)
		expectedStatus int
		expectedToken  string
	}{
		{
			name:   "cookie",
			cookie: "cookie-token",
			setupMock: func(auth *mockusecase.MockAuthUseCase) {
				auth.On("ResolveAccount", mock.Anything, "cookie-token").Return(uint64(7), nil)
			},
			expectedStatus: http.StatusOK,
			expectedToken:  "cookie-token",
		},
		{
			name:          "cookie preferred over bearer",
			cookie:        "cookie-token",
			authorization: "Bearer header-token",
			setupMock: func(auth *mockusecase.MockAuthUseCase) {
				auth.On("ResolveAccount", mock.Anything, "cookie-token").Return(uint64(7), nil)
			},
			expectedStatus: http.StatusOK,
			expectedToken:  "cookie-token",
		},
		{
			name:          "bearer fallback",
			authorization: "bearer header-token",
			setupMock: func(auth *mockusecase.MockAuthUseCase) {
				auth.On("ResolveAccount", mock.Anything, "header-token").Return(uint64(7), nil)
			},
			expectedStatus: http.StatusOK,
			expectedToken:  "header-token",
		},
		{
			name:           "no token",
			authorization:  "Basic dXNlcjpwYXNz",
			setupMock:      func(auth *mockusecase.MockAuthUseCase) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "revoked session",
			cookie: "revoked",
			setupMock: func(auth *mockusecase.MockAuthUseCase) {
				auth.On("ResolveAccount", mock.Anything, "revoked").Return(uint64(0), errs.ErrUnauthorized)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired session",
			cookie: "expired",
			setupMock: func(auth *mockusecase.MockAuthUseCase) {
				auth.On("ResolveAccount", mock.Anything, "expired").Return(uint64(0), errs.ErrSessionExpired)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "storage failure",
			cookie: "any",
			setupMock: func(auth *mockusecase.MockAuthUseCase) {
				auth.On("ResolveAccount", mock.Anything, "any").Return(uint64(0), errs.ErrStorageFailure)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			auth := new(mockusecase.MockAuthUseCase)
			tc.setupMock(auth)

			router := gin.New()
			router.GET("/me", Authenticate(auth, cookieName, applog.NewNoopLogger()), whoami)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: tc.cookie})
			}
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			rec := httptest.NewRecorder()

			// Act
			router.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedStatus == http.StatusOK {
				var body struct {
					AccountID uint64 `json:"account_id"`
					Token     string `json:"token"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, uint64(7), body.AccountID)
				assert.Equal(t, tc.expectedToken, body.Token)
			} else {
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
			auth.AssertExpectations(t)
		})
	}
}

func TestCORS(t *testing.T) {
	newCORSRouter := func(origins ...string) *gin.Engine {
		router := gin.New()
		router.Use(CORS(origins))
		router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
		return router
	}

	t.Run("allowed origin is echoed with credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()

		newCORSRouter("http://localhost:5173/").ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("other origins get no grant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()

		newCORSRouter("http://localhost:5173").ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		testCases := []struct {
			origin         string
			expectedStatus int
		}{
			{"http://localhost:5173", http.StatusNoContent},
			{"https://evil.example", http.StatusForbidden},
		}
		for _, tc := range testCases {
			req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()

			newCORSRouter("http://localhost:5173").ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code, tc.origin)
		}
	})

	t.Run("wildcard reflects the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://app.example")
		rec := httptest.NewRecorder()

		newCORSRouter("*").ServeHTTP(rec, req)

		assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestID(t *testing.T) {
	testCases := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{"generated when absent", "", false},
		{"client id reused", "req-123", true},
		{"oversized id replaced", strings.Repeat("x", 65), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			router := gin.New()
			router.Use(RequestID())
			router.GET("/ping", func(c *gin.Context) {
				seen = applog.RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, got, seen)
			if tc.reused {
				assert.Equal(t, tc.incoming, got)
			} else {
				assert.NotEqual(t, tc.incoming, got)
				assert.Len(t, got, 36)
			}
		})
	}
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), ErrorHandler(applog.NewNoopLogger()))
	router.GET("/boom", func(c *gin.Context) { panic("nil map write") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success": false, "message": "Internal server error", "code": 5000}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "nil map write")
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
