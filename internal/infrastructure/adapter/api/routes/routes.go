package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	Auth        *handler.AuthHandler
	Account     *handler.AccountHandler
	Transaction *handler.TransactionHandler
	Health      *handler.HealthHandler
}

// SetupRoutes configures all the routes for the API under basePath
func SetupRoutes(router *gin.Engine, basePath string, handlers Handlers, authenticate gin.HandlerFunc) {
	api := router.Group(normalizeBasePath(basePath))

	api.GET("/health", handlers.Health.Check)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", handlers.Auth.Register)
		authRoutes.POST("/login", handlers.Auth.Login)
		authRoutes.POST("/google-login", handlers.Auth.GoogleLogin)
		authRoutes.POST("/logout", authenticate, handlers.Auth.Logout)
		authRoutes.PUT("/change-password", authenticate, handlers.Auth.ChangePassword)
	}

	bankRoutes := api.Group("/bank", authenticate)
	{
		bankRoutes.GET("/profile", handlers.Account.Profile)
		bankRoutes.PUT("/update-profile", handlers.Account.UpdateProfile)
		bankRoutes.GET("/balance", handlers.Account.Balance)
		bankRoutes.GET("/transactions", handlers.Transaction.Transactions)
		bankRoutes.POST("/credit", handlers.Transaction.Credit)
		bankRoutes.POST("/debit", handlers.Transaction.Debit)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, corsOrigins []string) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(corsOrigins))
}

// SetupFallback answers unknown routes. When staticDir is set, GET requests outside the API
// are served from it, with index.html standing in for client-side routes.
func SetupFallback(router *gin.Engine, basePath, staticDir string) {
	apiPrefix := normalizeBasePath(basePath)

	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		isAPI := apiPrefix != "/" && (path == apiPrefix || strings.HasPrefix(path, apiPrefix+"/"))

		if staticDir != "" && !isAPI && (c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead) {
			if file, ok := staticFile(staticDir, path); ok {
				c.File(file)
				return
			}
			c.File(filepath.Join(staticDir, "index.html"))
			return
		}

		c.JSON(http.StatusNotFound, dto.Response{
			Success: false,
			Message: "Route not found",
			Code:    errs.ErrorCode(errs.ErrNotFound),
		})
	})
}

// staticFile resolves a request path inside dir without escaping it
func staticFile(dir, requestPath string) (string, bool) {
	clean := filepath.Clean("/" + requestPath)
	if clean == "/" {
		return "", false
	}

	file := filepath.Join(dir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}

func normalizeBasePath(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return "/"
	}
	return "/" + strings.Trim(basePath, "/")
}
