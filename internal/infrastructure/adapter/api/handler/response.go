package handler

import (
	"fmt"
	"net/http"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/middleware"
	applog "github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
)

// respondError writes the envelope for err. Only server-side failures are logged here;
// use cases already log the refusals they produce.
func respondError(c *gin.Context, logger coreport.Logger, operation string, err error) {
	status := dto.ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		fields := errs.LogFieldsOf(err)
		fields["operation"] = operation
		applog.FromContext(c.Request.Context(), logger).Error("Request failed", fields)
	}
	_ = c.Error(err)
	c.JSON(status, dto.ErrorResponse(err))
}

// bindJSON decodes the body into req, reporting malformed input as a validation error
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: invalid request body: %s", errs.ErrValidation, err.Error())
	}
	return nil
}

// accountID returns the authenticated account or writes a 401
func accountID(c *gin.Context) (uint64, bool) {
	id, ok := middleware.AccountIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse(errs.ErrUnauthorized))
		return 0, false
	}
	return id, true
}
