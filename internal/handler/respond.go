package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/apperrors"
)

// respondError maps service errors to HTTP responses. Known error kinds
// carry their own status; anything else is a 500 with a generic body.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message, "code": string(appErr.Kind)})
		return
	}

	logger.Error("Unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
