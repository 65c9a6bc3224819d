package controllers

import (
	"net/http"

	"storefront/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps an error to its HTTP status and a user-visible message.
// Non-application errors are logged and reported as a plain 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.StatusOf(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": apperrors.MessageOf(err)})
}
