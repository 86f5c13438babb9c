package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/zobamart/marketplace-backend/internal/logger"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
)

// ErrorHandler renders errors attached to the Gin context. Domain errors
// surface their specific message and code; everything else is masked so
// internals never leak to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("request error")
			}

			var appErr *apperror.AppError
			if errors.As(err.Err, &appErr) {
				c.JSON(appErr.HTTPStatus, gin.H{
					"error": appErr.Message,
					"code":  string(appErr.Code),
				})
				return
			}

			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
	}
}
