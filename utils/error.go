package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response. Server-side failures
// are logged at error level, client mistakes at warn.
func JSONError(c *gin.Context, status int, message string, details string) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", c.FullPath()),
		zap.String("details", details),
	}
	if status >= http.StatusInternalServerError {
		GetLogger().Error(message, fields...)
	} else {
		GetLogger().Warn(message, fields...)
	}
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}
