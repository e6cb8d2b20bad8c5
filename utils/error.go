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

// requestLogger prefers the request-scoped logger set by the request logging middleware.
func requestLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return GetLogger()
}

// ErrorHandler is a middleware that turns panics in booking handlers into a JSON 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestLogger(c).Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
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

// JSONError sends a standardized JSON error response and stops the handler chain.
func JSONError(c *gin.Context, status int, message string, details string) {
	fields := []zap.Field{zap.Int("status", status), zap.String("path", c.Request.URL.Path)}
	if details != "" {
		fields = append(fields, zap.String("details", details))
	}
	if status >= http.StatusInternalServerError {
		requestLogger(c).Error(message, fields...)
	} else {
		requestLogger(c).Warn(message, fields...)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}
