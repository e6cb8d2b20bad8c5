package handlers

import (
	"spabook/middleware"
	"spabook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request logger set by middleware.RequestLogger,
// falling back to the handler's own logger and then the global one. The
// caller id is attached when the request is authenticated.
func getLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	logger := fallback
	if l, exists := c.Get("logger"); exists {
		if ctxLogger, ok := l.(*zap.Logger); ok {
			logger = ctxLogger
		}
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	if actorID, role, ok := middleware.ActorFromContext(c); ok {
		logger = logger.With(zap.String("actorId", actorID), zap.String("role", role))
	}
	return logger
}
