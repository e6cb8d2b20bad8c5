package routes

import (
	"net/http"
	"time"

	"spabook/config"
	"spabook/handlers"
	"spabook/middleware"
	"spabook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterBookingRoutes sets up the endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthMiddleware())
		bookingGroup.POST("", middleware.RequireRole(utils.RoleCustomer, utils.RoleAdmin), hb.CreateBookingHandler)
		bookingGroup.GET("/:id", hb.GetBookingHandler)
		bookingGroup.GET("/:id/countdown", hb.CountdownHandler)
		bookingGroup.POST("/:id/accept", hb.AcceptBookingHandler)
		bookingGroup.POST("/:id/reject", hb.RejectBookingHandler)
		bookingGroup.POST("/:id/confirm", hb.ConfirmBookingHandler)
		bookingGroup.POST("/:id/complete", hb.CompleteBookingHandler)
		bookingGroup.POST("/:id/cancel", hb.CancelBookingHandler)
	}
}

// RegisterNotificationRoutes registers push permission endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.PUT("/token", hb.RegisterPushTokenHandler)
		api.DELETE("/token", hb.RevokePushTokenHandler)
		api.GET("/permission", hb.PermissionHandler)
	}
}

// RegisterCommissionRoutes exposes commission records to therapists and admins.
func RegisterCommissionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/commissions")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", middleware.RequireRole(utils.RoleTherapist, utils.RoleAdmin), hb.ListCommissionsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"message":      "Hi, I'm spabook",
			"dependencies": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, logger *zap.Logger) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterCommissionRoutes(r, hb)
}
