package handlers

import (
	"context"
	"net/http"

	"spabook/middleware"
	"spabook/models"
	"spabook/services/notification"
	"spabook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// PushTokenRegistry stores device tokens per recipient.
type PushTokenRegistry interface {
	Register(ctx context.Context, recipientID, token string) error
	Revoke(ctx context.Context, recipientID string) error
}

// PermissionCache is the dispatcher's view of recipient permissions.
type PermissionCache interface {
	RequestPermission(ctx context.Context, recipientID string) notification.PermissionState
	ForgetPermission(recipientID string)
}

type NotificationHandler struct {
	Tokens      PushTokenRegistry
	Permissions PermissionCache
	validate    *validator.Validate
}

func NewNotificationHandler(tokens PushTokenRegistry, permissions PermissionCache) *NotificationHandler {
	return &NotificationHandler{
		Tokens:      tokens,
		Permissions: permissions,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterPushTokenHandler handles PUT /api/notifications/token.
func (h *NotificationHandler) RegisterPushTokenHandler(c *gin.Context) {
	actorID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Caller not found in context"})
		return
	}

	var input models.PushTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	if err := h.validate.Struct(input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid push token", err.Error())
		return
	}

	if err := h.Tokens.Register(c.Request.Context(), actorID, input.Token); err != nil {
		getLogger(c, nil).Error("Failed to register push token", zap.String("recipient", actorID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not register push token", "")
		return
	}
	h.Permissions.ForgetPermission(actorID)

	c.JSON(http.StatusOK, gin.H{"permission": notification.PermissionGranted})
}

// RevokePushTokenHandler handles DELETE /api/notifications/token.
func (h *NotificationHandler) RevokePushTokenHandler(c *gin.Context) {
	actorID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Caller not found in context"})
		return
	}

	if err := h.Tokens.Revoke(c.Request.Context(), actorID); err != nil {
		getLogger(c, nil).Error("Failed to revoke push token", zap.String("recipient", actorID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not revoke push token", "")
		return
	}
	h.Permissions.ForgetPermission(actorID)

	c.JSON(http.StatusOK, gin.H{"permission": notification.PermissionDenied})
}

// PermissionHandler handles GET /api/notifications/permission.
func (h *NotificationHandler) PermissionHandler(c *gin.Context) {
	actorID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Caller not found in context"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"permission": h.Permissions.RequestPermission(c.Request.Context(), actorID)})
}
