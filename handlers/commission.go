package handlers

import (
	"context"
	"net/http"

	"spabook/middleware"
	"spabook/models"
	"spabook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommissionLister lists the commission records of a therapist.
type CommissionLister interface {
	GetByTherapistID(ctx context.Context, therapistID string) ([]models.CommissionRecord, error)
}

type CommissionHandler struct {
	Records CommissionLister
}

func NewCommissionHandler(records CommissionLister) *CommissionHandler {
	return &CommissionHandler{Records: records}
}

// ListCommissionsHandler handles GET /api/commissions. Therapists see their
// own records; admins pass ?therapistId=.
func (h *CommissionHandler) ListCommissionsHandler(c *gin.Context) {
	actorID, role, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Caller not found in context"})
		return
	}

	therapistID := actorID
	if role == utils.RoleAdmin {
		therapistID = c.Query("therapistId")
		if therapistID == "" {
			utils.JSONError(c, http.StatusBadRequest, "therapistId query parameter is required", "")
			return
		}
	}

	records, err := h.Records.GetByTherapistID(c.Request.Context(), therapistID)
	if err != nil {
		getLogger(c, nil).Error("Failed to list commission records", zap.String("therapistId", therapistID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load commission records, please try again", "")
		return
	}

	var commission, payout float64
	for _, r := range records {
		commission += r.AdminCommission
		payout += r.ProviderPayout
	}
	if records == nil {
		records = []models.CommissionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"therapistId":          therapistID,
		"records":              records,
		"totalAdminCommission": commission,
		"totalProviderPayout":  payout,
	})
}
