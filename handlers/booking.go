package handlers

import (
	"errors"
	"net/http"

	"spabook/middleware"
	"spabook/models"
	"spabook/services/booking"
	"spabook/services/identity"
	"spabook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	BookingService booking.LifecycleService
	Logger         *zap.Logger
}

func NewBookingHandler(bookingService booking.LifecycleService, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandler{
		BookingService: bookingService,
		Logger:         logger,
	}
}

type transitionInput struct {
	Reason string `json:"reason"`
}

// participant describes how the caller relates to a booking.
type participant int

const (
	outsider participant = iota
	asCustomer
	asTherapist
	asAdmin
)

func relation(c *gin.Context, b *models.Booking) participant {
	actorID, role, _ := middleware.ActorFromContext(c)
	switch {
	case role == utils.RoleAdmin:
		return asAdmin
	case role == utils.RoleTherapist && actorID == b.TherapistID:
		return asTherapist
	case role == utils.RoleCustomer && actorID == b.CustomerID:
		return asCustomer
	}
	return outsider
}

func (h *BookingHandler) logger(c *gin.Context) *zap.Logger {
	return getLogger(c, h.Logger)
}

// respondError maps coordinator errors onto HTTP responses.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var validationErr *booking.ValidationError
	var duplicateErr *booking.DuplicateBookingError
	var identityErr *identity.IdentityError
	var storeErr *booking.StoreError

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", validationErr.Error())
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, gin.H{
			"message":           "An active booking with this therapist already exists",
			"existingBookingId": duplicateErr.ExistingBookingID,
			"status":            duplicateErr.Status,
		})
	case errors.Is(err, booking.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
	case errors.As(err, &identityErr):
		h.logger(c).Error("Customer identity unresolved", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not resolve customer details, please try again", "")
	case errors.As(err, &storeErr):
		h.logger(c).Error("Booking store failure", zap.String("bookingId", storeErr.BookingID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Booking could not be saved, please try again", "")
	default:
		h.logger(c).Error("Unexpected booking error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actorID, role, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Caller not found in context"})
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", err.Error())
		return
	}

	switch role {
	case utils.RoleCustomer:
		req.CustomerID = actorID
	case utils.RoleAdmin:
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Only customers can create bookings"})
		return
	}

	created, err := h.BookingService.Create(c.Request.Context(), req)
	if err != nil {
		var storeErr *booking.StoreError
		if created != nil && errors.As(err, &storeErr) && storeErr.Orphaned {
			// The booking exists and its deadline is armed; only the chat session is missing.
			h.logger(c).Warn("Booking created without chat session",
				zap.String("bookingId", created.BookingID),
				zap.Error(err),
			)
			c.JSON(http.StatusCreated, gin.H{
				"bookingId":        created.BookingID,
				"chatRoomId":       created.ChatRoomID,
				"responseDeadline": created.ResponseDeadline,
				"status":           models.StatusPending,
				"warnings":         []string{"chat session could not be opened"},
			})
			return
		}
		h.respondError(c, err)
		return
	}

	h.logger(c).Info("Booking created",
		zap.String("bookingId", created.BookingID),
		zap.String("chatRoomId", created.ChatRoomID),
	)
	c.JSON(http.StatusCreated, gin.H{
		"bookingId":        created.BookingID,
		"chatRoomId":       created.ChatRoomID,
		"responseDeadline": created.ResponseDeadline,
		"status":           models.StatusPending,
	})
}

// loadForParticipant fetches the booking and checks the caller may see it.
func (h *BookingHandler) loadForParticipant(c *gin.Context) (*models.Booking, participant, bool) {
	b, err := h.BookingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return nil, outsider, false
	}
	rel := relation(c, b)
	if rel == outsider {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this booking"})
		return nil, outsider, false
	}
	return b, rel, true
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, _, ok := h.loadForParticipant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b)
}

// CountdownHandler handles GET /api/bookings/:id/countdown.
func (h *BookingHandler) CountdownHandler(c *gin.Context) {
	if _, _, ok := h.loadForParticipant(c); !ok {
		return
	}
	cd, err := h.BookingService.Countdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cd)
}

type transitionFunc func(c *gin.Context, bookingID, reason string) (*models.TransitionResult, error)

// transition builds a handler that lets the allowed participants run fn.
func (h *BookingHandler) transition(fn transitionFunc, allowed ...participant) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input transitionInput
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&input); err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
				return
			}
		}

		b, rel, ok := h.loadForParticipant(c)
		if !ok {
			return
		}
		permitted := false
		for _, a := range allowed {
			if rel == a {
				permitted = true
				break
			}
		}
		if !permitted {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not permitted to change this booking"})
			return
		}

		result, err := fn(c, b.BookingID, input.Reason)
		if err != nil {
			h.respondError(c, err)
			return
		}

		status := http.StatusOK
		if !result.Applied {
			status = http.StatusConflict
		}
		c.JSON(status, result)
	}
}

// AcceptBookingHandler handles POST /api/bookings/:id/accept.
func (h *BookingHandler) AcceptBookingHandler(c *gin.Context) {
	h.transition(func(c *gin.Context, id, _ string) (*models.TransitionResult, error) {
		return h.BookingService.Accept(c.Request.Context(), id)
	}, asTherapist, asAdmin)(c)
}

// RejectBookingHandler handles POST /api/bookings/:id/reject.
func (h *BookingHandler) RejectBookingHandler(c *gin.Context) {
	h.transition(func(c *gin.Context, id, reason string) (*models.TransitionResult, error) {
		return h.BookingService.Reject(c.Request.Context(), id, reason)
	}, asTherapist, asAdmin)(c)
}

// ConfirmBookingHandler handles POST /api/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	h.transition(func(c *gin.Context, id, _ string) (*models.TransitionResult, error) {
		return h.BookingService.Confirm(c.Request.Context(), id)
	}, asCustomer, asAdmin)(c)
}

// CompleteBookingHandler handles POST /api/bookings/:id/complete.
func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	h.transition(func(c *gin.Context, id, _ string) (*models.TransitionResult, error) {
		return h.BookingService.Complete(c.Request.Context(), id)
	}, asTherapist, asAdmin)(c)
}

// CancelBookingHandler handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	h.transition(func(c *gin.Context, id, reason string) (*models.TransitionResult, error) {
		return h.BookingService.Cancel(c.Request.Context(), id, reason)
	}, asCustomer, asTherapist, asAdmin)(c)
}
