package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	CreateBookingHandler   gin.HandlerFunc
	GetBookingHandler      gin.HandlerFunc
	CountdownHandler       gin.HandlerFunc
	AcceptBookingHandler   gin.HandlerFunc
	RejectBookingHandler   gin.HandlerFunc
	ConfirmBookingHandler  gin.HandlerFunc
	CompleteBookingHandler gin.HandlerFunc
	CancelBookingHandler   gin.HandlerFunc

	// Notification endpoints
	RegisterPushTokenHandler gin.HandlerFunc
	RevokePushTokenHandler   gin.HandlerFunc
	PermissionHandler        gin.HandlerFunc

	// Commission endpoints
	ListCommissionsHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into a bundle for the router.
func NewHandlerBundle(bh *BookingHandler, nh *NotificationHandler, ch *CommissionHandler) *HandlerBundle {
	return &HandlerBundle{
		CreateBookingHandler:   bh.CreateBookingHandler,
		GetBookingHandler:      bh.GetBookingHandler,
		CountdownHandler:       bh.CountdownHandler,
		AcceptBookingHandler:   bh.AcceptBookingHandler,
		RejectBookingHandler:   bh.RejectBookingHandler,
		ConfirmBookingHandler:  bh.ConfirmBookingHandler,
		CompleteBookingHandler: bh.CompleteBookingHandler,
		CancelBookingHandler:   bh.CancelBookingHandler,

		RegisterPushTokenHandler: nh.RegisterPushTokenHandler,
		RevokePushTokenHandler:   nh.RevokePushTokenHandler,
		PermissionHandler:        nh.PermissionHandler,

		ListCommissionsHandler: ch.ListCommissionsHandler,
	}
}
