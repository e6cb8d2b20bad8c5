package booking

import (
	"context"
	"time"

	"spabook/models"
	"spabook/services/notification"
	"spabook/services/scheduler"
)

// LifecycleService is the booking lifecycle coordinator used by handlers and jobs.
type LifecycleService interface {
	Create(ctx context.Context, req models.BookingRequest) (*models.BookingCreated, error)
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
	Transition(ctx context.Context, bookingID string, target models.BookingStatus, reason string) (*models.TransitionResult, error)
	Accept(ctx context.Context, bookingID string) (*models.TransitionResult, error)
	Reject(ctx context.Context, bookingID, reason string) (*models.TransitionResult, error)
	Confirm(ctx context.Context, bookingID string) (*models.TransitionResult, error)
	Complete(ctx context.Context, bookingID string) (*models.TransitionResult, error)
	Cancel(ctx context.Context, bookingID, reason string) (*models.TransitionResult, error)
	Countdown(ctx context.Context, bookingID string) (Countdown, error)
	ExpireOverdue(ctx context.Context, limit int64) (int, error)
}

// Notifier is the part of the notification dispatcher the coordinator uses.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, recipientID string, kind notification.StatusKind, therapistName, serviceType, bookingID, chatRoomID string) bool
	NotifyDeadlineWarning(ctx context.Context, recipientID string, secondsLeft int, therapistName, serviceType, bookingID string) bool
	NotifyCancellation(ctx context.Context, recipientID, customerName, serviceType, bookingID, reason string) bool
}

// DeadlineScheduler arms and disarms response-deadline timers.
type DeadlineScheduler interface {
	Arm(bookingID string, deadline time.Time, onWarning scheduler.WarningFunc, onExpire scheduler.ExpireFunc) scheduler.CancelFunc
	Cancel(bookingID string) bool
}

// ReminderPlanner enqueues appointment reminders for confirmed scheduled
// bookings and withdraws them when such a booking is cancelled.
type ReminderPlanner interface {
	Plan(ctx context.Context, b *models.Booking) (int, error)
	Unplan(ctx context.Context, b *models.Booking) (int, error)
}
