package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "spabook/database/repository/booking"
	recordsRepo "spabook/database/repository/records"
	"spabook/models"
	"spabook/services/notification"

	"go.uber.org/zap"
)

// Get returns the stored booking.
func (c *Coordinator) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
		}
		return nil, &StoreError{Op: "get booking", BookingID: bookingID, Err: err}
	}
	return b, nil
}

// Transition moves a booking to target if the state machine allows it.
//
// A refused move (terminal or disallowed source status, or a concurrent
// writer that got there first) is reported with Applied=false and no error.
// Only a failure of the booking write itself is returned as an error;
// failures of the chat mirror and the follow-up side effects end up in Warnings.
func (c *Coordinator) Transition(ctx context.Context, bookingID string, target models.BookingStatus, reason string) (*models.TransitionResult, error) {
	if !target.Valid() {
		return nil, newValidationError("status", fmt.Sprintf("unknown status %q", target))
	}

	b, err := c.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	result := &models.TransitionResult{BookingID: bookingID, From: b.Status, Status: b.Status}
	if !b.Status.CanTransition(target) {
		c.logger.Info("Transition refused",
			zap.String("bookingId", bookingID),
			zap.String("from", string(b.Status)),
			zap.String("to", string(target)),
		)
		return result, nil
	}

	change := bookingRepo.StatusChange{From: b.Status, To: target, Reason: reason, At: c.now().UTC()}
	if err := c.bookings.UpdateStatus(ctx, bookingID, change); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			c.logger.Info("Transition lost a concurrent update",
				zap.String("bookingId", bookingID),
				zap.String("from", string(b.Status)),
				zap.String("to", string(target)),
			)
			if fresh, getErr := c.bookings.GetByID(ctx, bookingID); getErr == nil {
				result.Status = fresh.Status
			}
			return result, nil
		}
		c.logger.Error("Booking status update failed",
			zap.String("bookingId", bookingID),
			zap.String("to", string(target)),
			zap.Error(err),
		)
		return nil, &StoreError{Op: "update booking status", BookingID: bookingID, Err: err}
	}

	result.Applied = true
	result.Status = target

	if b.Status == models.StatusPending || target == models.StatusCancelled {
		c.scheduler.Cancel(bookingID)
	}

	b.Status = target
	b.StatusReason = reason
	result.Warnings = c.afterTransition(ctx, b, reason)

	c.logger.Info("Booking status changed",
		zap.String("bookingId", bookingID),
		zap.String("from", string(result.From)),
		zap.String("status", string(target)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// afterTransition runs the best-effort side effects of a committed status change.
func (c *Coordinator) afterTransition(ctx context.Context, b *models.Booking, reason string) []string {
	var warnings []string
	warn := func(msg string, err error) {
		c.logger.Warn(msg, zap.String("bookingId", b.BookingID), zap.Error(err))
		warnings = append(warnings, fmt.Sprintf("%s: %v", msg, err))
	}

	if b.ChatRoomID != "" {
		if err := c.chats.UpdateStatus(ctx, b.ChatRoomID, models.ChatStatusFor(b.Status)); err != nil {
			warn("chat status not mirrored", err)
		}
	}

	switch b.Status {
	case models.StatusAccepted:
		if err := c.recordCommission(ctx, b); err != nil {
			warn("commission not recorded", err)
		}
		c.notifier.NotifyStatusChange(ctx, b.CustomerID, notification.KindAccepted, b.TherapistName, b.ServiceType, b.BookingID, b.ChatRoomID)
	case models.StatusRejected:
		c.notifier.NotifyStatusChange(ctx, b.CustomerID, notification.KindRejected, b.TherapistName, b.ServiceType, b.BookingID, b.ChatRoomID)
	case models.StatusExpired:
		c.notifier.NotifyStatusChange(ctx, b.CustomerID, notification.KindExpired, b.TherapistName, b.ServiceType, b.BookingID, b.ChatRoomID)
	case models.StatusCancelled:
		if c.reminders != nil && b.Kind == models.KindScheduled {
			if _, err := c.reminders.Unplan(ctx, b); err != nil {
				warn("reminders not withdrawn", err)
			}
		}
		c.notifier.NotifyCancellation(ctx, b.TherapistID, b.CustomerName, b.ServiceType, b.BookingID, reason)
		c.publish(ctx, models.BookingEvent{
			Type:       models.EventBookingCancelled,
			BookingID:  b.BookingID,
			ChatRoomID: b.ChatRoomID,
			Reason:     reason,
		})
	case models.StatusConfirmed:
		if c.reminders != nil && b.Kind == models.KindScheduled {
			if _, err := c.reminders.Plan(ctx, b); err != nil {
				warn("reminders not scheduled", err)
			}
		}
	}
	return warnings
}

func (c *Coordinator) recordCommission(ctx context.Context, b *models.Booking) error {
	if c.commissions == nil {
		return nil
	}
	_, err := c.commissions.Create(ctx, models.CommissionRecord{
		BookingID:       b.BookingID,
		TherapistID:     b.TherapistID,
		TotalPrice:      b.TotalPrice,
		AdminCommission: b.AdminCommission,
		ProviderPayout:  b.ProviderPayout,
		Rate:            c.commissionRate,
		CreatedAt:       c.now().UTC(),
	})
	if errors.Is(err, recordsRepo.ErrCommissionExists) {
		return nil
	}
	return err
}

// Accept records the therapist's acceptance of a pending booking.
func (c *Coordinator) Accept(ctx context.Context, bookingID string) (*models.TransitionResult, error) {
	return c.Transition(ctx, bookingID, models.StatusAccepted, "")
}

// Reject records the therapist declining a pending booking.
func (c *Coordinator) Reject(ctx context.Context, bookingID, reason string) (*models.TransitionResult, error) {
	return c.Transition(ctx, bookingID, models.StatusRejected, reason)
}

// Confirm records the customer's confirmation of an accepted booking.
func (c *Coordinator) Confirm(ctx context.Context, bookingID string) (*models.TransitionResult, error) {
	return c.Transition(ctx, bookingID, models.StatusConfirmed, "")
}

// Complete marks a confirmed booking as delivered.
func (c *Coordinator) Complete(ctx context.Context, bookingID string) (*models.TransitionResult, error) {
	return c.Transition(ctx, bookingID, models.StatusCompleted, "")
}

// Cancel cancels a booking and disarms any deadline timers it still has.
func (c *Coordinator) Cancel(ctx context.Context, bookingID, reason string) (*models.TransitionResult, error) {
	res, err := c.Transition(ctx, bookingID, models.StatusCancelled, reason)
	if err == nil && !res.Applied && res.Status.IsTerminal() {
		c.scheduler.Cancel(bookingID)
	}
	return res, err
}

// Countdown computes the response countdown of a stored booking.
func (c *Coordinator) Countdown(ctx context.Context, bookingID string) (Countdown, error) {
	b, err := c.Get(ctx, bookingID)
	if err != nil {
		return Countdown{}, err
	}
	return ComputeRemaining(b.ResponseDeadline, c.now()), nil
}
