package notification

import (
	"context"
	"sync"
	"time"

	notificationLogRepo "spabook/database/repository/notificationlog"
	"spabook/models"

	"go.uber.org/zap"
)

// Dispatcher gates notifications on recipient permission, renders booking
// templates and keeps a best-effort audit log.
type Dispatcher struct {
	platform PlatformNotifier
	logs     notificationLogRepo.NotificationLogRepository
	logger   *zap.Logger

	mu          sync.Mutex
	permissions map[string]PermissionState
}

// NewDispatcher builds a Dispatcher. logs may be nil to skip auditing.
func NewDispatcher(platform PlatformNotifier, logs notificationLogRepo.NotificationLogRepository, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		platform:    platform,
		logs:        logs,
		logger:      logger,
		permissions: make(map[string]PermissionState),
	}
}

// RequestPermission returns the recipient's permission. A granted or denied
// answer is cached; a default answer is asked again next time.
func (d *Dispatcher) RequestPermission(ctx context.Context, recipientID string) PermissionState {
	d.mu.Lock()
	cached, ok := d.permissions[recipientID]
	d.mu.Unlock()
	if ok && cached != PermissionDefault {
		return cached
	}
	if d.platform == nil {
		return PermissionDenied
	}

	state, err := d.platform.RequestPermission(ctx, recipientID)
	if err != nil {
		d.logger.Warn("Permission lookup failed",
			zap.String("recipientId", recipientID),
			zap.Error(err),
		)
		if ok {
			return cached
		}
		return PermissionDefault
	}

	d.mu.Lock()
	d.permissions[recipientID] = state
	d.mu.Unlock()
	return state
}

// ForgetPermission drops the cached decision for recipientID.
func (d *Dispatcher) ForgetPermission(recipientID string) {
	d.mu.Lock()
	delete(d.permissions, recipientID)
	d.mu.Unlock()
}

// Notify shows msg if permitted and reports whether it was displayed. It never fails.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) bool {
	displayed := false
	defer func() {
		d.appendLog(ctx, msg, displayed)
	}()

	if d.RequestPermission(ctx, msg.RecipientID) != PermissionGranted {
		d.logger.Debug("Notification skipped, permission not granted",
			zap.String("recipientId", msg.RecipientID),
			zap.String("tag", msg.Tag),
		)
		return false
	}

	var err error
	if adv, ok := d.platform.(AdvancedNotifier); ok {
		err = adv.AdvancedShow(ctx, msg)
	} else {
		err = d.platform.Show(ctx, msg)
	}
	if err != nil {
		d.logger.Warn("Notification delivery failed",
			zap.String("recipientId", msg.RecipientID),
			zap.String("tag", msg.Tag),
			zap.Error(err),
		)
		return false
	}
	displayed = true
	return true
}

// NotifyStatusChange tells the customer their booking was accepted, rejected or expired.
func (d *Dispatcher) NotifyStatusChange(ctx context.Context, recipientID string, kind StatusKind, therapistName, serviceType, bookingID, chatRoomID string) bool {
	msg, ok := statusMessage(kind, therapistName, serviceType, bookingID, chatRoomID)
	if !ok {
		d.logger.Warn("No template for status change", zap.String("kind", string(kind)))
		return false
	}
	msg.RecipientID = recipientID
	return d.Notify(ctx, msg)
}

// NotifyDeadlineWarning warns the customer about an approaching response
// deadline. Values above five minutes are ignored.
func (d *Dispatcher) NotifyDeadlineWarning(ctx context.Context, recipientID string, secondsLeft int, therapistName, serviceType, bookingID string) bool {
	msg, ok := deadlineMessage(secondsLeft, therapistName, serviceType, bookingID)
	if !ok {
		return false
	}
	msg.RecipientID = recipientID
	return d.Notify(ctx, msg)
}

// NotifyCancellation tells the therapist a booking was cancelled.
func (d *Dispatcher) NotifyCancellation(ctx context.Context, recipientID, customerName, serviceType, bookingID, reason string) bool {
	msg := cancellationMessage(customerName, serviceType, bookingID, reason)
	msg.RecipientID = recipientID
	return d.Notify(ctx, msg)
}

// NotifyReminder delivers an appointment reminder.
func (d *Dispatcher) NotifyReminder(ctx context.Context, payload models.ReminderPayload) bool {
	return d.Notify(ctx, Message{
		RecipientID: payload.RecipientID,
		Title:       payload.Title,
		Body:        payload.Body,
		Tag:         "booking-reminder-" + payload.BookingID,
		Data: map[string]string{
			"type":      typeReminder,
			"bookingId": payload.BookingID,
		},
	})
}

func (d *Dispatcher) appendLog(ctx context.Context, msg Message, displayed bool) {
	if d.logs == nil {
		return
	}
	entry := &models.NotificationLog{
		RecipientID: msg.RecipientID,
		BookingID:   msg.Data["bookingId"],
		Type:        msg.Data["type"],
		Title:       msg.Title,
		Body:        msg.Body,
		Tag:         msg.Tag,
		Data:        msg.Data,
		Displayed:   displayed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := d.logs.Append(ctx, entry); err != nil {
		d.logger.Warn("Failed to append notification log",
			zap.String("recipientId", msg.RecipientID),
			zap.Error(err),
		)
	}
}
