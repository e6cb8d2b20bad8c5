package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "spabook/database/repository/booking"
	"spabook/models"
	"spabook/services/identity"

	"go.uber.org/zap"
)

const maxIDAttempts = 3

// Create validates req, writes the booking and then its chat session, and
// arms the response deadline.
//
// If the chat session cannot be written the booking stays persisted and armed;
// the created identifiers are returned together with a *StoreError whose
// Orphaned flag is set.
func (c *Coordinator) Create(ctx context.Context, req models.BookingRequest) (*models.BookingCreated, error) {
	normalizeRequest(&req)
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	who := identity.Resolve(req.Profile, req.Account)
	if err := identity.Validate(who); err != nil {
		c.logger.Error("Resolved identity failed validation", zap.String("customerId", req.CustomerID), zap.Error(err))
		return nil, err
	}

	if err := c.checkDuplicate(ctx, req.CustomerID, req.TherapistID); err != nil {
		return nil, err
	}

	createdAt := c.now().UTC().Truncate(time.Millisecond)
	commission, payout := SplitPrice(req.TotalPrice, c.commissionRate)
	b := &models.Booking{
		ChatRoomID:       NewChatRoomID(),
		CustomerID:       req.CustomerID,
		CustomerName:     who.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		TherapistID:      req.TherapistID,
		TherapistName:    req.TherapistName,
		ServiceType:      req.ServiceType,
		DurationMinutes:  req.DurationMinutes,
		TotalPrice:       req.TotalPrice,
		AdminCommission:  commission,
		ProviderPayout:   payout,
		Kind:             req.Kind,
		ScheduledDate:    req.ScheduledDate,
		ScheduledTime:    req.ScheduledTime,
		Location:         req.Location,
		Coordinates:      req.Coordinates,
		Notes:            req.Notes,
		Status:           models.StatusPending,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
		ResponseDeadline: ResponseDeadline(req.Kind, createdAt),
	}

	if err := c.insertBooking(ctx, b); err != nil {
		c.logger.Error("Booking creation failed",
			zap.String("customerId", b.CustomerID),
			zap.String("therapistId", b.TherapistID),
			zap.Error(err),
		)
		return nil, &StoreError{Op: "create booking", Err: err}
	}

	created := &models.BookingCreated{
		BookingID:        b.BookingID,
		ChatRoomID:       b.ChatRoomID,
		ResponseDeadline: b.ResponseDeadline.Format(time.RFC3339Nano),
	}

	chatErr := c.chats.Create(ctx, &models.ChatSession{
		ChatRoomID:    b.ChatRoomID,
		BookingID:     b.BookingID,
		CustomerID:    b.CustomerID,
		CustomerName:  b.CustomerName,
		TherapistID:   b.TherapistID,
		TherapistName: b.TherapistName,
		ServiceType:   b.ServiceType,
		Status:        models.ChatWaiting,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	})

	c.armDeadline(b)

	if chatErr != nil {
		c.logger.Error("Chat session creation failed, booking left without chat",
			zap.String("bookingId", b.BookingID),
			zap.String("chatRoomId", b.ChatRoomID),
			zap.Error(chatErr),
		)
		return created, &StoreError{Op: "create chat session", BookingID: b.BookingID, Orphaned: true, Err: chatErr}
	}

	c.publish(ctx, models.BookingEvent{
		Type:       models.EventChatOpen,
		BookingID:  b.BookingID,
		ChatRoomID: b.ChatRoomID,
	})

	c.logger.Info("Booking created",
		zap.String("bookingId", b.BookingID),
		zap.String("chatRoomId", b.ChatRoomID),
		zap.String("kind", string(b.Kind)),
		zap.Time("responseDeadline", b.ResponseDeadline),
	)
	return created, nil
}

// insertBooking writes b under a fresh ID, retrying on the rare ID collision.
func (c *Coordinator) insertBooking(ctx context.Context, b *models.Booking) error {
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		b.BookingID = NewBookingID(b.CreatedAt)
		if err = c.bookings.Create(ctx, b); !errors.Is(err, bookingRepo.ErrDuplicateID) {
			return err
		}
	}
	return err
}

// armDeadline schedules the deadline warnings and the automatic expiry of b.
func (c *Coordinator) armDeadline(b *models.Booking) {
	bookingID := b.BookingID
	customerID := b.CustomerID
	therapistName := b.TherapistName
	serviceType := b.ServiceType

	c.scheduler.Arm(bookingID, b.ResponseDeadline,
		func(secondsLeft int) {
			ctx, cancel := context.WithTimeout(context.Background(), c.callbackTimeout)
			defer cancel()
			c.notifier.NotifyDeadlineWarning(ctx, customerID, secondsLeft, therapistName, serviceType, bookingID)
		},
		func() {
			ctx, cancel := context.WithTimeout(context.Background(), c.callbackTimeout)
			defer cancel()
			res, err := c.Transition(ctx, bookingID, models.StatusExpired, ReasonResponseTimeout)
			if err != nil {
				c.logger.Error("Automatic expiry failed", zap.String("bookingId", bookingID), zap.Error(err))
				return
			}
			if !res.Applied {
				c.logger.Debug("Automatic expiry skipped", zap.String("bookingId", bookingID), zap.String("status", string(res.Status)))
			}
		},
	)
}

func (c *Coordinator) publish(ctx context.Context, evt models.BookingEvent) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(ctx, evt); err != nil {
		c.logger.Warn("Booking event not published",
			zap.String("type", evt.Type),
			zap.String("bookingId", evt.BookingID),
			zap.Error(err),
		)
	}
}
