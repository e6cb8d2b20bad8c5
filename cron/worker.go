package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spabook/models"
	"spabook/services/booking"
	"spabook/services/tasks"
	"spabook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderNotifier delivers a reminder to its recipient.
type ReminderNotifier interface {
	NotifyReminder(ctx context.Context, payload models.ReminderPayload) bool
}

// BookingLookup reads the current state of a booking.
type BookingLookup interface {
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
}

// ReminderWorker runs the asynq server that delivers appointment reminders.
type ReminderWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewReminderWorker builds the worker against the reminder queue Redis DB.
// Reminders of bookings that are no longer confirmed are dropped.
func NewReminderWorker(notifier ReminderNotifier, bookings BookingLookup, logger *zap.Logger) *ReminderWorker {
	addr, password, db := utils.ReminderQueueRedisOpt()
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: addr, Password: password, DB: db},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifier, bookings, logger))

	return &ReminderWorker{srv: srv, mux: mux, logger: logger}
}

// Start launches the worker in the background, retrying startup with backoff.
func (w *ReminderWorker) Start() {
	go func() {
		w.logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("Reminder worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				w.logger.Error("Reminder worker giving up; reminders will queue until restart")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight reminders and stops the server.
func (w *ReminderWorker) Shutdown() {
	w.srv.Shutdown()
}

func handleReminderTask(notifier ReminderNotifier, bookings BookingLookup, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseReminderPayload(task)
		if err != nil {
			logger.Error("Dropping reminder with invalid payload", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		if p.RecipientID == "" {
			return fmt.Errorf("%w: reminder for %s has no recipient", asynq.SkipRetry, p.BookingID)
		}

		if bookings != nil {
			b, err := bookings.Get(ctx, p.BookingID)
			switch {
			case errors.Is(err, booking.ErrBookingNotFound):
				logger.Info("Dropping reminder for unknown booking", zap.String("bookingId", p.BookingID))
				return nil
			case err != nil:
				// Unreadable bookings still get their reminder.
				logger.Warn("Booking lookup failed, delivering reminder",
					zap.String("bookingId", p.BookingID),
					zap.Error(err),
				)
			case b.Status != models.StatusConfirmed:
				logger.Info("Dropping reminder for booking no longer confirmed",
					zap.String("bookingId", p.BookingID),
					zap.String("status", string(b.Status)),
				)
				return nil
			}
		}

		logger.Info("Triggering reminder",
			zap.String("bookingId", p.BookingID),
			zap.String("recipient", p.RecipientID),
			zap.Int("hoursBefore", p.HoursBefore),
		)

		// An undelivered reminder is logged by the dispatcher; retrying would
		// fire it late, after the lead time it announces.
		if !notifier.NotifyReminder(ctx, p) {
			logger.Warn("Reminder not delivered",
				zap.String("bookingId", p.BookingID),
				zap.String("recipient", p.RecipientID),
			)
		}
		return nil
	}
}
