package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"spabook/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time, taskID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(3)}
	if taskID != "" {
		opts = append(opts, asynq.TaskID(taskID))
	}
	return task, opts, nil
}

// ParseReminderPayload decodes a reminder task.
func ParseReminderPayload(task *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid reminder payload: %w", err)
	}
	return p, nil
}

// Enqueuer is the part of the asynq client the planner uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskRemover is the part of the asynq inspector used to withdraw reminders.
type TaskRemover interface {
	DeleteTask(queue, id string) error
}

// ReminderQueue is the asynq queue reminders are enqueued on.
const ReminderQueue = "default"

// Lead times before a scheduled appointment.
var (
	TherapistReminderHours = []int{5, 4, 3, 2, 1}
	CustomerReminderHours  = []int{3}
)

// ReminderPlanner enqueues pre-appointment reminders for scheduled bookings.
type ReminderPlanner struct {
	client  Enqueuer
	remover TaskRemover
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewReminderPlanner builds a planner that reads appointment times in loc.
// remover may be nil, in which case Unplan is a no-op.
func NewReminderPlanner(client Enqueuer, remover TaskRemover, loc *time.Location, logger *zap.Logger) *ReminderPlanner {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderPlanner{client: client, remover: remover, loc: loc, now: time.Now, logger: logger}
}

// AppointmentTime combines a "2006-01-02" date and "15:04" clock in loc.
func AppointmentTime(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// Plan enqueues every reminder for b that still lies in the future and
// returns how many were accepted by the queue.
func (p *ReminderPlanner) Plan(ctx context.Context, b *models.Booking) (int, error) {
	if b.Kind != models.KindScheduled {
		return 0, nil
	}
	start, err := AppointmentTime(b.ScheduledDate, b.ScheduledTime, p.loc)
	if err != nil {
		return 0, err
	}

	now := p.now()
	enqueued := 0
	var errs []error
	for _, tg := range reminderTargets(b) {
		for _, h := range tg.hours {
			fireAt := start.Add(-time.Duration(h) * time.Hour)
			if !fireAt.After(now) {
				continue
			}
			payload := models.ReminderPayload{
				BookingID:   b.BookingID,
				RecipientID: tg.recipientID,
				Title:       reminderTitle(h),
				Body:        reminderBody(tg.role, b, h),
				FireDate:    fireAt.Format(time.RFC3339),
				HoursBefore: h,
			}
			taskID := ReminderTaskID(b.BookingID, tg.role, h)
			task, opts, err := NewReminderTask(payload, fireAt, taskID)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if _, err := p.client.EnqueueContext(ctx, task, opts...); err != nil {
				if errors.Is(err, asynq.ErrTaskIDConflict) {
					continue
				}
				errs = append(errs, fmt.Errorf("enqueue %s: %w", taskID, err))
				continue
			}
			enqueued++
		}
	}

	p.logger.Info("Appointment reminders planned",
		zap.String("bookingId", b.BookingID),
		zap.Time("start", start),
		zap.Int("enqueued", enqueued),
	)
	return enqueued, errors.Join(errs...)
}

// Unplan withdraws every reminder Plan may have enqueued for b and returns
// how many were still queued.
func (p *ReminderPlanner) Unplan(ctx context.Context, b *models.Booking) (int, error) {
	if p.remover == nil || b.Kind != models.KindScheduled {
		return 0, nil
	}

	removed := 0
	var errs []error
	for _, tg := range reminderTargets(b) {
		for _, h := range tg.hours {
			if err := ctx.Err(); err != nil {
				return removed, errors.Join(append(errs, err)...)
			}
			taskID := ReminderTaskID(b.BookingID, tg.role, h)
			err := p.remover.DeleteTask(ReminderQueue, taskID)
			switch {
			case err == nil:
				removed++
			case errors.Is(err, asynq.ErrTaskNotFound), errors.Is(err, asynq.ErrQueueNotFound):
				// Already delivered, or never enqueued because it lay in the past.
			default:
				errs = append(errs, fmt.Errorf("delete %s: %w", taskID, err))
			}
		}
	}

	p.logger.Info("Appointment reminders withdrawn",
		zap.String("bookingId", b.BookingID),
		zap.Int("removed", removed),
	)
	return removed, errors.Join(errs...)
}

// ReminderTaskID is the deterministic asynq task ID of one reminder.
func ReminderTaskID(bookingID, role string, hours int) string {
	return fmt.Sprintf("%s:%s:%dh", bookingID, role, hours)
}

type reminderTarget struct {
	role, recipientID string
	hours             []int
}

func reminderTargets(b *models.Booking) []reminderTarget {
	return []reminderTarget{
		{"therapist", b.TherapistID, TherapistReminderHours},
		{"customer", b.CustomerID, CustomerReminderHours},
	}
}

func reminderTitle(hours int) string {
	if hours == 1 {
		return "Booking in 1 hour"
	}
	return fmt.Sprintf("Booking in %d hours", hours)
}

func reminderBody(role string, b *models.Booking, hours int) string {
	if role == "customer" {
		return fmt.Sprintf("Your %s with %s starts at %s.", b.ServiceType, b.TherapistName, b.ScheduledTime)
	}
	return fmt.Sprintf("%s with %s at %s (%dh to go).", b.ServiceType, b.CustomerName, b.ScheduledTime, hours)
}
