package booking

import (
	"errors"
	"time"

	bookingRepo "spabook/database/repository/booking"
	chatRepo "spabook/database/repository/chat"
	recordsRepo "spabook/database/repository/records"
	"spabook/services/events"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Reasons recorded by automatic transitions.
const (
	ReasonResponseTimeout = "therapist response timeout"
)

// Deps are the collaborators of a Coordinator. Commissions, Reminders and
// Events are optional.
type Deps struct {
	Bookings    bookingRepo.BookingRepository
	Chats       chatRepo.ChatRepository
	Commissions recordsRepo.CommissionRecordRepository
	Notifier    Notifier
	Scheduler   DeadlineScheduler
	Reminders   ReminderPlanner
	Events      events.Publisher
	Logger      *zap.Logger
}

// Coordinator creates bookings with their chat sessions, tracks response
// deadlines and gates every status change.
type Coordinator struct {
	bookings    bookingRepo.BookingRepository
	chats       chatRepo.ChatRepository
	commissions recordsRepo.CommissionRecordRepository
	notifier    Notifier
	scheduler   DeadlineScheduler
	reminders   ReminderPlanner
	events      events.Publisher
	logger      *zap.Logger

	validate        *validator.Validate
	now             func() time.Time
	commissionRate  float64
	duplicateWindow time.Duration
	callbackTimeout time.Duration
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithCommissionRate sets the platform commission rate.
func WithCommissionRate(rate float64) Option {
	return func(c *Coordinator) { c.commissionRate = rate }
}

// WithDuplicateWindow sets how far back the duplicate guard looks. Zero disables it.
func WithDuplicateWindow(d time.Duration) Option {
	return func(c *Coordinator) { c.duplicateWindow = d }
}

// NewCoordinator wires a Coordinator.
func NewCoordinator(deps Deps, opts ...Option) (*Coordinator, error) {
	if deps.Bookings == nil || deps.Chats == nil {
		return nil, errors.New("booking coordinator initialization error: booking or chat repository is nil")
	}
	if deps.Notifier == nil || deps.Scheduler == nil {
		return nil, errors.New("booking coordinator initialization error: notifier or scheduler is nil")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Coordinator{
		bookings:        deps.Bookings,
		chats:           deps.Chats,
		commissions:     deps.Commissions,
		notifier:        deps.Notifier,
		scheduler:       deps.Scheduler,
		reminders:       deps.Reminders,
		events:          deps.Events,
		logger:          logger,
		validate:        newValidator(),
		now:             time.Now,
		commissionRate:  DefaultCommissionRate,
		duplicateWindow: 5 * time.Minute,
		callbackTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ LifecycleService = (*Coordinator)(nil)
