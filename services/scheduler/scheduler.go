// Package scheduler arms in-process response-deadline timers for bookings.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultWarningOffsets are the lead times before a deadline at which a warning fires.
var DefaultWarningOffsets = []time.Duration{5 * time.Minute, 2 * time.Minute, 1 * time.Minute}

// WarningFunc receives the number of seconds left until the deadline.
type WarningFunc func(secondsLeft int)

// ExpireFunc runs once when the deadline passes.
type ExpireFunc func()

// CancelFunc disarms every timer of one handle. Safe to call repeatedly.
type CancelFunc func()

// Scheduler keeps one set of timers per booking.
type Scheduler struct {
	mu      sync.Mutex
	handles map[string]*handle
	offsets []time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithWarningOffsets replaces the default warning lead times.
func WithWarningOffsets(offsets ...time.Duration) Option {
	return func(s *Scheduler) {
		s.offsets = append([]time.Duration(nil), offsets...)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a Scheduler.
func New(logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		handles: make(map[string]*handle),
		offsets: DefaultWarningOffsets,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type handle struct {
	bookingID string

	mu        sync.Mutex
	timers    []*time.Timer
	cancelled bool
}

func (h *handle) cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return
	}
	h.cancelled = true
	for _, t := range h.timers {
		t.Stop()
	}
	h.timers = nil
}

func (h *handle) active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.cancelled
}

// Arm schedules warnings and one expiry for bookingID. Arming a booking that
// already has timers replaces them. A deadline that is not in the future
// disarms any earlier timers, arms nothing and returns a no-op cancel.
func (s *Scheduler) Arm(bookingID string, deadline time.Time, onWarning WarningFunc, onExpire ExpireFunc) CancelFunc {
	total := deadline.Sub(s.now())
	if total <= 0 {
		disarmed := s.Cancel(bookingID)
		s.logger.Info("Response deadline already passed, nothing armed",
			zap.String("bookingId", bookingID),
			zap.Time("deadline", deadline),
			zap.Bool("disarmedPrevious", disarmed),
		)
		return func() {}
	}

	h := &handle{bookingID: bookingID}

	h.mu.Lock()
	for _, offset := range s.offsets {
		delay := total - offset
		if delay <= 0 || onWarning == nil {
			continue
		}
		secondsLeft := int(offset / time.Second)
		h.timers = append(h.timers, time.AfterFunc(delay, func() {
			if !h.active() {
				return
			}
			s.safeRun(bookingID, fmt.Sprintf("warning-%ds", secondsLeft), func() { onWarning(secondsLeft) })
		}))
	}
	h.timers = append(h.timers, time.AfterFunc(total, func() {
		if !h.active() {
			return
		}
		s.release(h)
		if onExpire != nil {
			s.safeRun(bookingID, "expire", onExpire)
		}
	}))
	armed := len(h.timers)
	h.mu.Unlock()

	s.mu.Lock()
	previous := s.handles[bookingID]
	s.handles[bookingID] = h
	s.mu.Unlock()
	if previous != nil {
		previous.cancel()
	}

	s.logger.Debug("Deadline timers armed",
		zap.String("bookingId", bookingID),
		zap.Time("deadline", deadline),
		zap.Int("timers", armed),
	)

	return func() {
		h.cancel()
		s.forget(h)
	}
}

// Cancel disarms the timers of bookingID. It reports whether anything was armed.
func (s *Scheduler) Cancel(bookingID string) bool {
	s.mu.Lock()
	h, ok := s.handles[bookingID]
	if ok {
		delete(s.handles, bookingID)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	h.cancel()
	return true
}

// Pending reports whether bookingID still has armed timers.
func (s *Scheduler) Pending(bookingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.handles[bookingID]
	return ok
}

// Len is the number of bookings with armed timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Stop disarms everything. Used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	handles := s.handles
	s.handles = make(map[string]*handle)
	s.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}
}

// release drops h from the registry once its expiry fired, without stopping
// timers that are already running.
func (s *Scheduler) release(h *handle) {
	h.mu.Lock()
	h.cancelled = true
	h.timers = nil
	h.mu.Unlock()
	s.forget(h)
}

func (s *Scheduler) forget(h *handle) {
	s.mu.Lock()
	if s.handles[h.bookingID] == h {
		delete(s.handles, h.bookingID)
	}
	s.mu.Unlock()
}

func (s *Scheduler) safeRun(bookingID, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Deadline callback panicked",
				zap.String("bookingId", bookingID),
				zap.String("callback", name),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
