package bookingRepo

import (
	"context"
	"errors"
	"time"

	"spabook/models"
)

var (
	// ErrNotFound is returned when no booking matches the given ID.
	ErrNotFound = errors.New("booking not found")
	// ErrStatusConflict is returned when a status update finds the booking
	// no longer in the expected status.
	ErrStatusConflict = errors.New("booking status changed concurrently")
	// ErrDuplicateID is returned when a booking ID is already taken.
	ErrDuplicateID = errors.New("booking id already exists")
)

// StatusChange describes a compare-and-swap status update.
type StatusChange struct {
	From   models.BookingStatus
	To     models.BookingStatus
	Reason string
	At     time.Time
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking document.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its booking ID.
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// UpdateStatus moves a booking from change.From to change.To only if it
	// still holds change.From.
	UpdateStatus(ctx context.Context, bookingID string, change StatusChange) error
	// FindOverdue lists pending bookings whose response deadline is before now.
	FindOverdue(ctx context.Context, now time.Time, limit int64) ([]models.Booking, error)
	// FindRecentActive returns the newest non-terminal booking between the
	// pair created after since, or nil when there is none.
	FindRecentActive(ctx context.Context, customerID, therapistID string, since time.Time) (*models.Booking, error)
	// EnsureIndexes creates the indexes the queries above rely on.
	EnsureIndexes(ctx context.Context) error
}
