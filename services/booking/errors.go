package booking

import (
	"errors"
	"fmt"
)

// ErrBookingNotFound is returned when an operation names an unknown booking.
var ErrBookingNotFound = errors.New("booking not found")

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validationError: %s", e.Message)
	}
	return fmt.Sprintf("validationError: %s %s", e.Field, e.Message)
}

func newValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// StoreError wraps a document store failure. Orphaned is set when the booking
// was written but its chat session was not.
type StoreError struct {
	Op        string
	BookingID string
	Orphaned  bool
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("storeError: %s", e.Op)
	if e.BookingID != "" {
		msg += " " + e.BookingID
	}
	if e.Orphaned {
		msg += " (booking persisted without chat session)"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error { return e.Err }

// DuplicateBookingError is returned when the same customer already has an
// active booking with the same therapist inside the duplicate window.
type DuplicateBookingError struct {
	ExistingBookingID string
	Status            string
}

func (e *DuplicateBookingError) Error() string {
	return fmt.Sprintf("duplicateBooking: booking %s is already %s", e.ExistingBookingID, e.Status)
}
