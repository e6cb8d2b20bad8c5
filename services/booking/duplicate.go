package booking

import (
	"context"

	"go.uber.org/zap"
)

// checkDuplicate refuses a second active booking between the same customer
// and therapist inside the duplicate window. Lookup failures do not block creation.
func (c *Coordinator) checkDuplicate(ctx context.Context, customerID, therapistID string) error {
	if c.duplicateWindow <= 0 {
		return nil
	}
	since := c.now().UTC().Add(-c.duplicateWindow)
	existing, err := c.bookings.FindRecentActive(ctx, customerID, therapistID, since)
	if err != nil {
		c.logger.Warn("Duplicate booking check failed, continuing",
			zap.String("customerId", customerID),
			zap.String("therapistId", therapistID),
			zap.Error(err),
		)
		return nil
	}
	if existing != nil {
		c.logger.Info("Duplicate booking refused",
			zap.String("customerId", customerID),
			zap.String("existingBookingId", existing.BookingID),
		)
		return &DuplicateBookingError{ExistingBookingID: existing.BookingID, Status: string(existing.Status)}
	}
	return nil
}
