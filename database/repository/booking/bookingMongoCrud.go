// File: database/repository/booking/bookingMongoCrud.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spabook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = booking.CreatedAt
	}

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, booking.BookingID)
		}
		return fmt.Errorf("failed to create booking %s: %w", booking.BookingID, err)
	}
	return nil
}

// GetByID retrieves a booking by its booking ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// UpdateStatus performs the status change as a single conditional update so
// that two racing writers cannot both move a booking out of the same status.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, bookingID string, change StatusChange) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	set := bson.M{
		"status":    change.To,
		"updatedAt": change.At,
	}
	if field := models.StatusTimestampField(change.To); field != "" {
		set[field] = change.At
	}
	if change.Reason != "" {
		set["statusReason"] = change.Reason
	}

	filter := bson.M{"bookingId": bookingID, "status": change.From}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking %s status: %w", bookingID, err)
	}
	if result.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}
