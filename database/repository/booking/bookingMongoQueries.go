// File: database/repository/booking/bookingMongoQueries.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spabook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindOverdue lists pending bookings whose response deadline has passed,
// oldest deadline first.
func (r *MongoBookingRepo) FindOverdue(ctx context.Context, now time.Time, limit int64) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":           models.StatusPending,
		"responseDeadline": bson.M{"$lt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "responseDeadline", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overdue bookings: %w", err)
	}
	return bookings, nil
}

// FindRecentActive returns the newest active booking for the pair since the given time.
func (r *MongoBookingRepo) FindRecentActive(ctx context.Context, customerID, therapistID string, since time.Time) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"customerId":  customerID,
		"therapistId": therapistID,
		"status":      bson.M{"$in": models.ActiveStatuses()},
		"createdAt":   bson.M{"$gt": since},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query recent bookings: %w", err)
	}
	return &booking, nil
}
