package recordsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spabook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoRecordRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "therapistId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create commission indexes: %w", err)
	}
	return nil
}

// Create inserts a commission record and returns its ID. The unique index on
// bookingId keeps a booking from being charged twice.
func (r *mongoRecordRepo) Create(ctx context.Context, record models.CommissionRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrCommissionExists
		}
		return "", err
	}
	return record.ID, nil
}

// GetByBookingID returns the commission record for a booking, or nil.
func (r *mongoRecordRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.CommissionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var record models.CommissionRecord
	err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByTherapistID fetches all commission records for a therapist, newest first.
func (r *mongoRecordRepo) GetByTherapistID(ctx context.Context, therapistID string) ([]models.CommissionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"therapistId": therapistID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CommissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
