package notificationLogRepo

import (
	"context"
	"fmt"
	"time"

	"spabook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the notification log collection.
const CollectionName = "notification_logs"

type mongoNotificationLogRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationLogRepo returns a NotificationLogRepository backed by db.
func NewMongoNotificationLogRepo(db *mongo.Database) NotificationLogRepository {
	return &mongoNotificationLogRepo{coll: db.Collection(CollectionName)}
}

func (r *mongoNotificationLogRepo) Append(ctx context.Context, entry *models.NotificationLog) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append notification log: %w", err)
	}
	return nil
}

func (r *mongoNotificationLogRepo) ListByBooking(ctx context.Context, bookingID string, limit int64) ([]models.NotificationLog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.NotificationLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode notification logs: %w", err)
	}
	return entries, nil
}

// EnsureIndexes creates the bookingId/createdAt index ListByBooking relies on.
func (r *mongoNotificationLogRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "recipientId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification log indexes: %w", err)
	}
	return nil
}
