package chatRepo

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

// CollectionName is the chat sessions collection.
const CollectionName = "chat_sessions"

// MongoChatRepo implements ChatRepository using MongoDB.
type MongoChatRepo struct {
	coll *mongo.Collection
}

// NewMongoChatRepo creates a ChatRepository backed by db.
func NewMongoChatRepo(db *mongo.Database) ChatRepository {
	return &MongoChatRepo{coll: db.Collection(CollectionName)}
}

func (r *MongoChatRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "chatRoomId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create chat indexes: %w", err)
	}
	return nil
}

// Create inserts a new chat session.
func (r *MongoChatRepo) Create(ctx context.Context, session *models.ChatSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = session.CreatedAt
	}
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create chat session for booking %s: %w", session.BookingID, err)
	}
	return nil
}

// GetByBookingID retrieves the chat session linked to a booking.
func (r *MongoChatRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.ChatSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.ChatSession
	if err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&session); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch chat session for booking %s: %w", bookingID, err)
	}
	return &session, nil
}

// UpdateStatus sets the mirrored chat status.
func (r *MongoChatRepo) UpdateStatus(ctx context.Context, chatRoomID string, status models.ChatStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"chatRoomId": chatRoomID}, update)
	if err != nil {
		return fmt.Errorf("failed to update chat session %s: %w", chatRoomID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("chat session %s: %w", chatRoomID, ErrNotFound)
	}
	return nil
}
