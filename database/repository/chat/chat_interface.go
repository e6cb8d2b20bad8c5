package chatRepo

import (
	"context"
	"errors"

	"spabook/models"
)

// ErrNotFound is returned when no chat session matches.
var ErrNotFound = errors.New("chat session not found")

// ChatRepository defines methods for chat session data access.
type ChatRepository interface {
	Create(ctx context.Context, session *models.ChatSession) error
	GetByBookingID(ctx context.Context, bookingID string) (*models.ChatSession, error)
	UpdateStatus(ctx context.Context, chatRoomID string, status models.ChatStatus) error
	EnsureIndexes(ctx context.Context) error
}
