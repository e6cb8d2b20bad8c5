package notificationLogRepo

import (
	"context"

	"spabook/models"
)

// NotificationLogRepository is the append-only notification audit log.
type NotificationLogRepository interface {
	Append(ctx context.Context, entry *models.NotificationLog) error
	ListByBooking(ctx context.Context, bookingID string, limit int64) ([]models.NotificationLog, error)
	EnsureIndexes(ctx context.Context) error
}
