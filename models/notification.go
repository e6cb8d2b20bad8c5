package models

import "time"

// NotificationLog is the audit entry written for every dispatched notification.
type NotificationLog struct {
	ID          string            `bson:"id" json:"id"`
	RecipientID string            `bson:"recipientId" json:"recipientId"`
	BookingID   string            `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Type        string            `bson:"type" json:"type"`
	Title       string            `bson:"title" json:"title"`
	Body        string            `bson:"body" json:"body"`
	Tag         string            `bson:"tag,omitempty" json:"tag,omitempty"`
	Data        map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Displayed   bool              `bson:"displayed" json:"displayed"`
	CreatedAt   time.Time         `bson:"createdAt" json:"createdAt"`
}

// PushTokenInput registers a device token for the authenticated user.
type PushTokenInput struct {
	Token    string `json:"token" validate:"required,min=16"`
	Platform string `json:"platform" validate:"omitempty,oneof=android ios web"`
}
