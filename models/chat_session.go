package models

import "time"

// ChatStatus is the status mirrored onto a chat session.
type ChatStatus string

const (
	ChatWaiting   ChatStatus = "waiting"
	ChatActive    ChatStatus = "active"
	ChatRejected  ChatStatus = "rejected"
	ChatExpired   ChatStatus = "expired"
	ChatCancelled ChatStatus = "cancelled"
	ChatCompleted ChatStatus = "completed"
)

// ChatStatusFor derives the chat status for a booking status.
func ChatStatusFor(s BookingStatus) ChatStatus {
	switch s {
	case StatusAccepted, StatusConfirmed:
		return ChatActive
	case StatusRejected:
		return ChatRejected
	case StatusExpired:
		return ChatExpired
	case StatusCancelled:
		return ChatCancelled
	case StatusCompleted:
		return ChatCompleted
	}
	return ChatWaiting
}

// ChatSession is the chat channel paired 1:1 with a booking.
type ChatSession struct {
	ChatRoomID    string     `bson:"chatRoomId" json:"chatRoomId"`
	BookingID     string     `bson:"bookingId" json:"bookingId"`
	CustomerID    string     `bson:"customerId" json:"customerId"`
	CustomerName  string     `bson:"customerName" json:"customerName"`
	TherapistID   string     `bson:"therapistId" json:"therapistId"`
	TherapistName string     `bson:"therapistName" json:"therapistName"`
	ServiceType   string     `bson:"serviceType" json:"serviceType"`
	Status        ChatStatus `bson:"status" json:"status"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}
