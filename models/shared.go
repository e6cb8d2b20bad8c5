package models

// ReminderPayload is the asynq payload for an appointment reminder.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	RecipientID string `json:"recipientId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	FireDate    string `json:"fireDate"`
	HoursBefore int    `json:"hoursBefore"`
}

// BookingEvent is published on the booking event channel.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  string `json:"bookingId"`
	ChatRoomID string `json:"chatRoomId,omitempty"`
	Reason     string `json:"reason,omitempty"`
	At         string `json:"at"`
}

const (
	EventChatOpen         = "chat.open"
	EventBookingCancelled = "booking.cancelled"
)
