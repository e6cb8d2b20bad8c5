package notification

import "fmt"

// StatusKind is a booking status that customers are notified about.
type StatusKind string

const (
	KindAccepted StatusKind = "accepted"
	KindRejected StatusKind = "rejected"
	KindExpired  StatusKind = "expired"
)

const (
	typeDeadlineWarning = "deadline_warning"
	typeCancellation    = "cancelled"
	typeReminder        = "reminder"
)

// statusMessage builds the canned customer message for kind.
func statusMessage(kind StatusKind, therapistName, serviceType, bookingID, chatRoomID string) (Message, bool) {
	data := map[string]string{
		"type":       string(kind),
		"bookingId":  bookingID,
		"chatRoomId": chatRoomID,
	}

	switch kind {
	case KindAccepted:
		return Message{
			Title:              "Booking Accepted",
			Body:               fmt.Sprintf("%s has accepted your %s booking. Open the chat to confirm.", therapistName, serviceType),
			Tag:                "booking-accepted-" + bookingID,
			RequireInteraction: true,
			Data:               data,
			Actions: []Action{
				{ID: "open_chat", Title: "Open chat"},
				{ID: "confirm_booking", Title: "Confirm"},
			},
		}, true
	case KindRejected:
		return Message{
			Title: "Booking Declined",
			Body:  fmt.Sprintf("%s is unavailable for %s right now. Try another therapist.", therapistName, serviceType),
			Tag:   "booking-rejected-" + bookingID,
			Data:  data,
			Actions: []Action{
				{ID: "find_therapist", Title: "Find another"},
			},
		}, true
	case KindExpired:
		return Message{
			Title: "Booking Expired",
			Body:  fmt.Sprintf("%s did not respond in time to your %s request.", therapistName, serviceType),
			Tag:   "booking-expired-" + bookingID,
			Data:  data,
			Actions: []Action{
				{ID: "find_therapist", Title: "Find another"},
			},
		}, true
	}
	return Message{}, false
}

// deadlineMessage scales urgency with the time left. ok is false beyond five minutes.
func deadlineMessage(secondsLeft int, therapistName, serviceType, bookingID string) (Message, bool) {
	if secondsLeft > 300 || secondsLeft <= 0 {
		return Message{}, false
	}

	msg := Message{
		Tag: "booking-deadline-" + bookingID,
		Data: map[string]string{
			"type":        typeDeadlineWarning,
			"bookingId":   bookingID,
			"secondsLeft": fmt.Sprintf("%d", secondsLeft),
		},
	}

	minutes := (secondsLeft + 59) / 60
	switch {
	case secondsLeft <= 60:
		msg.Title = "Final minute"
		msg.Body = fmt.Sprintf("%s has less than a minute left to respond to your %s booking.", therapistName, serviceType)
		msg.RequireInteraction = true
	case secondsLeft <= 120:
		msg.Title = "Response due soon"
		msg.Body = fmt.Sprintf("%s has %d minutes left to respond to your %s booking.", therapistName, minutes, serviceType)
		msg.RequireInteraction = true
	default:
		msg.Title = "Waiting for therapist"
		msg.Body = fmt.Sprintf("%s has %d minutes to respond to your %s booking.", therapistName, minutes, serviceType)
	}
	return msg, true
}

func cancellationMessage(customerName, serviceType, bookingID, reason string) Message {
	body := fmt.Sprintf("%s cancelled the %s booking.", customerName, serviceType)
	if reason != "" {
		body = fmt.Sprintf("%s cancelled the %s booking: %s", customerName, serviceType, reason)
	}
	return Message{
		Title: "Booking Cancelled",
		Body:  body,
		Tag:   "booking-cancelled-" + bookingID,
		Data: map[string]string{
			"type":      typeCancellation,
			"bookingId": bookingID,
		},
	}
}
