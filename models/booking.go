package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAccepted  BookingStatus = "accepted"
	StatusRejected  BookingStatus = "rejected"
	StatusExpired   BookingStatus = "expired"
	StatusCancelled BookingStatus = "cancelled"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
)

// allowedTransitions is the booking state machine. Statuses with no entry are terminal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusAccepted, StatusRejected, StatusExpired, StatusCancelled},
	StatusAccepted:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusExpired,
		StatusCancelled, StatusConfirmed, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s BookingStatus) IsTerminal() bool {
	return s.Valid() && len(allowedTransitions[s]) == 0
}

// CanTransition reports whether the state machine allows s -> to.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveStatuses are the non-terminal statuses a booking can hold.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusAccepted, StatusConfirmed}
}

// BookingKind distinguishes service-now requests from future appointments.
type BookingKind string

const (
	KindImmediate BookingKind = "immediate"
	KindScheduled BookingKind = "scheduled"
)

// Coordinates is an optional customer location.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Booking is the persisted booking document.
type Booking struct {
	BookingID     string `bson:"bookingId" json:"bookingId"`
	ChatRoomID    string `bson:"chatRoomId" json:"chatRoomId"`
	CustomerID    string `bson:"customerId" json:"customerId"`
	CustomerName  string `bson:"customerName" json:"customerName"`
	CustomerPhone string `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	TherapistID   string `bson:"therapistId" json:"therapistId"`
	TherapistName string `bson:"therapistName" json:"therapistName"`

	ServiceType     string      `bson:"serviceType" json:"serviceType"`
	DurationMinutes int         `bson:"durationMinutes" json:"durationMinutes"`
	TotalPrice      float64     `bson:"totalPrice" json:"totalPrice"`
	AdminCommission float64     `bson:"adminCommission" json:"adminCommission"`
	ProviderPayout  float64     `bson:"providerPayout" json:"providerPayout"`
	Kind            BookingKind `bson:"bookingKind" json:"bookingKind"`

	ScheduledDate string       `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"` // "YYYY-MM-DD"
	ScheduledTime string       `bson:"scheduledTime,omitempty" json:"scheduledTime,omitempty"` // "HH:MM"
	Location      string       `bson:"location,omitempty" json:"location,omitempty"`
	Coordinates   *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Notes         string       `bson:"notes,omitempty" json:"notes,omitempty"`

	Status           BookingStatus `bson:"status" json:"status"`
	StatusReason     string        `bson:"statusReason,omitempty" json:"statusReason,omitempty"`
	CreatedAt        time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updatedAt" json:"updatedAt"`
	ResponseDeadline time.Time     `bson:"responseDeadline" json:"responseDeadline"`

	AcceptedAt  *time.Time `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	RejectedAt  *time.Time `bson:"rejectedAt,omitempty" json:"rejectedAt,omitempty"`
	ExpiredAt   *time.Time `bson:"expiredAt,omitempty" json:"expiredAt,omitempty"`
	CancelledAt *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	ConfirmedAt *time.Time `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// StatusTimestampField is the document field stamped when a booking enters s.
func StatusTimestampField(s BookingStatus) string {
	switch s {
	case StatusAccepted:
		return "acceptedAt"
	case StatusRejected:
		return "rejectedAt"
	case StatusExpired:
		return "expiredAt"
	case StatusCancelled:
		return "cancelledAt"
	case StatusConfirmed:
		return "confirmedAt"
	case StatusCompleted:
		return "completedAt"
	}
	return ""
}
