package models

// BookingRequest is the caller's input to booking creation.
type BookingRequest struct {
	CustomerID    string `json:"customerId" validate:"required"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	TherapistID   string `json:"therapistId" validate:"required"`
	TherapistName string `json:"therapistName" validate:"required"`

	ServiceType     string      `json:"serviceType" validate:"required"`
	DurationMinutes int         `json:"durationMinutes" validate:"gte=0"`
	TotalPrice      float64     `json:"totalPrice" validate:"gte=0"`
	Kind            BookingKind `json:"bookingKind" validate:"omitempty,oneof=immediate scheduled"`

	ScheduledDate string `json:"scheduledDate,omitempty" validate:"required_if=Kind scheduled,omitempty,datetime=2006-01-02"`
	ScheduledTime string `json:"scheduledTime,omitempty" validate:"required_if=Kind scheduled,omitempty,datetime=15:04"`

	Location    string       `json:"location,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Notes       string       `json:"notes,omitempty"`

	// Profiles feed customer name resolution; both may be nil.
	Profile *Profile `json:"profile,omitempty"`
	Account *Profile `json:"account,omitempty"`
}

// Profile is a possibly partial user profile.
type Profile struct {
	FullName    string `json:"fullName,omitempty"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// BookingCreated is returned from a successful creation.
type BookingCreated struct {
	BookingID        string `json:"bookingId"`
	ChatRoomID       string `json:"chatRoomId"`
	ResponseDeadline string `json:"responseDeadline"`
}

// TransitionResult reports the outcome of a status change.
type TransitionResult struct {
	BookingID string        `json:"bookingId"`
	Applied   bool          `json:"applied"`
	From      BookingStatus `json:"from,omitempty"`
	Status    BookingStatus `json:"status"`
	Warnings  []string      `json:"warnings,omitempty"`
}
