package models

import "time"

// CommissionRecord locks in the platform's cut once a therapist accepts.
type CommissionRecord struct {
	ID              string    `bson:"id" json:"id"`
	BookingID       string    `bson:"bookingId" json:"bookingId"`
	TherapistID     string    `bson:"therapistId" json:"therapistId"`
	TotalPrice      float64   `bson:"totalPrice" json:"totalPrice"`
	AdminCommission float64   `bson:"adminCommission" json:"adminCommission"`
	ProviderPayout  float64   `bson:"providerPayout" json:"providerPayout"`
	Rate            float64   `bson:"rate" json:"rate"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}
