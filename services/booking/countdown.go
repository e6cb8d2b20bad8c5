package booking

import (
	"fmt"
	"math"
	"time"

	"spabook/models"
)

// Response windows measured from booking creation.
const (
	ImmediateResponseWindow = 5 * time.Minute
	ScheduledResponseWindow = 25 * time.Minute
)

// ResponseDeadline returns when the therapist must have answered.
func ResponseDeadline(kind models.BookingKind, createdAt time.Time) time.Time {
	if kind == models.KindScheduled {
		return createdAt.Add(ScheduledResponseWindow)
	}
	return createdAt.Add(ImmediateResponseWindow)
}

// Countdown is the display state of a response deadline.
type Countdown struct {
	SecondsRemaining int    `json:"secondsRemaining"`
	Formatted        string `json:"formatted"`
	IsExpired        bool   `json:"isExpired"`
	IsWithin5Min     bool   `json:"isWithin5Min"`
	IsWithin2Min     bool   `json:"isWithin2Min"`
}

// ComputeRemaining derives the countdown for deadline as seen at now.
func ComputeRemaining(deadline, now time.Time) Countdown {
	secs := int(math.Ceil(deadline.Sub(now).Seconds()))
	if secs < 0 {
		secs = 0
	}
	return Countdown{
		SecondsRemaining: secs,
		Formatted:        fmt.Sprintf("%02d:%02d", secs/60, secs%60),
		IsExpired:        secs <= 0,
		IsWithin5Min:     secs > 0 && secs <= 300,
		IsWithin2Min:     secs > 0 && secs <= 120,
	}
}

// ComputeRemainingISO is ComputeRemaining for an RFC 3339 deadline.
func ComputeRemainingISO(deadlineISO string, now time.Time) (Countdown, error) {
	deadline, err := time.Parse(time.RFC3339Nano, deadlineISO)
	if err != nil {
		return Countdown{}, newValidationError("responseDeadline", "must be an RFC 3339 timestamp")
	}
	return ComputeRemaining(deadline, now), nil
}
