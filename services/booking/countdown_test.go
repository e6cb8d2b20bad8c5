package booking

import (
	"testing"
	"time"

	"spabook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		deadline time.Time
		want     Countdown
	}{
		{"ten minutes", now.Add(10 * time.Minute), Countdown{600, "10:00", false, false, false}},
		{"five minutes", now.Add(5 * time.Minute), Countdown{300, "05:00", false, true, false}},
		{"two minutes", now.Add(2 * time.Minute), Countdown{120, "02:00", false, true, true}},
		{"partial second rounds up", now.Add(1500 * time.Millisecond), Countdown{2, "00:02", false, true, true}},
		{"exactly now", now, Countdown{0, "00:00", true, false, false}},
		{"long past", now.Add(-time.Hour), Countdown{0, "00:00", true, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRemaining(tt.deadline, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ComputeRemaining(tt.deadline, now))
			assert.Equal(t, got.SecondsRemaining <= 0, got.IsExpired)
		})
	}
}

func TestComputeRemainingISO(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	got, err := ComputeRemainingISO("2026-03-01T10:01:30Z", now)
	require.NoError(t, err)
	assert.Equal(t, 90, got.SecondsRemaining)
	assert.Equal(t, "01:30", got.Formatted)

	_, err = ComputeRemainingISO("tomorrow", now)
	assert.Error(t, err)
}

func TestResponseDeadline(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, created.Add(300*time.Second), ResponseDeadline(models.KindImmediate, created))
	assert.Equal(t, created.Add(1500*time.Second), ResponseDeadline(models.KindScheduled, created))
	assert.True(t, ResponseDeadline(models.KindImmediate, created).After(created))
}

func TestSplitPrice(t *testing.T) {
	tests := []struct {
		price, rate, commission, payout float64
	}{
		{350000, 0.30, 105000, 245000},
		{99, 0.30, 30, 69},
		{0, 0.30, 0, 0},
		{-5, 0.30, 0, 0},
	}
	for _, tt := range tests {
		c, p := SplitPrice(tt.price, tt.rate)
		assert.Equal(t, tt.commission, c)
		assert.Equal(t, tt.payout, p)
	}
}

func TestNewBookingID(t *testing.T) {
	now := time.UnixMilli(1772359200000)
	id := NewBookingID(now)
	assert.Regexp(t, `^BK1772359200000_[0-9A-F]{6}$`, id)
	assert.NotEqual(t, id, NewBookingID(now))
}
