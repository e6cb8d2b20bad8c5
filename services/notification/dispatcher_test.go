package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"spabook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPlatform struct {
	mock.Mock
}

func (m *mockPlatform) RequestPermission(ctx context.Context, recipientID string) (PermissionState, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(PermissionState), args.Error(1)
}

func (m *mockPlatform) Show(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

type mockAdvancedPlatform struct {
	mockPlatform
}

func (m *mockAdvancedPlatform) AdvancedShow(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

type memoryLogs struct {
	mu      sync.Mutex
	entries []models.NotificationLog
	err     error
}

func (l *memoryLogs) Append(_ context.Context, entry *models.NotificationLog) error {
	if l.err != nil {
		return l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, *entry)
	return nil
}

func (l *memoryLogs) ListByBooking(_ context.Context, bookingID string, _ int64) ([]models.NotificationLog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.NotificationLog
	for _, e := range l.entries {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *memoryLogs) EnsureIndexes(context.Context) error { return nil }

func TestNotifySkipsWithoutPermission(t *testing.T) {
	platform := &mockPlatform{}
	platform.On("RequestPermission", mock.Anything, "cust-1").Return(PermissionDenied, nil).Once()
	logs := &memoryLogs{}
	d := NewDispatcher(platform, logs, zap.NewNop())

	assert.False(t, d.Notify(context.Background(), Message{RecipientID: "cust-1", Title: "t"}))
	assert.False(t, d.Notify(context.Background(), Message{RecipientID: "cust-1", Title: "t"}))

	platform.AssertExpectations(t)
	platform.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
	require.Len(t, logs.entries, 2)
	assert.False(t, logs.entries[0].Displayed)
}

func TestRequestPermissionAsksAgainWhileDefault(t *testing.T) {
	platform := &mockPlatform{}
	platform.On("RequestPermission", mock.Anything, "cust-1").Return(PermissionDefault, nil).Once()
	platform.On("RequestPermission", mock.Anything, "cust-1").Return(PermissionGranted, nil).Once()
	d := NewDispatcher(platform, nil, zap.NewNop())

	assert.Equal(t, PermissionDefault, d.RequestPermission(context.Background(), "cust-1"))
	assert.Equal(t, PermissionGranted, d.RequestPermission(context.Background(), "cust-1"))
	assert.Equal(t, PermissionGranted, d.RequestPermission(context.Background(), "cust-1"))
	platform.AssertNumberOfCalls(t, "RequestPermission", 2)

	d.ForgetPermission("cust-1")
	platform.On("RequestPermission", mock.Anything, "cust-1").Return(PermissionDenied, nil).Once()
	assert.Equal(t, PermissionDenied, d.RequestPermission(context.Background(), "cust-1"))
}

func TestRequestPermissionLookupError(t *testing.T) {
	platform := &mockPlatform{}
	platform.On("RequestPermission", mock.Anything, "cust-1").Return(PermissionDefault, errors.New("redis down"))
	d := NewDispatcher(platform, nil, zap.NewNop())

	assert.Equal(t, PermissionDefault, d.RequestPermission(context.Background(), "cust-1"))
}

func TestNotifyStatusChangePrefersAdvancedChannel(t *testing.T) {
	platform := &mockAdvancedPlatform{}
	platform.On("RequestPermission", mock.Anything, "cust-1").Return(PermissionGranted, nil)
	platform.On("AdvancedShow", mock.Anything, mock.MatchedBy(func(m Message) bool {
		return m.Title == "Booking Accepted" &&
			m.Data["bookingId"] == "BK1" &&
			m.Data["chatRoomId"] == "room-1" &&
			len(m.Actions) == 2
	})).Return(nil).Once()
	logs := &memoryLogs{}
	d := NewDispatcher(platform, logs, zap.NewNop())

	ok := d.NotifyStatusChange(context.Background(), "cust-1", KindAccepted, "Made", "balinese massage", "BK1", "room-1")

	assert.True(t, ok)
	platform.AssertExpectations(t)
	platform.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
	require.Len(t, logs.entries, 1)
	assert.True(t, logs.entries[0].Displayed)
	assert.Equal(t, "accepted", logs.entries[0].Type)
}

func TestNotifyFallsBackToShow(t *testing.T) {
	platform := &mockPlatform{}
	platform.On("RequestPermission", mock.Anything, "cust-1").Return(PermissionGranted, nil)
	platform.On("Show", mock.Anything, mock.Anything).Return(nil).Once()
	d := NewDispatcher(platform, nil, zap.NewNop())

	assert.True(t, d.NotifyStatusChange(context.Background(), "cust-1", KindExpired, "Made", "reflexology", "BK1", "room-1"))
	platform.AssertExpectations(t)
}

func TestNotifyDeliveryFailureReturnsFalse(t *testing.T) {
	platform := &mockPlatform{}
	platform.On("RequestPermission", mock.Anything, "cust-1").Return(PermissionGranted, nil)
	platform.On("Show", mock.Anything, mock.Anything).Return(errors.New("unregistered token"))
	logs := &memoryLogs{err: errors.New("mongo down")}
	d := NewDispatcher(platform, logs, zap.NewNop())

	assert.False(t, d.Notify(context.Background(), Message{RecipientID: "cust-1"}))
}

func TestNotifyStatusChangeUnknownKind(t *testing.T) {
	platform := &mockPlatform{}
	d := NewDispatcher(platform, nil, zap.NewNop())

	assert.False(t, d.NotifyStatusChange(context.Background(), "cust-1", StatusKind("confirmed"), "Made", "spa", "BK1", "room"))
	platform.AssertNotCalled(t, "RequestPermission", mock.Anything, mock.Anything)
}

func TestNotifyDeadlineWarning(t *testing.T) {
	tests := []struct {
		name        string
		secondsLeft int
		wantSent    bool
		wantTitle   string
		wantSticky  bool
	}{
		{"above five minutes ignored", 301, false, "", false},
		{"five minutes", 300, true, "Waiting for therapist", false},
		{"two minutes", 120, true, "Response due soon", true},
		{"final minute", 60, true, "Final minute", true},
		{"already passed", 0, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := &mockPlatform{}
			platform.On("RequestPermission", mock.Anything, "cust-1").Return(PermissionGranted, nil)
			var shown Message
			platform.On("Show", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				shown = args.Get(1).(Message)
			}).Return(nil)
			d := NewDispatcher(platform, nil, zap.NewNop())

			sent := d.NotifyDeadlineWarning(context.Background(), "cust-1", tt.secondsLeft, "Made", "spa", "BK1")

			assert.Equal(t, tt.wantSent, sent)
			if tt.wantSent {
				assert.Equal(t, tt.wantTitle, shown.Title)
				assert.Equal(t, tt.wantSticky, shown.RequireInteraction)
				assert.Equal(t, "cust-1", shown.RecipientID)
			} else {
				platform.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestNotifyCancellationAndReminder(t *testing.T) {
	platform := &mockPlatform{}
	platform.On("RequestPermission", mock.Anything, "ther-1").Return(PermissionGranted, nil)
	platform.On("Show", mock.Anything, mock.MatchedBy(func(m Message) bool {
		return m.Title == "Booking Cancelled" && m.RecipientID == "ther-1"
	})).Return(nil).Once()
	platform.On("Show", mock.Anything, mock.MatchedBy(func(m Message) bool {
		return m.Tag == "booking-reminder-BK1"
	})).Return(nil).Once()
	d := NewDispatcher(platform, nil, zap.NewNop())

	assert.True(t, d.NotifyCancellation(context.Background(), "ther-1", "Ayu", "spa", "BK1", "changed plans"))
	assert.True(t, d.NotifyReminder(context.Background(), models.ReminderPayload{
		BookingID:   "BK1",
		RecipientID: "ther-1",
		Title:       "Upcoming booking",
		Body:        "in 1 hour",
	}))
	platform.AssertExpectations(t)
}
