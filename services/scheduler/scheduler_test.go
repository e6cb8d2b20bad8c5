package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	mu       sync.Mutex
	warnings []int
	expired  int32
}

func (r *recorder) onWarning(secondsLeft int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, secondsLeft)
}

func (r *recorder) onExpire() {
	atomic.AddInt32(&r.expired, 1)
}

func (r *recorder) warningCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

func (r *recorder) expiredCount() int {
	return int(atomic.LoadInt32(&r.expired))
}

func TestArmFiresExpiryOnce(t *testing.T) {
	s := New(zap.NewNop())
	rec := &recorder{}

	s.Arm("BK1", time.Now().Add(time.Second), rec.onWarning, rec.onExpire)
	assert.True(t, s.Pending("BK1"))

	require.Eventually(t, func() bool { return rec.expiredCount() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, rec.expiredCount())
	assert.Equal(t, 0, rec.warningCount(), "every default offset lies before a one second deadline")
	assert.False(t, s.Pending("BK1"))
}

func TestArmFiresWarningsThatAreStillAhead(t *testing.T) {
	s := New(zap.NewNop(), WithWarningOffsets(5*time.Second, 2*time.Second, time.Second))
	rec := &recorder{}

	// Only the one-second warning fits before a 1.5 second deadline.
	s.Arm("BK1", time.Now().Add(1500*time.Millisecond), rec.onWarning, rec.onExpire)

	require.Eventually(t, func() bool { return rec.expiredCount() == 1 }, 3*time.Second, 20*time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []int{1}, rec.warnings)
}

func TestArmPastDeadlineArmsNothing(t *testing.T) {
	s := New(zap.NewNop())
	rec := &recorder{}

	cancel := s.Arm("BK1", time.Now().Add(-time.Second), rec.onWarning, rec.onExpire)
	require.NotNil(t, cancel)
	cancel()
	cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, rec.expiredCount())
	assert.Equal(t, 0, rec.warningCount())
	assert.Equal(t, 0, s.Len())
}

func TestArmPastDeadlineDisarmsPreviousTimers(t *testing.T) {
	s := New(zap.NewNop())
	first := &recorder{}
	second := &recorder{}

	s.Arm("BK1", time.Now().Add(200*time.Millisecond), first.onWarning, first.onExpire)
	require.True(t, s.Pending("BK1"))

	s.Arm("BK1", time.Now().Add(-time.Second), second.onWarning, second.onExpire)
	assert.False(t, s.Pending("BK1"))

	time.Sleep(350 * time.Millisecond)
	assert.Equal(t, 0, first.expiredCount())
	assert.Equal(t, 0, second.expiredCount())
	assert.Equal(t, 0, s.Len())
}

func TestCancelPreventsCallbacks(t *testing.T) {
	s := New(zap.NewNop(), WithWarningOffsets(150*time.Millisecond))
	rec := &recorder{}

	cancel := s.Arm("BK1", time.Now().Add(200*time.Millisecond), rec.onWarning, rec.onExpire)
	for i := 0; i < 3; i++ {
		cancel()
	}
	assert.False(t, s.Cancel("BK1"))

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 0, rec.expiredCount())
	assert.Equal(t, 0, rec.warningCount())
	assert.Equal(t, 0, s.Len())
}

func TestCancelByBookingID(t *testing.T) {
	s := New(zap.NewNop())
	rec := &recorder{}

	s.Arm("BK1", time.Now().Add(200*time.Millisecond), rec.onWarning, rec.onExpire)
	assert.True(t, s.Cancel("BK1"))
	assert.False(t, s.Cancel("BK1"))

	time.Sleep(350 * time.Millisecond)
	assert.Equal(t, 0, rec.expiredCount())
}

func TestRearmReplacesPreviousTimers(t *testing.T) {
	s := New(zap.NewNop())
	first := &recorder{}
	second := &recorder{}

	s.Arm("BK1", time.Now().Add(100*time.Millisecond), first.onWarning, first.onExpire)
	s.Arm("BK1", time.Now().Add(150*time.Millisecond), second.onWarning, second.onExpire)
	assert.Equal(t, 1, s.Len())

	require.Eventually(t, func() bool { return second.expiredCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, first.expiredCount())
}

func TestCallbackPanicIsRecovered(t *testing.T) {
	s := New(zap.NewNop())
	done := make(chan struct{})

	s.Arm("BK1", time.Now().Add(50*time.Millisecond), nil, func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expiry callback never ran")
	}
	assert.False(t, s.Pending("BK1"))
}

func TestStopDisarmsEverything(t *testing.T) {
	s := New(zap.NewNop())
	rec := &recorder{}

	s.Arm("BK1", time.Now().Add(100*time.Millisecond), rec.onWarning, rec.onExpire)
	s.Arm("BK2", time.Now().Add(100*time.Millisecond), rec.onWarning, rec.onExpire)
	s.Stop()

	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 0, rec.expiredCount())
	assert.Equal(t, 0, s.Len())
}
