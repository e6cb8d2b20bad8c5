package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	bookingRepo "spabook/database/repository/booking"
	chatRepo "spabook/database/repository/chat"
	recordsRepo "spabook/database/repository/records"
	"spabook/models"
	"spabook/services/notification"
)

type memBookings struct {
	mu        sync.Mutex
	docs      map[string]models.Booking
	createErr error
	updateErr error
	findErr   error
}

func newMemBookings() *memBookings {
	return &memBookings{docs: map[string]models.Booking{}}
}

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.docs[b.BookingID]; ok {
		return bookingRepo.ErrDuplicateID
	}
	m.docs[b.BookingID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.docs[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return &b, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id string, change bookingRepo.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	b, ok := m.docs[id]
	if !ok || b.Status != change.From {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = change.To
	b.StatusReason = change.Reason
	b.UpdatedAt = change.At
	at := change.At
	switch change.To {
	case models.StatusAccepted:
		b.AcceptedAt = &at
	case models.StatusExpired:
		b.ExpiredAt = &at
	case models.StatusCancelled:
		b.CancelledAt = &at
	}
	m.docs[id] = b
	return nil
}

func (m *memBookings) FindOverdue(_ context.Context, now time.Time, limit int64) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []models.Booking
	for _, b := range m.docs {
		if b.Status == models.StatusPending && b.ResponseDeadline.Before(now) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResponseDeadline.Before(out[j].ResponseDeadline) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memBookings) FindRecentActive(_ context.Context, customerID, therapistID string, since time.Time) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, b := range m.docs {
		if b.CustomerID == customerID && b.TherapistID == therapistID && !b.Status.IsTerminal() && b.CreatedAt.After(since) {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memBookings) EnsureIndexes(context.Context) error { return nil }

func (m *memBookings) status(id string) models.BookingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[id].Status
}

func (m *memBookings) put(b models.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[b.BookingID] = b
}

type memChats struct {
	mu        sync.Mutex
	docs      map[string]models.ChatSession
	createErr error
	updateErr error
}

func newMemChats() *memChats {
	return &memChats{docs: map[string]models.ChatSession{}}
}

func (m *memChats) Create(_ context.Context, s *models.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.docs[s.ChatRoomID] = *s
	return nil
}

func (m *memChats) GetByBookingID(_ context.Context, bookingID string) (*models.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.docs {
		if s.BookingID == bookingID {
			found := s
			return &found, nil
		}
	}
	return nil, chatRepo.ErrNotFound
}

func (m *memChats) UpdateStatus(_ context.Context, chatRoomID string, status models.ChatStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	s, ok := m.docs[chatRoomID]
	if !ok {
		return chatRepo.ErrNotFound
	}
	s.Status = status
	m.docs[chatRoomID] = s
	return nil
}

func (m *memChats) EnsureIndexes(context.Context) error { return nil }

type memCommissions struct {
	mu   sync.Mutex
	docs map[string]models.CommissionRecord
}

func (m *memCommissions) Create(_ context.Context, r models.CommissionRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = map[string]models.CommissionRecord{}
	}
	if _, ok := m.docs[r.BookingID]; ok {
		return "", recordsRepo.ErrCommissionExists
	}
	m.docs[r.BookingID] = r
	return r.BookingID, nil
}

func (m *memCommissions) GetByBookingID(_ context.Context, id string) (*models.CommissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memCommissions) GetByTherapistID(context.Context, string) ([]models.CommissionRecord, error) {
	return nil, nil
}

func (m *memCommissions) EnsureIndexes(context.Context) error { return nil }

type sentNotice struct {
	recipient   string
	kind        string
	bookingID   string
	secondsLeft int
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotice
}

func (n *recordingNotifier) record(s sentNotice) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, s)
	return true
}

func (n *recordingNotifier) NotifyStatusChange(_ context.Context, recipientID string, kind notification.StatusKind, _, _, bookingID, _ string) bool {
	return n.record(sentNotice{recipient: recipientID, kind: string(kind), bookingID: bookingID})
}

func (n *recordingNotifier) NotifyDeadlineWarning(_ context.Context, recipientID string, secondsLeft int, _, _, bookingID string) bool {
	return n.record(sentNotice{recipient: recipientID, kind: "warning", bookingID: bookingID, secondsLeft: secondsLeft})
}

func (n *recordingNotifier) NotifyCancellation(_ context.Context, recipientID, _, _, bookingID, _ string) bool {
	return n.record(sentNotice{recipient: recipientID, kind: "cancelled", bookingID: bookingID})
}

func (n *recordingNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, s := range n.sent {
		if s.kind == kind {
			c++
		}
	}
	return c
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt models.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

type recordingPlanner struct {
	mu        sync.Mutex
	planned   []string
	withdrawn []string
	err       error
	unplanErr error
}

func (p *recordingPlanner) Plan(_ context.Context, b *models.Booking) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	p.planned = append(p.planned, b.BookingID)
	return 1, nil
}

func (p *recordingPlanner) Unplan(_ context.Context, b *models.Booking) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unplanErr != nil {
		return 0, p.unplanErr
	}
	p.withdrawn = append(p.withdrawn, b.BookingID)
	return 1, nil
}

var errStoreDown = errors.New("store unavailable")
