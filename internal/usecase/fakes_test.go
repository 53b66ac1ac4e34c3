package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"clinic-booking-core/internal/domain/apperror"
	"clinic-booking-core/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var errStoreDown = errors.New("store unavailable")

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// memStore backs every fake repository
type memStore struct {
	mu        sync.Mutex
	slots     map[int64]entity.Slot
	bookings  map[uuid.UUID]entity.Booking
	audits    []entity.AuditLog
	nextAudit int64
}

func newMemStore(slots ...entity.Slot) *memStore {
	s := &memStore{
		slots:    make(map[int64]entity.Slot),
		bookings: make(map[uuid.UUID]entity.Booking),
	}
	for _, slot := range slots {
		s.slots[slot.ID] = slot
	}
	return s
}

type memSnapshot struct {
	slots     map[int64]entity.Slot
	bookings  map[uuid.UUID]entity.Booking
	audits    []entity.AuditLog
	nextAudit int64
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memSnapshot{
		slots:     make(map[int64]entity.Slot, len(s.slots)),
		bookings:  make(map[uuid.UUID]entity.Booking, len(s.bookings)),
		audits:    append([]entity.AuditLog(nil), s.audits...),
		nextAudit: s.nextAudit,
	}
	for k, v := range s.slots {
		snap.slots[k] = v
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = snap.slots
	s.bookings = snap.bookings
	s.audits = snap.audits
	s.nextAudit = snap.nextAudit
}

func (s *memStore) slot(id int64) entity.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[id]
}

func (s *memStore) booking(id uuid.UUID) entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *memStore) putBooking(b entity.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b
}

func (s *memStore) deleteSlot(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, id)
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *memStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, len(s.audits))
	for i, a := range s.audits {
		actions[i] = a.Action
	}
	return actions
}

// memTransactor serializes transactions and restores a snapshot on error
type memTransactor struct {
	mu    sync.Mutex
	store *memStore
}

type memTxKey struct{}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type fakeSlotRepo struct {
	store      *memStore
	releaseErr error
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id int64) (*entity.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slot, ok := r.store.slots[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (r *fakeSlotRepo) FindByDoctorAndDate(_ context.Context, doctorID int64, date time.Time) ([]entity.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var slots []entity.Slot
	for _, slot := range r.store.slots {
		if slot.DoctorID == doctorID && slot.Date.Equal(date) {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (r *fakeSlotRepo) TryReserve(_ context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slot, ok := r.store.slots[id]
	if !ok || !slot.Available {
		return false, nil
	}
	slot.Available = false
	r.store.slots[id] = slot
	return true, nil
}

func (r *fakeSlotRepo) Release(_ context.Context, id int64) (bool, error) {
	if r.releaseErr != nil {
		return false, r.releaseErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slot, ok := r.store.slots[id]
	if !ok {
		return false, nil
	}
	slot.Available = true
	r.store.slots[id] = slot
	return true, nil
}

func (r *fakeSlotRepo) FindOrphanedReservations(context.Context, time.Time, int64, int) ([]int64, error) {
	return nil, nil
}

func (r *fakeSlotRepo) ReleaseOrphaned(context.Context, int64, time.Time) (bool, error) {
	return false, nil
}

type fakeBookingRepo struct {
	store   *memStore
	saveErr error
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBookingRepo) FindActiveBySlot(_ context.Context, slotID int64) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bookings {
		if b.SlotID == slotID && b.IsActive() {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, booking *entity.Booking) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bookings {
		if b.SlotID == booking.SlotID && b.IsActive() {
			return apperror.ErrDuplicateBooking
		}
	}
	r.store.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, booking *entity.Booking, from entity.BookingStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.bookings[booking.ID]
	if !ok || current.Status != from {
		return false, nil
	}
	current.Status = booking.Status
	current.UpdatedAt = booking.UpdatedAt
	r.store.bookings[booking.ID] = current
	return true, nil
}

type fakeAuditRepo struct {
	store *memStore
	err   error
}

func (r *fakeAuditRepo) Create(_ context.Context, log *entity.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextAudit++
	log.ID = r.store.nextAudit
	r.store.audits = append(r.store.audits, *log)
	return nil
}

func (r *fakeAuditRepo) FindByID(_ context.Context, id int64) (*entity.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.audits {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []entity.BookingEvent
	err    error
}

func (n *recordingNotifier) Emit(_ context.Context, event entity.BookingEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) types() []entity.BookingEventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]entity.BookingEventType, len(n.events))
	for i, e := range n.events {
		types[i] = e.Type
	}
	return types
}
