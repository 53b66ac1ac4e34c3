package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
	// BookingStatusCompleted is set by an external process; the core only tolerates it on read
	BookingStatusCompleted BookingStatus = "completed"
)

// statusLiterals lists, lowercased, every literal stored for a status, including the
// legacy ones found in older rows. PENDIENTE holds its slot like a confirmed booking.
var statusLiterals = map[BookingStatus][]string{
	BookingStatusActive:    {"active", "activa", "confirmada", "programada", "pendiente"},
	BookingStatusCancelled: {"cancelled", "cancelada"},
	BookingStatusCompleted: {"completed", "completada", "realizada"},
}

// ParseBookingStatus normalizes a stored status literal, case-insensitively
func ParseBookingStatus(s string) (BookingStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for status, literals := range statusLiterals {
		for _, literal := range literals {
			if literal == normalized {
				return status, true
			}
		}
	}
	return "", false
}

// StatusLiterals returns the lowercased literals that read back as status.
// Compare them against LOWER(status) in queries.
func StatusLiterals(status BookingStatus) []string {
	return append([]string(nil), statusLiterals[status]...)
}

// Booking is a patient's claim on exactly one slot.
// DoctorID, Date, StartTime and Shift are copied from the slot at creation.
type Booking struct {
	ID          uuid.UUID
	PatientID   int64
	DoctorID    int64
	SlotID      int64
	Date        time.Time // civil date, midnight UTC
	StartTime   ClockTime
	Shift       Shift
	Description string
	Status      BookingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBooking builds an active booking over a reserved slot snapshot
func NewBooking(patientID int64, slot *Slot, description string, now time.Time) *Booking {
	return &Booking{
		ID:          uuid.New(),
		PatientID:   patientID,
		DoctorID:    slot.DoctorID,
		SlotID:      slot.ID,
		Date:        slot.Date,
		StartTime:   slot.StartTime,
		Shift:       slot.Shift,
		Description: description,
		Status:      BookingStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsActive checks if booking still holds its slot
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}

// IsCancelled checks if booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// IsCompleted checks if booking was marked completed externally
func (b *Booking) IsCompleted() bool {
	return b.Status == BookingStatusCompleted
}

// Cancel moves an active booking to cancelled. Callers check IsActive first.
func (b *Booking) Cancel(now time.Time) {
	b.Status = BookingStatusCancelled
	b.UpdatedAt = now
}
