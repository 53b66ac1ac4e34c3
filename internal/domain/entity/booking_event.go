package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingEventType doubles as the routing key / channel suffix on the wire
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent carries enough for a notifier to address doctor and patient
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  uuid.UUID        `json:"booking_id"`
	DoctorID   int64            `json:"doctor_id"`
	PatientID  int64            `json:"patient_id"`
	SlotID     int64            `json:"slot_id"`
	Date       string           `json:"date"`
	StartTime  string           `json:"start_time"`
	Shift      Shift            `json:"shift"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewBookingEvent(eventType BookingEventType, b *Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		DoctorID:   b.DoctorID,
		PatientID:  b.PatientID,
		SlotID:     b.SlotID,
		Date:       b.Date.Format("2006-01-02"),
		StartTime:  b.StartTime.String(),
		Shift:      b.Shift,
		OccurredAt: occurredAt,
	}
}
