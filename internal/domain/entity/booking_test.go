package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseBookingStatus(t *testing.T) {
	tests := map[string]BookingStatus{
		"active":     BookingStatusActive,
		"ACTIVA":     BookingStatusActive,
		"confirmada": BookingStatusActive,
		"PROGRAMADA": BookingStatusActive,
		"Confirmada": BookingStatusActive,
		"PENDIENTE":  BookingStatusActive,
		"cancelled":  BookingStatusCancelled,
		"CANCELADA":  BookingStatusCancelled,
		"completed":  BookingStatusCompleted,
		"realizada":  BookingStatusCompleted,
		"COMPLETADA": BookingStatusCompleted,
	}

	for in, want := range tests {
		got, ok := ParseBookingStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseBookingStatus("pending")
	assert.False(t, ok)
}

func TestParseShift(t *testing.T) {
	for in, want := range map[string]Shift{
		"morning": ShiftMorning,
		"Mañana":  ShiftMorning,
		"tarde":   ShiftAfternoon,
		"NOCHE":   ShiftNight,
	} {
		got, ok := ParseShift(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	assert.False(t, Shift("evening").IsValid())
}

func TestNewBooking_CopiesSlot(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	slot := &Slot{
		ID:        4,
		DoctorID:  9,
		Date:      time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		Shift:     ShiftAfternoon,
		StartTime: MustParseClockTime("14:00"),
		EndTime:   MustParseClockTime("14:30"),
	}

	b := NewBooking(3, slot, "dolor de cabeza", now)

	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, int64(3), b.PatientID)
	assert.Equal(t, slot.DoctorID, b.DoctorID)
	assert.Equal(t, slot.ID, b.SlotID)
	assert.Equal(t, slot.Date, b.Date)
	assert.Equal(t, slot.StartTime, b.StartTime)
	assert.Equal(t, slot.Shift, b.Shift)
	assert.True(t, b.IsActive())

	later := now.Add(time.Hour)
	b.Cancel(later)
	assert.True(t, b.IsCancelled())
	assert.Equal(t, later, b.UpdatedAt)
}

func TestStatusLiterals(t *testing.T) {
	for _, status := range []BookingStatus{BookingStatusActive, BookingStatusCancelled, BookingStatusCompleted} {
		literals := StatusLiterals(status)
		assert.Contains(t, literals, string(status))
		for _, literal := range literals {
			assert.Equal(t, strings.ToLower(literal), literal)
			got, ok := ParseBookingStatus(strings.ToUpper(literal))
			assert.True(t, ok, literal)
			assert.Equal(t, status, got, literal)
		}
	}

	literals := StatusLiterals(BookingStatusActive)
	literals[0] = "mutated"
	assert.Equal(t, "active", StatusLiterals(BookingStatusActive)[0])
}

func TestBooking_IsCompleted(t *testing.T) {
	b := &Booking{Status: BookingStatusCompleted}
	assert.True(t, b.IsCompleted())
	assert.False(t, b.IsActive())
	assert.False(t, b.IsCancelled())
}
