package entity

import (
	"strings"
	"time"
)

// Shift is the part of the day a slot belongs to
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

// ParseShift accepts the canonical values and the clinic's legacy Spanish labels
func ParseShift(s string) (Shift, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "mañana", "manana":
		return ShiftMorning, true
	case "afternoon", "tarde":
		return ShiftAfternoon, true
	case "night", "noche":
		return ShiftNight, true
	}
	return "", false
}

func (s Shift) IsValid() bool {
	_, ok := ParseShift(string(s))
	return ok
}

// Slot is a doctor-published bookable interval.
// Available is true iff no non-cancelled booking references the slot.
type Slot struct {
	ID        int64
	DoctorID  int64
	Date      time.Time // civil date, midnight UTC
	Shift     Shift
	StartTime ClockTime
	EndTime   ClockTime
	Available bool
}

// StartsAt returns the instant the slot begins in the clinic location
func (s *Slot) StartsAt(loc *time.Location) time.Time {
	return At(s.Date, s.StartTime, loc)
}

// HasValidInterval checks startTime < endTime
func (s *Slot) HasValidInterval() bool {
	return s.StartTime.Before(s.EndTime)
}
