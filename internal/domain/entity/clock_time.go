package entity

import (
	"fmt"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day without a date or zone
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime accepts "15:04" and "15:04:05" (Postgres TIME columns come back with seconds)
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}

	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return ClockTime{}, fmt.Errorf("invalid time of day %q, use HH:MM", s)
}

// MustParseClockTime panics on malformed input. Intended for constants and tests.
func MustParseClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf returns the time of day of t in its own location
func ClockOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns the number of minutes since midnight
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) Before(other ClockTime) bool {
	return c.Minutes() < other.Minutes()
}

func (c ClockTime) After(other ClockTime) bool {
	return c.Minutes() > other.Minutes()
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// CivilDate strips the clock and zone from t, keeping its calendar day as seen in t's location.
// The result is midnight UTC so dates compare and subtract cleanly.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateIn returns the calendar day of the instant t as observed in loc
func DateIn(t time.Time, loc *time.Location) time.Time {
	return CivilDate(t.In(loc))
}

// At combines a calendar date and a time of day into an instant in loc
func At(date time.Time, clock ClockTime, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour, clock.Minute, 0, 0, loc)
}

// DaysBetween counts whole calendar days from -> to (negative when to is earlier)
func DaysBetween(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)).Hours() / 24)
}
