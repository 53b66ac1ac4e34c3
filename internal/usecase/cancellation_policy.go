package usecase

import (
	"time"

	"clinic-booking-core/internal/domain/entity"
)

// MinCancellationNoticeDays is how many calendar days ahead a booking must be to be cancelled
const MinCancellationNoticeDays = 2

// CancellationPolicy decides whether a booking may still be cancelled
type CancellationPolicy struct {
	minNoticeDays int
	loc           *time.Location
}

// NewCancellationPolicy falls back to MinCancellationNoticeDays for non-positive values
func NewCancellationPolicy(minNoticeDays int, loc *time.Location) CancellationPolicy {
	if minNoticeDays <= 0 {
		minNoticeDays = MinCancellationNoticeDays
	}
	if loc == nil {
		loc = time.UTC
	}
	return CancellationPolicy{minNoticeDays: minNoticeDays, loc: loc}
}

// CanCancel is true iff the appointment date is at least minNoticeDays calendar days after today
func (p CancellationPolicy) CanCancel(booking *entity.Booking, now time.Time) bool {
	today := entity.DateIn(now, p.loc)
	return entity.DaysBetween(today, booking.Date) >= p.minNoticeDays
}

func (p CancellationPolicy) MinNoticeDays() int {
	return p.minNoticeDays
}
