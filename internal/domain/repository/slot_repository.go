package repository

import (
	"context"
	"time"

	"clinic-booking-core/internal/domain/entity"
)

// SlotRepository is the persistence port for published slots.
// Lookups return (nil, nil) when the slot does not exist.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Slot, error)
	FindByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]entity.Slot, error)
	// TryReserve flips available true -> false in one conditional update.
	// It reports false when no row matched (missing or already reserved).
	TryReserve(ctx context.Context, id int64) (bool, error)
	// Release sets available = true and reports whether the slot exists
	Release(ctx context.Context, id int64) (bool, error)

	// FindOrphanedReservations lists unavailable slots, last touched before olderThan,
	// that no active booking references. Ordered by id, starting after afterID.
	FindOrphanedReservations(ctx context.Context, olderThan time.Time, afterID int64, limit int) ([]int64, error)
	// ReleaseOrphaned re-checks the orphan condition and releases in one statement
	ReleaseOrphaned(ctx context.Context, id int64, olderThan time.Time) (bool, error)
}
