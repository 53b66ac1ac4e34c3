package repository

import (
	"context"

	"clinic-booking-core/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingRepository is the persistence port for appointments.
// Lookups return (nil, nil) when nothing matches.
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindActiveBySlot(ctx context.Context, slotID int64) (*entity.Booking, error)
	Save(ctx context.Context, booking *entity.Booking) error
	// UpdateStatus transitions the booking only if it is still in status from.
	// Returns false when another writer got there first.
	UpdateStatus(ctx context.Context, booking *entity.Booking, from entity.BookingStatus) (bool, error)
}
