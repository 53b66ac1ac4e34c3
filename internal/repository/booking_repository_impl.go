package repository

import (
	"context"
	"errors"

	"clinic-booking-core/internal/converter"
	"clinic-booking-core/internal/domain/apperror"
	"clinic-booking-core/internal/domain/entity"
	domainRepo "clinic-booking-core/internal/domain/repository"
	"clinic-booking-core/internal/repository/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Legacy rows may carry any of these literals, in any casing, for an active booking.
// Match them against LOWER(status).
var activeStatusLiterals = entity.StatusLiterals(entity.BookingStatusActive)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) domainRepo.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var record model.BookingRecord
	err := dbFrom(ctx, r.db).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return converter.BookingRecordToEntity(&record)
}

func (r *bookingRepository) FindActiveBySlot(ctx context.Context, slotID int64) (*entity.Booking, error) {
	var record model.BookingRecord
	err := dbFrom(ctx, r.db).
		Where("slot_id = ? AND LOWER(status) IN ?", slotID, activeStatusLiterals).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return converter.BookingRecordToEntity(&record)
}

func (r *bookingRepository) Save(ctx context.Context, booking *entity.Booking) error {
	record := converter.BookingEntityToRecord(booking)
	if err := dbFrom(ctx, r.db).Create(record).Error; err != nil {
		if isDuplicateKeyError(err) {
			return apperror.ErrDuplicateBooking
		}
		return err
	}
	booking.CreatedAt = record.CreatedAt
	booking.UpdatedAt = record.UpdatedAt
	return nil
}

// UpdateStatus moves the booking ONLY if it still has status from.
// RowsAffected: 1 = success, 0 = someone else changed it first (prevents double-cancel race).
func (r *bookingRepository) UpdateStatus(ctx context.Context, booking *entity.Booking, from entity.BookingStatus) (bool, error) {
	literals := entity.StatusLiterals(from)
	if len(literals) == 0 {
		literals = []string{string(from)}
	}

	result := dbFrom(ctx, r.db).Model(&model.BookingRecord{}).
		Where("id = ? AND LOWER(status) IN ?", booking.ID, literals).
		Updates(map[string]interface{}{
			"status":     string(booking.Status),
			"updated_at": booking.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// isDuplicateKeyError checks for the Postgres unique_violation code
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
