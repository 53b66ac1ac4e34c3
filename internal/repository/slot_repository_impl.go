package repository

import (
	"context"
	"errors"
	"time"

	"clinic-booking-core/internal/converter"
	"clinic-booking-core/internal/domain/entity"
	domainRepo "clinic-booking-core/internal/domain/repository"
	"clinic-booking-core/internal/repository/model"

	"gorm.io/gorm"
)

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) domainRepo.SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) GetByID(ctx context.Context, id int64) (*entity.Slot, error) {
	var record model.SlotRecord
	err := dbFrom(ctx, r.db).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return converter.SlotRecordToEntity(&record)
}

func (r *slotRepository) FindByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]entity.Slot, error) {
	var records []model.SlotRecord
	err := dbFrom(ctx, r.db).
		Where("doctor_id = ? AND slot_date = ?", doctorID, entity.CivilDate(date)).
		Order("start_time ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return converter.SlotRecordsToEntities(records)
}

// TryReserve flips the flag ONLY if the slot is still available.
// RowsAffected: 1 = reserved by us, 0 = missing or taken (prevents double-booking race).
func (r *slotRepository) TryReserve(ctx context.Context, id int64) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&model.SlotRecord{}).
		Where("id = ? AND available = ?", id, true).
		Update("available", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *slotRepository) Release(ctx context.Context, id int64) (bool, error) {
	db := dbFrom(ctx, r.db)

	var count int64
	if err := db.Model(&model.SlotRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}

	err := db.Model(&model.SlotRecord{}).
		Where("id = ?", id).
		Update("available", true).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// orphanedScope selects reserved slots without an active booking
func (r *slotRepository) orphanedScope(ctx context.Context, olderThan time.Time) *gorm.DB {
	db := dbFrom(ctx, r.db)
	active := db.Session(&gorm.Session{NewDB: true}).Model(&model.BookingRecord{}).
		Select("1").
		Where("bookings.slot_id = slots.id AND LOWER(bookings.status) IN ?", activeStatusLiterals)

	return db.Model(&model.SlotRecord{}).
		Where("slots.available = ? AND slots.updated_at < ?", false, olderThan).
		Where("NOT EXISTS (?)", active)
}

func (r *slotRepository) FindOrphanedReservations(ctx context.Context, olderThan time.Time, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	err := r.orphanedScope(ctx, olderThan).
		Where("slots.id > ?", afterID).
		Order("slots.id ASC").
		Limit(limit).
		Pluck("slots.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *slotRepository) ReleaseOrphaned(ctx context.Context, id int64, olderThan time.Time) (bool, error) {
	result := r.orphanedScope(ctx, olderThan).
		Where("slots.id = ?", id).
		Update("available", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
