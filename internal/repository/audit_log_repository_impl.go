package repository

import (
	"context"
	"errors"

	"clinic-booking-core/internal/converter"
	"clinic-booking-core/internal/domain/entity"
	domainRepo "clinic-booking-core/internal/domain/repository"
	"clinic-booking-core/internal/repository/model"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	record := converter.AuditLogEntityToRecord(log)
	if err := dbFrom(ctx, r.db).Create(record).Error; err != nil {
		return err
	}
	log.ID = record.ID
	log.CreatedAt = record.CreatedAt
	return nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	var record model.AuditLogRecord
	err := dbFrom(ctx, r.db).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return converter.AuditLogRecordToEntity(&record), nil
}
