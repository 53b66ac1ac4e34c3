package converter

import (
	"clinic-booking-core/internal/domain/entity"
	"clinic-booking-core/internal/repository/model"
)

func AuditLogEntityToRecord(log *entity.AuditLog) *model.AuditLogRecord {
	return &model.AuditLogRecord{
		ID:        log.ID,
		UserID:    log.UserID,
		Action:    log.Action,
		Metadata:  model.JSON(log.Metadata),
		CreatedAt: log.CreatedAt,
	}
}

func AuditLogRecordToEntity(record *model.AuditLogRecord) *entity.AuditLog {
	if record == nil {
		return nil
	}

	return &entity.AuditLog{
		ID:        record.ID,
		UserID:    record.UserID,
		Action:    record.Action,
		Metadata:  map[string]interface{}(record.Metadata),
		CreatedAt: record.CreatedAt,
	}
}
