package repository

import (
	"context"

	"clinic-booking-core/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	FindByID(ctx context.Context, id int64) (*entity.AuditLog, error)
}
