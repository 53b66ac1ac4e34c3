package service

import (
	"context"

	"clinic-booking-core/internal/domain/entity"
	"clinic-booking-core/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// AuditService writes audit entries. Pass the transaction-scoped ctx so the entry
// commits or rolls back together with the change it describes.
type AuditService interface {
	LogCreate(ctx context.Context, userID *int64, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, userID *int64, action string, entityName string, entityID string, oldValue, newValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, userID *int64, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, userID, action, map[string]interface{}{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, userID *int64, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, userID, action, map[string]interface{}{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": newValue,
	})
}

func (s *auditService) write(ctx context.Context, userID *int64, action string, metadata map[string]interface{}) error {
	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
