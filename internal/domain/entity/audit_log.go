package entity

import "time"

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64
	UserID    *int64
	Action    string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// Audit actions written by the reservation core
const (
	AuditActionBookingCreate = "booking.create"
	AuditActionBookingCancel = "booking.cancel"
)
