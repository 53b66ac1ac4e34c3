package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingRecord is the storage shape of a booking.
// Postgres additionally enforces one active booking per slot with a partial unique index.
type BookingRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatientID   int64     `gorm:"not null;index"`
	DoctorID    int64     `gorm:"not null;index"`
	SlotID      int64     `gorm:"not null;index"`
	BookingDate time.Time `gorm:"type:date;not null"`
	StartTime   string    `gorm:"type:time;not null"`
	Shift       string    `gorm:"type:varchar(16);not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (BookingRecord) TableName() string {
	return "bookings"
}
