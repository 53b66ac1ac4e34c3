package model

import "time"

// SlotRecord is the storage shape of a slot. Schedule management owns inserts.
type SlotRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	DoctorID  int64     `gorm:"not null;index:idx_slots_doctor_date,priority:1"`
	SlotDate  time.Time `gorm:"type:date;not null;index:idx_slots_doctor_date,priority:2"`
	Shift     string    `gorm:"type:varchar(16);not null"`
	StartTime string    `gorm:"type:time;not null"`
	EndTime   string    `gorm:"type:time;not null"`
	Available bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SlotRecord) TableName() string {
	return "slots"
}
