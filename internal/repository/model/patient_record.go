package model

// PatientRecord is a read-only view of the identity service's patients table
type PatientRecord struct {
	ID    int64  `gorm:"primaryKey"`
	Email string `gorm:"type:varchar(255);uniqueIndex"`
}

func (PatientRecord) TableName() string {
	return "patients"
}
