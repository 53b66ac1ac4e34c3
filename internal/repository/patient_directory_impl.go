package repository

import (
	"context"
	"errors"

	domainRepo "clinic-booking-core/internal/domain/repository"
	"clinic-booking-core/internal/repository/model"

	"gorm.io/gorm"
)

type patientDirectory struct {
	db *gorm.DB
}

func NewPatientDirectory(db *gorm.DB) domainRepo.PatientDirectory {
	return &patientDirectory{db: db}
}

func (r *patientDirectory) FindIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	var record model.PatientRecord
	err := dbFrom(ctx, r.db).Select("id").Where("LOWER(email) = LOWER(?)", email).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return record.ID, true, nil
}
