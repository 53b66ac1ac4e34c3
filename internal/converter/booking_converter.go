package converter

import (
	"fmt"

	"clinic-booking-core/internal/delivery/dto"
	"clinic-booking-core/internal/domain/entity"
	"clinic-booking-core/internal/repository/model"
)

// BookingRecordToEntity converts a stored booking row, normalizing legacy status and shift literals
func BookingRecordToEntity(record *model.BookingRecord) (*entity.Booking, error) {
	if record == nil {
		return nil, nil
	}

	status, ok := entity.ParseBookingStatus(record.Status)
	if !ok {
		return nil, fmt.Errorf("booking %s: unknown status %q", record.ID, record.Status)
	}
	shift, ok := entity.ParseShift(record.Shift)
	if !ok {
		return nil, fmt.Errorf("booking %s: unknown shift %q", record.ID, record.Shift)
	}
	start, err := entity.ParseClockTime(record.StartTime)
	if err != nil {
		return nil, fmt.Errorf("booking %s: start time: %w", record.ID, err)
	}

	return &entity.Booking{
		ID:          record.ID,
		PatientID:   record.PatientID,
		DoctorID:    record.DoctorID,
		SlotID:      record.SlotID,
		Date:        entity.CivilDate(record.BookingDate),
		StartTime:   start,
		Shift:       shift,
		Description: record.Description,
		Status:      status,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

// BookingEntityToRecord always writes canonical literals
func BookingEntityToRecord(booking *entity.Booking) *model.BookingRecord {
	return &model.BookingRecord{
		ID:          booking.ID,
		PatientID:   booking.PatientID,
		DoctorID:    booking.DoctorID,
		SlotID:      booking.SlotID,
		BookingDate: entity.CivilDate(booking.Date),
		StartTime:   booking.StartTime.String(),
		Shift:       string(booking.Shift),
		Description: booking.Description,
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}
}

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	return &dto.BookingResponse{
		ID:          booking.ID,
		PatientID:   booking.PatientID,
		DoctorID:    booking.DoctorID,
		SlotID:      booking.SlotID,
		Date:        booking.Date.Format(dto.DateLayout),
		StartTime:   booking.StartTime.String(),
		Shift:       string(booking.Shift),
		Description: booking.Description,
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}
}
