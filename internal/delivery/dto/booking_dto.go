package dto

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Request DTOs

type CreateBookingRequest struct {
	SlotID      int64   `json:"slot_id" validate:"required,min=1"`
	Description *string `json:"description"`
}

// Response DTOs

type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   int64     `json:"patient_id"`
	DoctorID    int64     `json:"doctor_id"`
	SlotID      int64     `json:"slot_id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	Shift       string    `json:"shift"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrorDetail is the machine-readable part of an error body
type ErrorDetail struct {
	Code       string   `json:"code"`
	Violations []string `json:"violations,omitempty"`
}
