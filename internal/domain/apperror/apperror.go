package apperror

import (
	"errors"
	"strings"
)

// Kind groups error codes by how a caller should react to them
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInvalidInput    Kind = "invalid_input"
	KindPolicyViolation Kind = "policy_violation"
)

// Code identifies a single failure reason
type Code string

const (
	CodeSlotNotFound               Code = "slot_not_found"
	CodeBookingNotFound            Code = "booking_not_found"
	CodeDoctorNotFound             Code = "doctor_not_found"
	CodePatientNotFound            Code = "patient_not_found"
	CodeSlotUnavailable            Code = "slot_unavailable"
	CodeDuplicateBooking           Code = "duplicate_booking"
	CodeValidationFailed           Code = "validation_failed"
	CodeSlotInPast                 Code = "slot_in_past"
	CodeCancellationWindowViolated Code = "cancellation_window_violated"
	CodeAlreadyCancelled           Code = "already_cancelled"
	CodeInvalidStateTransition     Code = "invalid_state_transition"
	CodeBookingNotOwned            Code = "booking_not_owned"
)

// Error is a classified domain failure. Two errors are the same (errors.Is) when their codes match.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
}

func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrSlotNotFound    = New(KindNotFound, CodeSlotNotFound, "slot not found")
	ErrBookingNotFound = New(KindNotFound, CodeBookingNotFound, "booking not found")
	ErrDoctorNotFound  = New(KindNotFound, CodeDoctorNotFound, "doctor not found")
	ErrPatientNotFound = New(KindNotFound, CodePatientNotFound, "patient not found")

	ErrSlotUnavailable  = New(KindConflict, CodeSlotUnavailable, "slot is no longer available")
	ErrDuplicateBooking = New(KindConflict, CodeDuplicateBooking, "slot already has an active booking")

	ErrValidation = New(KindInvalidInput, CodeValidationFailed, "validation failed")
	ErrSlotInPast = New(KindInvalidInput, CodeSlotInPast, "cannot book a slot in the past")

	ErrCancellationWindowViolated = New(KindPolicyViolation, CodeCancellationWindowViolated, "booking can no longer be cancelled, minimum notice not met")
	ErrAlreadyCancelled           = New(KindPolicyViolation, CodeAlreadyCancelled, "booking is already cancelled")
	ErrInvalidStateTransition     = New(KindPolicyViolation, CodeInvalidStateTransition, "booking status does not allow this operation")
	ErrBookingNotOwned            = New(KindPolicyViolation, CodeBookingNotOwned, "booking does not belong to you")
)

// KindOf reports the kind of the first *Error in err's chain
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// CodeOf reports the code of the first *Error in err's chain
func CodeOf(err error) (Code, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// Violation is a single validation rule failure
type Violation string

const (
	ViolationPatientRequired        Violation = "PatientRequired"
	ViolationSlotRequired           Violation = "SlotRequired"
	ViolationDoctorRequired         Violation = "DoctorRequired"
	ViolationDescriptionEmpty       Violation = "DescriptionEmpty"
	ViolationDescriptionTooLong     Violation = "DescriptionTooLong"
	ViolationDateInPast             Violation = "DateInPast"
	ViolationOutsideOperatingHours  Violation = "OutsideOperatingHours"
	ViolationInvalidTimeGranularity Violation = "InvalidTimeGranularity"
)

// ValidationError carries every violation found for one request.
// It unwraps to ErrValidation so callers can match it with errors.Is.
type ValidationError struct {
	Violations []Violation
}

func NewValidationError(violations ...Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = string(v)
	}
	return ErrValidation.Message + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Has reports whether v is among the violations
func (e *ValidationError) Has(v Violation) bool {
	for _, got := range e.Violations {
		if got == v {
			return true
		}
	}
	return false
}
