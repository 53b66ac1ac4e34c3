package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-booking-core/internal/converter"
	"clinic-booking-core/internal/delivery/dto"
	"clinic-booking-core/internal/delivery/http/middleware"
	"clinic-booking-core/internal/domain/apperror"
	"clinic-booking-core/internal/usecase"
	"clinic-booking-core/pkg/response"
	"clinic-booking-core/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
	log            *logrus.Logger
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator, log *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
		log:            log,
	}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetPatientIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), usecase.CreateBookingCommand{
		PatientID:   patientID,
		SlotID:      req.SlotID,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, r, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", converter.BookingToResponse(booking))
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetPatientIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.bookingUsecase.CancelBooking(r.Context(), usecase.CancelBookingCommand{
		BookingID:   bookingID,
		RequestedBy: patientID,
	})
	if err != nil {
		h.writeError(w, r, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", converter.BookingToResponse(booking))
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetPatientIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, r, err, "Failed to get booking")
		return
	}
	// hide other patients' bookings
	if booking.PatientID != patientID {
		response.NotFound(w, "Booking not found")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", converter.BookingToResponse(booking))
}

// writeError maps domain error kinds onto HTTP statuses
func (h *BookingHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErr *apperror.ValidationError
	if errors.As(err, &validationErr) {
		violations := make([]string, len(validationErr.Violations))
		for i, v := range validationErr.Violations {
			violations[i] = string(v)
		}
		response.BadRequest(w, "Validation failed", dto.ErrorDetail{
			Code:       string(apperror.CodeValidationFailed),
			Violations: violations,
		})
		return
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		h.log.WithField("request_id", middleware.GetRequestIDFromContext(r.Context())).
			Errorf("%s: %+v", fallback, err)
		response.InternalServerError(w, fallback)
		return
	}

	detail := dto.ErrorDetail{Code: string(appErr.Code)}
	switch appErr.Kind {
	case apperror.KindNotFound:
		response.Error(w, http.StatusNotFound, appErr.Message, detail)
	case apperror.KindConflict:
		response.Conflict(w, appErr.Message, detail)
	case apperror.KindInvalidInput:
		response.BadRequest(w, appErr.Message, detail)
	case apperror.KindPolicyViolation:
		if appErr.Code == apperror.CodeBookingNotOwned {
			response.Error(w, http.StatusForbidden, appErr.Message, detail)
			return
		}
		response.UnprocessableEntity(w, appErr.Message, detail)
	default:
		response.InternalServerError(w, fallback)
	}
}
