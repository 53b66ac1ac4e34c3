package usecase

import (
	"context"
	"time"

	"clinic-booking-core/internal/domain/apperror"
	"clinic-booking-core/internal/domain/entity"
	"clinic-booking-core/internal/domain/gateway"
	"clinic-booking-core/internal/domain/repository"
	"clinic-booking-core/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultCompensationTimeout = 5 * time.Second

// CreateBookingCommand asks for slot SlotID on behalf of an authenticated patient
type CreateBookingCommand struct {
	PatientID   int64
	SlotID      int64
	Description *string
}

// CancelBookingCommand cancels a booking. RequestedBy is the authenticated patient,
// zero for administrative callers that may cancel any booking.
type CancelBookingCommand struct {
	BookingID   uuid.UUID
	RequestedBy int64
}

type BookingUsecase interface {
	CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*entity.Booking, error)
	CancelBooking(ctx context.Context, cmd CancelBookingCommand) (*entity.Booking, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error)
}

// BookingOptions carries the tunables of the booking flow
type BookingOptions struct {
	CompensationTimeout time.Duration
	Now                 func() time.Time
}

type bookingUsecase struct {
	tx                  repository.Transactor
	log                 *logrus.Logger
	slots               *SlotRegistry
	bookingRepo         repository.BookingRepository
	validation          *ValidationPipeline
	policy              CancellationPolicy
	auditService        service.AuditService
	notifier            gateway.NotificationGateway
	compensationTimeout time.Duration
	now                 func() time.Time
}

func NewBookingUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	slots *SlotRegistry,
	bookingRepo repository.BookingRepository,
	validation *ValidationPipeline,
	policy CancellationPolicy,
	auditService service.AuditService,
	notifier gateway.NotificationGateway,
	opts BookingOptions,
) BookingUsecase {
	if opts.CompensationTimeout <= 0 {
		opts.CompensationTimeout = defaultCompensationTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &bookingUsecase{
		tx:                  tx,
		log:                 log,
		slots:               slots,
		bookingRepo:         bookingRepo,
		validation:          validation,
		policy:              policy,
		auditService:        auditService,
		notifier:            notifier,
		compensationTimeout: opts.CompensationTimeout,
		now:                 opts.Now,
	}
}

// CreateBooking books a slot for a patient.
//
// Flow:
// 1. Read slot, reject missing or past slots (pre-check only, not the guard)
// 2. Run the validation pipeline
// 3. Reserve the slot atomically (the guard)
// 4. Defensive duplicate check against active bookings
// 5. Insert booking + audit entry in one transaction
// 6. If 4 or 5 fails -> compensate: release the slot
func (u *bookingUsecase) CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*entity.Booking, error) {
	var violations []apperror.Violation
	if cmd.PatientID <= 0 {
		violations = append(violations, apperror.ViolationPatientRequired)
	}
	if cmd.SlotID <= 0 {
		violations = append(violations, apperror.ViolationSlotRequired)
	}
	if len(violations) > 0 {
		return nil, apperror.NewValidationError(violations...)
	}

	// Step 1
	slot, err := u.slots.Get(ctx, cmd.SlotID)
	if err != nil {
		return nil, err
	}
	if u.slots.IsInPast(slot) {
		return nil, apperror.ErrSlotInPast
	}

	// Step 2
	now := u.now()
	violations = u.validation.Validate(BookingCandidate{
		DoctorID:    slot.DoctorID,
		Description: cmd.Description,
	}, now)
	if !IsValid(violations) {
		return nil, apperror.NewValidationError(violations...)
	}

	// Step 3
	reserved, err := u.slots.Reserve(ctx, cmd.SlotID)
	if err != nil {
		return nil, err
	}

	// Step 4: cannot happen while Reserve holds, guards against store drift
	existing, err := u.bookingRepo.FindActiveBySlot(ctx, reserved.ID)
	if err != nil {
		u.log.Warnf("Failed to check active bookings for slot %d: %+v", reserved.ID, err)
		u.releaseReservation(ctx, reserved.ID)
		return nil, err
	}
	if existing != nil {
		u.log.Errorf("Slot %d was reservable while booking %s is active on it", reserved.ID, existing.ID)
		u.releaseReservation(ctx, reserved.ID)
		return nil, apperror.ErrDuplicateBooking
	}

	// Step 5
	description := ""
	if cmd.Description != nil {
		description = *cmd.Description
	}
	booking := entity.NewBooking(cmd.PatientID, reserved, description, now)

	err = u.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := u.bookingRepo.Save(txCtx, booking); err != nil {
			return err
		}
		return u.auditService.LogCreate(txCtx, &booking.PatientID, entity.AuditActionBookingCreate, "booking", booking.ID.String(), auditSnapshot(booking))
	})
	if err != nil {
		// Step 6
		u.log.Errorf("Failed to persist booking for slot %d, compensating: %+v", reserved.ID, err)
		u.releaseReservation(ctx, reserved.ID)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"slot_id":    booking.SlotID,
		"patient_id": booking.PatientID,
		"doctor_id":  booking.DoctorID,
	}).Info("Booking created")

	u.emit(ctx, entity.BookingEventCreated, booking)
	return booking, nil
}

// CancelBooking cancels a booking and reopens its slot.
//
// Status change, slot release and audit entry commit together or not at all.
func (u *bookingUsecase) CancelBooking(ctx context.Context, cmd CancelBookingCommand) (*entity.Booking, error) {
	now := u.now()
	var cancelled *entity.Booking

	err := u.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		booking, err := u.bookingRepo.GetByID(txCtx, cmd.BookingID)
		if err != nil {
			u.log.Warnf("Failed to find booking %s: %+v", cmd.BookingID, err)
			return err
		}
		if booking == nil {
			return apperror.ErrBookingNotFound
		}

		if cmd.RequestedBy != 0 && booking.PatientID != cmd.RequestedBy {
			return apperror.ErrBookingNotOwned
		}

		switch {
		case booking.IsCancelled():
			return apperror.ErrAlreadyCancelled
		case booking.IsCompleted(), !booking.IsActive():
			return apperror.ErrInvalidStateTransition
		}

		if !u.policy.CanCancel(booking, now) {
			return apperror.ErrCancellationWindowViolated
		}

		previous := booking.Status
		booking.Cancel(now)

		updated, err := u.bookingRepo.UpdateStatus(txCtx, booking, previous)
		if err != nil {
			u.log.Warnf("Failed to cancel booking %s: %+v", booking.ID, err)
			return err
		}
		if !updated {
			// a concurrent cancel won
			return apperror.ErrAlreadyCancelled
		}

		if err := u.slots.Release(txCtx, booking.SlotID); err != nil {
			return err
		}

		var actor *int64
		if cmd.RequestedBy != 0 {
			actor = &cmd.RequestedBy
		}
		if err := u.auditService.LogUpdate(txCtx, actor, entity.AuditActionBookingCancel, "booking", booking.ID.String(),
			map[string]interface{}{"status": previous},
			map[string]interface{}{"status": booking.Status},
		); err != nil {
			return err
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"booking_id": cancelled.ID,
		"slot_id":    cancelled.SlotID,
		"patient_id": cancelled.PatientID,
	}).Info("Booking cancelled")

	u.emit(ctx, entity.BookingEventCancelled, cancelled)
	return cancelled, nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := u.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, apperror.ErrBookingNotFound
	}
	return booking, nil
}

// releaseReservation undoes a reservation after a failed booking. It runs detached from
// the request's cancellation so a client disconnect cannot leave the slot claimed.
func (u *bookingUsecase) releaseReservation(ctx context.Context, slotID int64) {
	compCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.compensationTimeout)
	defer cancel()

	if err := u.slots.Release(compCtx, slotID); err != nil {
		u.log.Errorf("CRITICAL: Failed to release slot %d after failed booking: %+v", slotID, err)
	}
}

// emit is best-effort: the booking is already committed
func (u *bookingUsecase) emit(ctx context.Context, eventType entity.BookingEventType, booking *entity.Booking) {
	if u.notifier == nil {
		return
	}
	event := entity.NewBookingEvent(eventType, booking, u.now())
	if err := u.notifier.Emit(ctx, event); err != nil {
		u.log.Warnf("Failed to emit %s for booking %s (non-fatal): %+v", eventType, booking.ID, err)
	}
}

func auditSnapshot(b *entity.Booking) map[string]interface{} {
	return map[string]interface{}{
		"patient_id": b.PatientID,
		"doctor_id":  b.DoctorID,
		"slot_id":    b.SlotID,
		"date":       b.Date.Format("2006-01-02"),
		"start_time": b.StartTime.String(),
		"shift":      b.Shift,
		"status":     b.Status,
	}
}
