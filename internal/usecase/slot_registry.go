package usecase

import (
	"context"
	"time"

	"clinic-booking-core/internal/domain/apperror"
	"clinic-booking-core/internal/domain/entity"
	"clinic-booking-core/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// SlotRegistry owns the exclusivity invariant over Slot.Available.
// Reserve and Release are the only code paths that flip the flag.
type SlotRegistry struct {
	tx       repository.Transactor
	log      *logrus.Logger
	slotRepo repository.SlotRepository
	loc      *time.Location
	now      func() time.Time
}

func NewSlotRegistry(
	tx repository.Transactor,
	log *logrus.Logger,
	slotRepo repository.SlotRepository,
	loc *time.Location,
	now func() time.Time,
) *SlotRegistry {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &SlotRegistry{
		tx:       tx,
		log:      log,
		slotRepo: slotRepo,
		loc:      loc,
		now:      now,
	}
}

// Get reads a slot without reserving it
func (r *SlotRegistry) Get(ctx context.Context, slotID int64) (*entity.Slot, error) {
	slot, err := r.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		r.log.Warnf("Failed to find slot %d: %+v", slotID, err)
		return nil, err
	}
	if slot == nil {
		return nil, apperror.ErrSlotNotFound
	}
	return slot, nil
}

// SlotsFor returns the slots a doctor published for one calendar date
func (r *SlotRegistry) SlotsFor(ctx context.Context, doctorID int64, date time.Time) ([]entity.Slot, error) {
	slots, err := r.slotRepo.FindByDoctorAndDate(ctx, doctorID, entity.CivilDate(date))
	if err != nil {
		r.log.Warnf("Failed to list slots for doctor %d on %s: %+v", doctorID, date.Format("2006-01-02"), err)
		return nil, err
	}
	return slots, nil
}

// Reserve claims the slot with a single conditional update and returns the reserved snapshot.
// Of any number of concurrent callers on the same slot exactly one succeeds.
func (r *SlotRegistry) Reserve(ctx context.Context, slotID int64) (*entity.Slot, error) {
	var reserved *entity.Slot

	err := r.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		ok, err := r.slotRepo.TryReserve(txCtx, slotID)
		if err != nil {
			r.log.Warnf("Failed to reserve slot %d: %+v", slotID, err)
			return err
		}

		slot, err := r.slotRepo.GetByID(txCtx, slotID)
		if err != nil {
			r.log.Warnf("Failed to read slot %d after reservation attempt: %+v", slotID, err)
			return err
		}
		if slot == nil {
			return apperror.ErrSlotNotFound
		}
		if !ok {
			return apperror.ErrSlotUnavailable
		}

		reserved = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reserved, nil
}

// Release reopens the slot. Releasing an available slot is a no-op.
func (r *SlotRegistry) Release(ctx context.Context, slotID int64) error {
	found, err := r.slotRepo.Release(ctx, slotID)
	if err != nil {
		r.log.Warnf("Failed to release slot %d: %+v", slotID, err)
		return err
	}
	if !found {
		return apperror.ErrSlotNotFound
	}
	return nil
}

// IsInPast compares the slot's start (date + start time, clinic zone) with now
func (r *SlotRegistry) IsInPast(slot *entity.Slot) bool {
	return slot.StartsAt(r.loc).Before(r.now())
}
