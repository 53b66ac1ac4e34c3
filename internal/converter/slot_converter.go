package converter

import (
	"fmt"

	"clinic-booking-core/internal/domain/entity"
	"clinic-booking-core/internal/repository/model"
)

// SlotRecordToEntity converts a stored slot row to the domain Slot
func SlotRecordToEntity(record *model.SlotRecord) (*entity.Slot, error) {
	if record == nil {
		return nil, nil
	}

	shift, ok := entity.ParseShift(record.Shift)
	if !ok {
		return nil, fmt.Errorf("slot %d: unknown shift %q", record.ID, record.Shift)
	}
	start, err := entity.ParseClockTime(record.StartTime)
	if err != nil {
		return nil, fmt.Errorf("slot %d: start time: %w", record.ID, err)
	}
	end, err := entity.ParseClockTime(record.EndTime)
	if err != nil {
		return nil, fmt.Errorf("slot %d: end time: %w", record.ID, err)
	}

	return &entity.Slot{
		ID:        record.ID,
		DoctorID:  record.DoctorID,
		Date:      entity.CivilDate(record.SlotDate),
		Shift:     shift,
		StartTime: start,
		EndTime:   end,
		Available: record.Available,
	}, nil
}

// SlotRecordsToEntities converts a slice of slot rows, failing on the first malformed one
func SlotRecordsToEntities(records []model.SlotRecord) ([]entity.Slot, error) {
	slots := make([]entity.Slot, 0, len(records))
	for i := range records {
		slot, err := SlotRecordToEntity(&records[i])
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}
	return slots, nil
}

// SlotEntityToRecord is used by seeders and tests; the core never inserts slots
func SlotEntityToRecord(slot *entity.Slot) *model.SlotRecord {
	return &model.SlotRecord{
		ID:        slot.ID,
		DoctorID:  slot.DoctorID,
		SlotDate:  entity.CivilDate(slot.Date),
		Shift:     string(slot.Shift),
		StartTime: slot.StartTime.String(),
		EndTime:   slot.EndTime.String(),
		Available: slot.Available,
	}
}
