package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	SlotID int64  `json:"slot_id" validate:"required,min=1"`
	Note   string `json:"note" validate:"max=3"`
}

func TestCustomValidator_FormatsByJSONName(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Note: "too long"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "slot_id is required", errs["slot_id"])
	assert.Equal(t, "note must be at most 3 characters", errs["note"])
}

func TestCustomValidator_Valid(t *testing.T) {
	assert.NoError(t, NewValidator().Validate(sample{SlotID: 4, Note: "ok"}))
}
