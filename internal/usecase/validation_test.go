package usecase

import (
	"strings"
	"testing"
	"time"

	"clinic-booking-core/internal/domain/apperror"
	"clinic-booking-core/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) *time.Time {
	t := time.Date(2026, 10, 20, hour, minute, 0, 0, time.UTC)
	return &t
}

func atSecond(hour, minute, second int) *time.Time {
	t := time.Date(2026, 10, 20, hour, minute, second, 0, time.UTC)
	return &t
}

func TestValidationPipeline_Validate(t *testing.T) {
	p := NewValidationPipeline(DefaultValidationRules(), time.UTC)
	yesterday := testNow.AddDate(0, 0, -1)

	tests := []struct {
		name      string
		candidate BookingCandidate
		want      []apperror.Violation
	}{
		{
			name:      "minimal valid",
			candidate: BookingCandidate{DoctorID: 1},
		},
		{
			name:      "opening bound inclusive",
			candidate: BookingCandidate{DoctorID: 1, RequestedAt: at(8, 0)},
		},
		{
			name:      "closing bound inclusive",
			candidate: BookingCandidate{DoctorID: 1, RequestedAt: at(20, 0)},
		},
		{
			name:      "max description length",
			candidate: BookingCandidate{DoctorID: 1, Description: strPtr(strings.Repeat("ñ", 500))},
		},
		{
			name:      "missing doctor",
			candidate: BookingCandidate{},
			want:      []apperror.Violation{apperror.ViolationDoctorRequired},
		},
		{
			name:      "empty description",
			candidate: BookingCandidate{DoctorID: 1, Description: strPtr("\t \n")},
			want:      []apperror.Violation{apperror.ViolationDescriptionEmpty},
		},
		{
			name:      "description too long",
			candidate: BookingCandidate{DoctorID: 1, Description: strPtr(strings.Repeat("x", 501))},
			want:      []apperror.Violation{apperror.ViolationDescriptionTooLong},
		},
		{
			name:      "before opening",
			candidate: BookingCandidate{DoctorID: 1, RequestedAt: at(7, 30)},
			want:      []apperror.Violation{apperror.ViolationOutsideOperatingHours},
		},
		{
			name:      "after closing",
			candidate: BookingCandidate{DoctorID: 1, RequestedAt: at(20, 30)},
			want:      []apperror.Violation{apperror.ViolationOutsideOperatingHours},
		},
		{
			name:      "off the grid",
			candidate: BookingCandidate{DoctorID: 1, RequestedAt: at(9, 15)},
			want:      []apperror.Violation{apperror.ViolationInvalidTimeGranularity},
		},
		{
			name:      "seconds past closing",
			candidate: BookingCandidate{DoctorID: 1, RequestedAt: atSecond(20, 0, 45)},
			want: []apperror.Violation{
				apperror.ViolationOutsideOperatingHours,
				apperror.ViolationInvalidTimeGranularity,
			},
		},
		{
			name:      "seconds off the grid",
			candidate: BookingCandidate{DoctorID: 1, RequestedAt: atSecond(9, 30, 10)},
			want:      []apperror.Violation{apperror.ViolationInvalidTimeGranularity},
		},
		{
			name:      "in the past",
			candidate: BookingCandidate{DoctorID: 1, RequestedAt: &yesterday},
			want:      []apperror.Violation{apperror.ViolationDateInPast},
		},
		{
			name:      "every rule at once",
			candidate: BookingCandidate{Description: strPtr(""), RequestedAt: func() *time.Time { v := time.Date(2026, 10, 1, 21, 10, 0, 0, time.UTC); return &v }()},
			want: []apperror.Violation{
				apperror.ViolationDoctorRequired,
				apperror.ViolationDescriptionEmpty,
				apperror.ViolationDateInPast,
				apperror.ViolationOutsideOperatingHours,
				apperror.ViolationInvalidTimeGranularity,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Validate(tt.candidate, testNow)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) == 0, IsValid(got))
		})
	}
}

func TestValidationPipeline_EvaluatesHoursInClinicZone(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	if err != nil {
		t.Skip("tzdata not available")
	}
	p := NewValidationPipeline(DefaultValidationRules(), bogota)

	// 13:00 UTC is 08:00 in Bogotá
	requested := time.Date(2026, 10, 20, 13, 0, 0, 0, time.UTC)
	assert.Empty(t, p.Validate(BookingCandidate{DoctorID: 1, RequestedAt: &requested}, testNow))

	// 12:00 UTC is 07:00 in Bogotá
	early := time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)
	assert.Equal(t,
		[]apperror.Violation{apperror.ViolationOutsideOperatingHours},
		p.Validate(BookingCandidate{DoctorID: 1, RequestedAt: &early}, testNow),
	)
}

func TestNewValidationPipeline_FallsBackToDefaults(t *testing.T) {
	p := NewValidationPipeline(ValidationRules{
		OpeningTime: entity.MustParseClockTime("08:00"),
		ClosingTime: entity.MustParseClockTime("20:00"),
	}, nil)

	assert.Equal(t, DefaultSlotGranularity, p.rules.GranularityMinutes)
	assert.Equal(t, DefaultMaxDescriptionLength, p.rules.MaxDescriptionLength)
	assert.Equal(t, time.UTC, p.loc)
}
