package usecase

import (
	"strings"
	"time"
	"unicode/utf8"

	"clinic-booking-core/internal/domain/apperror"
	"clinic-booking-core/internal/domain/entity"
)

const (
	DefaultOpeningTime          = "08:00"
	DefaultClosingTime          = "20:00"
	DefaultSlotGranularity      = 30
	DefaultMaxDescriptionLength = 500
)

// ValidationRules configures the booking validation pipeline
type ValidationRules struct {
	OpeningTime          entity.ClockTime
	ClosingTime          entity.ClockTime
	GranularityMinutes   int
	MaxDescriptionLength int
}

func DefaultValidationRules() ValidationRules {
	return ValidationRules{
		OpeningTime:          entity.MustParseClockTime(DefaultOpeningTime),
		ClosingTime:          entity.MustParseClockTime(DefaultClosingTime),
		GranularityMinutes:   DefaultSlotGranularity,
		MaxDescriptionLength: DefaultMaxDescriptionLength,
	}
}

// BookingCandidate is what the pipeline judges. Description and RequestedAt are
// optional: nil means the field is not part of this request.
type BookingCandidate struct {
	DoctorID    int64
	Description *string
	RequestedAt *time.Time
}

type validationRule func(p *ValidationPipeline, c BookingCandidate, now time.Time) apperror.Violation

// ValidationPipeline checks a candidate against the clinic's business rules.
// It is pure: no storage access, the caller passes now.
type ValidationPipeline struct {
	rules ValidationRules
	loc   *time.Location
	steps []validationRule
}

func NewValidationPipeline(rules ValidationRules, loc *time.Location) *ValidationPipeline {
	if rules.GranularityMinutes <= 0 {
		rules.GranularityMinutes = DefaultSlotGranularity
	}
	if rules.MaxDescriptionLength <= 0 {
		rules.MaxDescriptionLength = DefaultMaxDescriptionLength
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ValidationPipeline{
		rules: rules,
		loc:   loc,
		steps: []validationRule{
			checkDoctor,
			checkDescription,
			checkNotInPast,
			checkOperatingHours,
			checkGranularity,
		},
	}
}

// Validate runs every rule and returns all violations found
func (p *ValidationPipeline) Validate(c BookingCandidate, now time.Time) []apperror.Violation {
	var violations []apperror.Violation
	for _, step := range p.steps {
		if v := step(p, c, now); v != "" {
			violations = append(violations, v)
		}
	}
	return violations
}

// IsValid reports whether a Validate result carries no violations
func IsValid(violations []apperror.Violation) bool {
	return len(violations) == 0
}

func checkDoctor(_ *ValidationPipeline, c BookingCandidate, _ time.Time) apperror.Violation {
	if c.DoctorID <= 0 {
		return apperror.ViolationDoctorRequired
	}
	return ""
}

func checkDescription(p *ValidationPipeline, c BookingCandidate, _ time.Time) apperror.Violation {
	if c.Description == nil {
		return ""
	}
	if strings.TrimSpace(*c.Description) == "" {
		return apperror.ViolationDescriptionEmpty
	}
	if utf8.RuneCountInString(*c.Description) > p.rules.MaxDescriptionLength {
		return apperror.ViolationDescriptionTooLong
	}
	return ""
}

func checkNotInPast(_ *ValidationPipeline, c BookingCandidate, now time.Time) apperror.Violation {
	if c.RequestedAt != nil && c.RequestedAt.Before(now) {
		return apperror.ViolationDateInPast
	}
	return ""
}

// both bounds inclusive: 20:00 is still bookable
func checkOperatingHours(p *ValidationPipeline, c BookingCandidate, _ time.Time) apperror.Violation {
	if c.RequestedAt == nil {
		return ""
	}
	local := c.RequestedAt.In(p.loc)
	clock := entity.ClockOf(local)
	if clock.Before(p.rules.OpeningTime) || clock.After(p.rules.ClosingTime) {
		return apperror.ViolationOutsideOperatingHours
	}
	// 20:00:45 is past closing even though its minute is not
	if clock == p.rules.ClosingTime && offMinute(local) {
		return apperror.ViolationOutsideOperatingHours
	}
	return ""
}

func checkGranularity(p *ValidationPipeline, c BookingCandidate, _ time.Time) apperror.Violation {
	if c.RequestedAt == nil {
		return ""
	}
	local := c.RequestedAt.In(p.loc)
	if local.Minute()%p.rules.GranularityMinutes != 0 || offMinute(local) {
		return apperror.ViolationInvalidTimeGranularity
	}
	return ""
}

// offMinute reports whether t carries seconds past its minute
func offMinute(t time.Time) bool {
	return t.Second() != 0 || t.Nanosecond() != 0
}
