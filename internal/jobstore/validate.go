package jobstore

import (
	"strings"

	"job-tracker/internal/common/validation"
	"job-tracker/internal/models"
)

// Validate checks a record against the field invariants and returns a
// *ValidationError naming every violation, or nil.
func Validate(job models.Job) error {
	var violations []validation.ValidationError

	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			violations = append(violations, validation.ValidationError{
				Field:   field,
				Message: "must not be empty",
				Code:    validation.CodeRequired,
			})
		}
	}
	required("company", job.Company)
	required("role", job.Role)
	required("platform", job.Platform)
	required("status", job.Status)

	if job.DateApplied.IsZero() {
		violations = append(violations, validation.ValidationError{
			Field:   "date_applied",
			Message: "must be a calendar date (YYYY-MM-DD)",
			Code:    validation.CodeRequired,
		})
	}

	switch {
	case job.NumInterviews < 0:
		violations = append(violations, validation.ValidationError{
			Field:   "num_interviews",
			Message: "must be zero or greater",
			Code:    validation.CodeOutOfRange,
		})
	case job.NumInterviews > 0 && !job.Interviewed:
		violations = append(violations, validation.ValidationError{
			Field:   "num_interviews",
			Message: "must be 0 when interviewed is false",
			Code:    validation.CodeInconsistent,
		})
	}

	if len(violations) > 0 {
		return NewValidationError(violations...)
	}
	return nil
}

// ValidateFilter rejects a date range whose start is after its end.
func ValidateFilter(f models.JobFilter) error {
	var violations []validation.ValidationError
	if !f.AppliedFrom.IsZero() && !f.AppliedTo.IsZero() && f.AppliedFrom.After(f.AppliedTo) {
		violations = append(violations, validation.ValidationError{
			Field:   "applied_from",
			Message: "must not be after applied_to",
			Code:    validation.CodeOutOfRange,
		})
	}
	if f.Limit < 0 {
		violations = append(violations, validation.ValidationError{
			Field:   "limit",
			Message: "must be zero or greater",
			Code:    validation.CodeOutOfRange,
		})
	}
	if len(violations) > 0 {
		return NewValidationError(violations...)
	}
	return nil
}
