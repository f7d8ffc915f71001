package jobs

import (
	"encoding/json"
	"fmt"
	"strings"

	"job-tracker/internal/common/validation"
	"job-tracker/internal/jobstore"
)

// Decode checks doc against schema and unmarshals it into out. Schema
// violations and values the model rejects (such as 2024-02-30) come back as
// a *jobstore.ValidationError.
func Decode(schema *validation.Schema, doc map[string]interface{}, out interface{}) error {
	if doc == nil {
		doc = map[string]interface{}{}
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return fmt.Errorf("validate document: %w", err)
	}
	if !result.Valid {
		return jobstore.NewValidationError(result.Errors...)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return jobstore.NewValidationError(validation.ValidationError{
			Field:   "document",
			Message: err.Error(),
			Code:    validation.CodeInvalidFormat,
		})
	}
	return nil
}

// RequireID rejects a blank record id variable.
func RequireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return jobstore.NewValidationError(validation.ValidationError{
			Field:   field,
			Message: "is required",
			Code:    validation.CodeRequired,
		})
	}
	return nil
}
