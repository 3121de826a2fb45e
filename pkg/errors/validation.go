package errors

import (
	"strings"

	"notedeck/pkg/utils"
)

// ValidationResult holds validation results
type ValidationResult struct {
	IsValid bool
	Errors  []*AppError
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(err *AppError) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, err)
}

// GetFirstError returns the first error or nil
func (vr *ValidationResult) GetFirstError() *AppError {
	if len(vr.Errors) > 0 {
		return vr.Errors[0]
	}
	return nil
}

// Validator provides validation utilities
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateNoteID validates the shape of a note id.
func (v *Validator) ValidateNoteID(id string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	if !utils.IsValidNoteID(id) {
		result.AddError(ErrInvalidNoteID.WithContext("noteId", id))
	}

	return result
}

// ValidateTitle validates that a title is non-empty after trimming.
// Only finalized notes are held to this; drafts may transiently be empty.
func (v *Validator) ValidateTitle(title string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	if strings.TrimSpace(title) == "" {
		result.AddError(ErrEmptyTitle)
	}

	return result
}

// ValidateReorder validates that both indices address the collection.
func (v *Validator) ValidateReorder(from, to, length int) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	if from < 0 || from >= length {
		result.AddError(ErrInvalidIndex.WithContext("fromIndex", from).WithContext("length", length))
	}
	if to < 0 || to >= length {
		result.AddError(ErrInvalidIndex.WithContext("toIndex", to).WithContext("length", length))
	}

	return result
}
