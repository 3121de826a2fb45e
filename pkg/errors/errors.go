package errors

import (
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	// Storage errors (quota exceeded, disk unavailable)
	ErrTypeStorage ErrorType = "storage"
	// Missing entity errors
	ErrTypeNotFound ErrorType = "not_found"
	// Validation errors
	ErrTypeValidation ErrorType = "validation"
	// Persisted data errors (corrupt or foreign blob)
	ErrTypeData ErrorType = "data"
	// Generic application errors
	ErrTypeApp ErrorType = "application"
)

// AppError represents a structured application error
type AppError struct {
	Type        ErrorType              `json:"type"`
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	UserMessage string                 `json:"userMessage"`
	InternalErr error                  `json:"-"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.InternalErr != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.InternalErr)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap exposes the wrapped error to errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.InternalErr
}

// Is matches two AppErrors on type and code so that sentinel errors survive
// WithContext/Wrap copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// GetUserMessage returns a user-friendly error message
func (e *AppError) GetUserMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return e.Message
}

// WithContext returns a copy of the error with added context information.
// Copying keeps the package-level sentinels immutable.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	c := *e
	c.Context = make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		c.Context[k] = v
	}
	c.Context[key] = value
	return &c
}

// WithUserMessage sets a user-friendly message
func (e *AppError) WithUserMessage(msg string) *AppError {
	e.UserMessage = msg
	return e
}

// New creates a new AppError
func New(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:        errType,
		Code:        code,
		Message:     message,
		InternalErr: err,
	}
}

// Predefined errors for common scenarios
var (
	// Storage errors
	ErrStorageUnavailable = New(ErrTypeStorage, "STORAGE_UNAVAILABLE", "storage write failed").
				WithUserMessage("Your changes could not be saved. Check disk space and permissions")

	// Missing entity errors
	ErrNoteNotFound = New(ErrTypeNotFound, "NOTE_NOT_FOUND", "note not found").
			WithUserMessage("The requested note could not be found")

	// Validation errors
	ErrInvalidIndex = New(ErrTypeValidation, "INVALID_INDEX", "reorder index out of range").
			WithUserMessage("Cannot move the note to that position")

	ErrEmptyTitle = New(ErrTypeValidation, "EMPTY_TITLE", "title cannot be empty").
			WithUserMessage("Give the note a title before saving")

	ErrInvalidColor = New(ErrTypeValidation, "INVALID_COLOR", "color not in palette").
			WithUserMessage("Pick one of the available note colors")

	ErrInvalidNoteID = New(ErrTypeValidation, "INVALID_NOTE_ID", "malformed note id").
				WithUserMessage("The note reference is invalid")

	// Persisted data errors
	ErrMalformedData = New(ErrTypeData, "MALFORMED_DATA", "persisted notes are not valid JSON").
				WithUserMessage("Stored notes were unreadable and have been set aside")
)
