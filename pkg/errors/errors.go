package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of application errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeConflict    ErrorType = "conflict"
	ErrorTypeUnavailable ErrorType = "unavailable"
	ErrorTypeInternal    ErrorType = "internal"
	ErrorTypeExternal    ErrorType = "external"
)

// AppError is a classified workflow failure. Title and Message are safe to
// show to the person who submitted the form.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"-"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is reports whether target is an AppError with the same type, title and
// message, so wrapped copies still match the sentinels declared by services.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Title == t.Title && e.Message == t.Message
}

// WithInternal returns a copy of e carrying the underlying cause
func (e *AppError) WithInternal(err error) *AppError {
	cp := *e
	cp.Internal = err
	return &cp
}

// WithDetails returns a copy of e carrying extra details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewValidationError creates a new validation error
func NewValidationError(title, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Title:      title,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(title, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Title:      title,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError creates an error for a remote uniqueness violation
func NewConflictError(title, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Title:      title,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewUnavailableError creates an error for a resource that exists but
// cannot be used in its current state
func NewUnavailableError(title, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Title:      title,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(title, message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Title:      title,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(title, message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Title:      title,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Internal:   internal,
	}
}

// As extracts an *AppError from err. Unclassified errors become internal.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Error", "An unexpected error occurred. Please try again.", err)
}

// ErrorBody is the JSON error payload
type ErrorBody struct {
	Type    ErrorType              `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Body converts the error into its JSON payload
func (e *AppError) Body() ErrorBody {
	return ErrorBody{
		Type:    e.Type,
		Title:   e.Title,
		Message: e.Message,
		Details: e.Details,
	}
}
