// Package errors provides the structured error type used by the widget host.
//
// Widgets themselves have no failure modes beyond rejecting impossible
// interactions; the host wraps those, plus configuration and fixture
// problems, in a WidgetError so handlers can log them with context and map
// them to an HTTP status.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeFixturesInvalid  = "ERR_FIXTURES_INVALID"
	ErrCodeFixturesRead     = "ERR_FIXTURES_READ"
	ErrCodeSessionNotFound  = "ERR_SESSION_NOT_FOUND"
	ErrCodeWidgetNotFound   = "ERR_WIDGET_NOT_FOUND"
	ErrCodeColumnNotFound   = "ERR_COLUMN_NOT_FOUND"
	ErrCodeRowOutOfRange    = "ERR_ROW_OUT_OF_RANGE"
	ErrCodeActionRejected   = "ERR_ACTION_REJECTED"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
)

// WidgetError is a structured error type with context.
type WidgetError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
	Widget  string
}

// Error implements the error interface.
func (e *WidgetError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Widget != "" {
		parts = append(parts, "widget:"+e.Widget)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause error.
func (e *WidgetError) Unwrap() error {
	return e.Cause
}

// Is matches another WidgetError with the same type and code.
func (e *WidgetError) Is(target error) bool {
	var t *WidgetError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context information to the error.
func (e *WidgetError) WithContext(key string, value interface{}) *WidgetError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithWidget records which widget the error concerns.
func (e *WidgetError) WithWidget(widget string) *WidgetError {
	e.Widget = widget
	return e
}

// Fields flattens the error into key/value pairs for the structured logger.
func (e *WidgetError) Fields() []interface{} {
	fields := []interface{}{"error_type", string(e.Type), "code", e.Code}
	if e.Widget != "" {
		fields = append(fields, "widget", e.Widget)
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *WidgetError {
	return &WidgetError{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewNotFoundError creates an error for a missing session, widget or column.
func NewNotFoundError(code, message string) *WidgetError {
	return &WidgetError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *WidgetError {
	return &WidgetError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *WidgetError {
	return &WidgetError{Type: ErrorTypeConfig, Code: code, Message: message}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *WidgetError {
	return &WidgetError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// Wrap converts any error into a WidgetError, keeping existing ones.
func Wrap(err error, code, message string) *WidgetError {
	if err == nil {
		return nil
	}
	var we *WidgetError
	if errors.As(err, &we) {
		return we
	}
	return NewInternalError(code, message, err)
}

// HTTPStatus maps an error to the status a handler should answer with.
func HTTPStatus(err error) int {
	var we *WidgetError
	if !errors.As(err, &we) {
		return http.StatusInternalServerError
	}
	switch we.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound reports whether err is a not-found WidgetError.
func IsNotFound(err error) bool {
	var we *WidgetError
	return errors.As(err, &we) && we.Type == ErrorTypeNotFound
}

// Logger is the subset of the structured logger the handler needs.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// ErrorHandler logs errors at a level that matches their type.
type ErrorHandler struct {
	logger Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err. Client mistakes are warnings, everything else is an
// error.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var we *WidgetError
	if !errors.As(err, &we) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	switch we.Type {
	case ErrorTypeValidation, ErrorTypeNotFound:
		h.logger.Warn(ctx, we, "Rejected widget action", we.Fields()...)
	default:
		h.logger.Error(ctx, we, "Widget host error", we.Fields()...)
	}
}

// FieldValidationError describes one invalid configuration field.
type FieldValidationError struct {
	FieldName    string
	FieldValue   interface{}
	ErrorMessage string
	HelpText     []string
}

// Error implements the error interface.
func (fve *FieldValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", fve.FieldName, fve.ErrorMessage)
}

// NewFieldValidationError creates a new field validation error.
func NewFieldValidationError(field string, value interface{}, message string, suggestions ...string) *FieldValidationError {
	return &FieldValidationError{
		FieldName:    field,
		FieldValue:   value,
		ErrorMessage: message,
		HelpText:     suggestions,
	}
}

// ValidationErrorCollection represents a collection of validation errors.
type ValidationErrorCollection struct {
	Errors []*FieldValidationError
}

// Error implements the error interface.
func (vec *ValidationErrorCollection) Error() string {
	switch len(vec.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return vec.Errors[0].Error()
	default:
		return fmt.Sprintf("validation failed with %d errors", len(vec.Errors))
	}
}

// AddField adds a field validation error to the collection.
func (vec *ValidationErrorCollection) AddField(field string, value interface{}, message string, suggestions ...string) {
	vec.Errors = append(vec.Errors, NewFieldValidationError(field, value, message, suggestions...))
}

// HasErrors returns true if there are any validation errors.
func (vec *ValidationErrorCollection) HasErrors() bool {
	return len(vec.Errors) > 0
}

// ToWidgetError converts the collection to a single config error, nil when
// the collection is empty.
func (vec *ValidationErrorCollection) ToWidgetError() *WidgetError {
	if !vec.HasErrors() {
		return nil
	}

	messages := make([]string, 0, len(vec.Errors))
	err := NewConfigError(ErrCodeConfigInvalid, "")
	for _, fe := range vec.Errors {
		messages = append(messages, fe.Error())
		err.WithContext(fe.FieldName, fe.FieldValue)
	}
	err.Message = strings.Join(messages, "; ")
	return err
}
