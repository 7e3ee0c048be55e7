// Package errors provides the standardized error taxonomy reported to API
// callers. Every failure surfaced by a service is one of these kinds; the
// HTTP adapter maps kinds to status codes and serializes the structured
// payload unchanged.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation         Kind = "VALIDATION"
	KindDependencyNotFound Kind = "DEPENDENCY_NOT_FOUND"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidState       Kind = "INVALID_STATE"
	KindConflict           Kind = "CONFLICT"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindUpstream           Kind = "UPSTREAM"
	KindInternal           Kind = "INTERNAL"
)

// FieldError carries a field-level detail. Value is only set for conflict
// errors, where it holds the offending value that violated a unique index.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error is the structured application error.
type Error struct {
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`

	// UpstreamStatus holds the HTTP status of a failed outbound call, passed
	// through to the caller unchanged.
	UpstreamStatus int `json:"-"`

	cause error
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s (%d field errors)", e.Kind, e.Message, len(e.Fields))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// ==========================
// Constructors
// ==========================

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func ValidationFields(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func DependencyNotFound(message string) *Error {
	return &Error{Kind: KindDependencyNotFound, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func Conflict(fields []FieldError) *Error {
	return &Error{Kind: KindConflict, Message: "unique constraint violated", Fields: fields}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Upstream(status int, message string) *Error {
	return &Error{Kind: KindUpstream, Message: message, UpstreamStatus: status}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// FromValidation converts an ozzo-validation error into a field-level
// validation error. Fields are sorted for stable payloads.
func FromValidation(err error) *Error {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return Validation(err.Error())
	}
	fields := make([]FieldError, 0, len(verrs))
	for name, ferr := range verrs {
		fields = append(fields, FieldError{Field: name, Message: ferr.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return ValidationFields(fields)
}

// ==========================
// Inspection helpers
// ==========================

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// AsError extracts the structured error, wrapping foreign errors as internal.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal error", err)
}

// HTTPStatus maps an error kind to the status code written by the API layer.
func HTTPStatus(err error) int {
	e := AsError(err)
	switch e.Kind {
	case KindValidation, KindDependencyNotFound, KindInvalidState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUpstream:
		if e.UpstreamStatus > 0 {
			return e.UpstreamStatus
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
