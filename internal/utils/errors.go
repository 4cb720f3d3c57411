package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies application errors so handlers can map them to HTTP
// responses in one place. Repositories and services return these; nothing is
// swallowed and nothing is retried.
type ErrorKind string

const (
	ErrorKindValidation     ErrorKind = "VALIDATION_ERROR"
	ErrorKindAuthentication ErrorKind = "AUTHENTICATION_ERROR"
	ErrorKindPermission     ErrorKind = "PERMISSION_ERROR"
	ErrorKindNotFound       ErrorKind = "NOT_FOUND"
	ErrorKindConflict       ErrorKind = "CONFLICT"
	ErrorKindCapacity       ErrorKind = "CAPACITY_ERROR"
	ErrorKindInternal       ErrorKind = "INTERNAL_ERROR"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(message string) *AppError {
	return &AppError{Kind: ErrorKindValidation, Message: message}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Kind: ErrorKindAuthentication, Message: message}
}

func NewPermissionError(message string) *AppError {
	return &AppError{Kind: ErrorKindPermission, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: ErrorKindNotFound, Message: resource + " not found"}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: ErrorKindConflict, Message: message}
}

func NewCapacityError(message string) *AppError {
	return &AppError{Kind: ErrorKindCapacity, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: ErrorKindInternal, Message: ErrInternalServer, Err: err}
}

// KindOf returns the classification of err, unwrapping as needed.
// Unclassified errors are internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrorKindInternal
}

// HTTPStatus maps an error kind to its HTTP-equivalent status code.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrorKindValidation:
		return http.StatusBadRequest
	case ErrorKindAuthentication:
		return http.StatusUnauthorized
	case ErrorKindPermission:
		return http.StatusForbidden
	case ErrorKindNotFound:
		return http.StatusNotFound
	case ErrorKindConflict, ErrorKindCapacity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
