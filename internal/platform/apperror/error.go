package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the custom error type for the application.
type AppError struct {
	Code         ErrorCode    // General system-level category (e.g., NOT_FOUND)
	BusinessCode BusinessCode // Specific business reason (e.g., POST_NOT_FOUND)
	Message      string       // Caller-facing message
	HTTPStatus   int          // HTTP status code
	Details      any          // Extra details (e.g., the offending field)
	Inner        error        // Wrapped underlying error, never shown to callers
}

func (e *AppError) Error() string { return e.Message }
func (e *AppError) Unwrap() error { return e.Inner }

// WithDetails returns a copy of the error carrying details.
// Package-level sentinels stay untouched.
func (e *AppError) WithDetails(details any) *AppError {
	c := *e
	c.Details = details
	return &c
}

// New creates a new AppError.
func New(code ErrorCode, bizCode BusinessCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, BusinessCode: bizCode, Message: message, HTTPStatus: httpStatus}
}

// Wrap creates a new AppError that wraps an existing error.
func Wrap(inner error, code ErrorCode, bizCode BusinessCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, BusinessCode: bizCode, Message: message, HTTPStatus: httpStatus, Inner: inner}
}

// Validation builds a 400 error for missing or malformed input.
func Validation(bizCode BusinessCode, message string) *AppError {
	return New(CodeValidationFailed, bizCode, message, http.StatusBadRequest)
}

// Unauthorized builds a 401 error for a missing or unusable credential.
func Unauthorized(bizCode BusinessCode, message string) *AppError {
	return New(CodeUnauthorized, bizCode, message, http.StatusUnauthorized)
}

// Forbidden builds a 403 error for an acting identity that may not mutate the target.
func Forbidden(bizCode BusinessCode, message string) *AppError {
	return New(CodeForbidden, bizCode, message, http.StatusForbidden)
}

// NotFound builds a 404 error.
func NotFound(bizCode BusinessCode, message string) *AppError {
	return New(CodeNotFound, bizCode, message, http.StatusNotFound)
}

// Internal wraps an unexpected failure. The message is generic on purpose;
// the cause only travels in Inner.
func Internal(inner error, message string) *AppError {
	return Wrap(inner, CodeInternalError, BusinessCodeGeneral, message, http.StatusInternalServerError)
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is allows errors.Is to work with AppError
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	// Match by both Code and BusinessCode for precise matching
	return e.Code == t.Code && e.BusinessCode == t.BusinessCode
}

// Format implements fmt.Formatter for better error output
func (e *AppError) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			_, _ = fmt.Fprintf(f, "Code: %s, BusinessCode: %s, Message: %s, HTTPStatus: %d",
				e.Code, e.BusinessCode, e.Message, e.HTTPStatus)
			if e.Inner != nil {
				_, _ = fmt.Fprintf(f, "\nCaused by: %+v", e.Inner)
			}
			if e.Details != nil {
				_, _ = fmt.Fprintf(f, "\nDetails: %+v", e.Details)
			}
		} else {
			_, _ = fmt.Fprint(f, e.Message)
		}
	case 's':
		_, _ = fmt.Fprint(f, e.Message)
	}
}
