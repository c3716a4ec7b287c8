package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to clients alongside the message.
const (
	CodeInvalidOrderID = "INVALID_ORDER_ID"
	CodeNotFoundOrder  = "NOT_FOUND_ORDER"
	CodeNotFoundUser   = "NOT_FOUND_USER"
	CodeNotFound       = "NOT_FOUND"
	CodeBadRequest     = "BAD_REQUEST"
	CodeNotPayable     = "ORDER_NOT_PAYABLE"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL_ERROR"
)

// AppError is an error that already knows how it should be rendered.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFound(code, message string, err error) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: code, Message: message, Err: err}
}

func NewBadRequest(code, message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func NewUnprocessable(code, message string, err error) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Code: code, Message: message, Err: err}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

// AsAppError unwraps err into an AppError, if it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
