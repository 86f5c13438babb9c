package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest           ErrorCode = "BAD_REQUEST"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation           ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidState         ErrorCode = "INVALID_STATE"
	ErrCodeZeroBalance          ErrorCode = "ZERO_BALANCE"
	ErrCodeConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED"
	ErrCodeInsufficientFunds    ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeDataAccess           ErrorCode = "DATA_ACCESS_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match any AppError carrying the same code, so wrapped
// copies of a sentinel still compare equal to it.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code && e.Message == other.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeInvalidState, ErrCodeConfirmationRequired:
		return http.StatusConflict
	case ErrCodeZeroBalance, ErrCodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsInvalidState(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeInvalidState
}

func IsZeroBalance(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeZeroBalance
}

// Domain sentinels shared across repositories and services.
var (
	ErrPayoutNotFound       = New(ErrCodeNotFound, "payout request not found")
	ErrHoldNotFound         = New(ErrCodeNotFound, "payout hold not found")
	ErrVendorNotFound       = New(ErrCodeNotFound, "vendor not found")
	ErrUserNotFound         = New(ErrCodeNotFound, "user not found")
	ErrPayoutNotPending     = New(ErrCodeInvalidState, "payout request has already been processed")
	ErrZeroBalance          = New(ErrCodeZeroBalance, "adjusted payout amount is zero, approval blocked by active holds")
	ErrConfirmationRequired = New(ErrCodeConfirmationRequired, "adjusted amount differs from requested amount, confirmation required")
	ErrInsufficientFunds    = New(ErrCodeInsufficientFunds, "insufficient available balance")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "authorization required")
	ErrForbidden            = New(ErrCodeForbidden, "insufficient permissions")
	ErrInvalidCredentials   = New(ErrCodeUnauthorized, "invalid credentials")
)
