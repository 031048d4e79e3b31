package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInvalidInput = "INVALID_INPUT"
	CodeRateLimited  = "RATE_LIMITED"

	CodeSlotUnavailable          = "SLOT_UNAVAILABLE"
	CodeInsufficientBalance      = "INSUFFICIENT_BALANCE"
	CodeDoubleBooking            = "DOUBLE_BOOKING"
	CodePastDate                 = "PAST_DATE"
	CodeDailyLimitExceeded       = "DAILY_LIMIT_EXCEEDED"
	CodeUnauthorizedCancellation = "UNAUTHORIZED_CANCELLATION"
	CodeInvalidAdminPassword     = "INVALID_ADMIN_PASSWORD"
	CodeInvalidStatusTransition  = "INVALID_STATUS_TRANSITION"
	CodeOutsideBookingWindow     = "OUTSIDE_BOOKING_WINDOW"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	response := ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
	data, _ := json.Marshal(response)
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func RateLimited(message string) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Booking rule rejections. Each wraps the domain sentinel so callers can
// match with errors.Is while the HTTP layer reads the status.

func SlotUnavailable(cause error, message string) *AppError {
	return Wrap(cause, CodeSlotUnavailable, message, http.StatusConflict)
}

func InsufficientBalance(cause error, message string) *AppError {
	return Wrap(cause, CodeInsufficientBalance, message, http.StatusConflict)
}

func DoubleBooking(cause error, message string) *AppError {
	return Wrap(cause, CodeDoubleBooking, message, http.StatusConflict)
}

func PastDate(cause error, message string) *AppError {
	return Wrap(cause, CodePastDate, message, http.StatusUnprocessableEntity)
}

func DailyLimitExceeded(cause error, message string) *AppError {
	return Wrap(cause, CodeDailyLimitExceeded, message, http.StatusConflict)
}

func UnauthorizedCancellation(cause error, message string) *AppError {
	return Wrap(cause, CodeUnauthorizedCancellation, message, http.StatusForbidden)
}

func InvalidAdminPassword(cause error, message string) *AppError {
	return Wrap(cause, CodeInvalidAdminPassword, message, http.StatusUnauthorized)
}

func InvalidStatusTransition(cause error, message string) *AppError {
	return Wrap(cause, CodeInvalidStatusTransition, message, http.StatusConflict)
}

func OutsideBookingWindow(cause error, message string) *AppError {
	return Wrap(cause, CodeOutsideBookingWindow, message, http.StatusUnprocessableEntity)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
