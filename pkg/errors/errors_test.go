package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  New(CodeNotFound, "reservation not found", http.StatusNotFound),
			want: "NOT_FOUND: reservation not found",
		},
		{
			name: "with cause",
			err:  Wrap(errors.New("connection refused"), CodeInternal, "store failed", http.StatusInternalServerError),
			want: "INTERNAL_ERROR: store failed (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root")
	err := Wrap(cause, CodeInternal, "wrapped", http.StatusInternalServerError)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Reservation", "abc")

	assert.Equal(t, CodeNotFound, err.Code)
	assert.Equal(t, http.StatusNotFound, err.StatusCode())
	assert.Equal(t, "Reservation not found", err.Message)
	assert.Equal(t, "abc", err.Details["id"])
}

func TestDomainConstructors(t *testing.T) {
	sentinel := errors.New("sentinel")

	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"slot unavailable", SlotUnavailable(sentinel, "m"), CodeSlotUnavailable, http.StatusConflict},
		{"insufficient balance", InsufficientBalance(sentinel, "m"), CodeInsufficientBalance, http.StatusConflict},
		{"double booking", DoubleBooking(sentinel, "m"), CodeDoubleBooking, http.StatusConflict},
		{"past date", PastDate(sentinel, "m"), CodePastDate, http.StatusUnprocessableEntity},
		{"daily limit", DailyLimitExceeded(sentinel, "m"), CodeDailyLimitExceeded, http.StatusConflict},
		{"unauthorized cancellation", UnauthorizedCancellation(sentinel, "m"), CodeUnauthorizedCancellation, http.StatusForbidden},
		{"invalid admin password", InvalidAdminPassword(sentinel, "m"), CodeInvalidAdminPassword, http.StatusUnauthorized},
		{"invalid status transition", InvalidStatusTransition(sentinel, "m"), CodeInvalidStatusTransition, http.StatusConflict},
		{"outside booking window", OutsideBookingWindow(sentinel, "m"), CodeOutsideBookingWindow, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.ErrorIs(t, tt.err, sentinel)
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("taken")
	wrapped := fmt.Errorf("create: %w", appErr)

	require.True(t, IsAppError(wrapped))
	assert.Same(t, appErr, AsAppError(wrapped))

	plain := errors.New("boom")
	assert.False(t, IsAppError(plain))
	got := AsAppError(plain)
	assert.Equal(t, CodeInternal, got.Code)
	assert.Same(t, plain, got.Err)
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", PastDate(nil, "in the past"))

	assert.True(t, HasCode(err, CodePastDate))
	assert.False(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodePastDate))
}

func TestAppError_ToJSON(t *testing.T) {
	data := NotFoundWithID("Reservation", "42").ToJSON()

	assert.Contains(t, string(data), `"code":"NOT_FOUND"`)
	assert.Contains(t, string(data), `"id":"42"`)
	assert.NotContains(t, string(data), "caused by")
}
