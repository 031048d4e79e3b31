package errors

import "errors"

var (
	ErrMemberNotFound = errors.New("member not found")

	ErrInsufficientBalance = errors.New("insufficient ticket balance")

	ErrInvalidTicket = errors.New("unknown ticket type")

	ErrInvalidQuantity = errors.New("ticket quantity must be positive")
)
