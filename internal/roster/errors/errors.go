package errors

import "errors"

var (
	ErrProfessionalNotFound = errors.New("professional not found")

	ErrUserNotFound = errors.New("user not found")

	ErrPasswordMismatch = errors.New("password does not match")
)
