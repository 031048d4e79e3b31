package errors

import "errors"

var (
	ErrNotFound = errors.New("notification not found")

	ErrNotRecipient = errors.New("notification is not addressed to this user")
)
