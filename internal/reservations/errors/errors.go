package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrDailyLimit = errors.New("member already holds a training room reservation that day")

	ErrOutsideWindow = errors.New("start time is outside the member booking window")

	ErrNotScheduled = errors.New("reservation is no longer scheduled")

	ErrNotYetDue = errors.New("reservation date is in the future")

	ErrNotStaff = errors.New("only staff can mark attendance")

	ErrUnauthorizedCancellation = errors.New("actor may not cancel this reservation")

	ErrCancellationLocked = errors.New("reservation can no longer be cancelled by the member")

	ErrLockHeld = errors.New("lock is held by another operation")
)
