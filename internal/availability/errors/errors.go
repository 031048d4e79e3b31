package errors

import "errors"

var (
	ErrOffDuty = errors.New("professional is off duty on that date")

	ErrPastStart = errors.New("start time is in the past")

	ErrSlotTaken = errors.New("interval overlaps a scheduled reservation")

	ErrMemberOverlap = errors.New("member already holds an overlapping reservation")

	ErrWrongProfessional = errors.New("professional does not offer this kind of session")

	ErrMissingResource = errors.New("resource id is required")
)
