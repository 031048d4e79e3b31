package model

import (
	"errors"
	"time"
)

type ReservationKind string

const (
	KindLesson       ReservationKind = "lesson"
	KindMental       ReservationKind = "mental"
	KindTrainingRoom ReservationKind = "training_room"
	KindRentalRoom   ReservationKind = "rental_room"
)

// UsesProfessional reports whether the kind is bound to a professional's
// calendar rather than a facility.
func (k ReservationKind) UsesProfessional() bool {
	return k == KindLesson || k == KindMental
}

func (k ReservationKind) ConsumesTicket() bool {
	return k != KindTrainingRoom
}

type ReservationStatus string

const (
	StatusScheduled ReservationStatus = "scheduled"
	StatusAttended  ReservationStatus = "attended"
	StatusAbsent    ReservationStatus = "absent"
)

func (s ReservationStatus) IsTerminal() bool {
	return s == StatusAttended || s == StatusAbsent
}

var ErrUnsupportedLessonDuration = errors.New("lesson duration must be 30 or 50 minutes")

// TicketFor returns the ticket a reservation of kind k and the given length
// consumes. Training room bookings consume nothing and yield an empty type.
func TicketFor(k ReservationKind, durationMinutes int) (TicketType, error) {
	switch k {
	case KindLesson:
		switch durationMinutes {
		case 30:
			return TicketLesson30, nil
		case 50:
			return TicketLesson50, nil
		}
		return "", ErrUnsupportedLessonDuration
	case KindMental:
		return TicketMental, nil
	case KindRentalRoom:
		return TicketRental, nil
	}
	return "", nil
}

type Reservation struct {
	ID              string            `json:"id" bson:"_id"`
	Kind            ReservationKind   `json:"kind" bson:"kind"`
	MemberID        string            `json:"member_id" bson:"member_id"`
	ResourceID      string            `json:"resource_id" bson:"resource_id"`
	StartTime       time.Time         `json:"start_time" bson:"start_time"`
	EndTime         time.Time         `json:"end_time" bson:"end_time"`
	DurationMinutes int               `json:"duration_minutes" bson:"duration_minutes"`
	Status          ReservationStatus `json:"status" bson:"status"`
	Hidden          bool              `json:"hidden" bson:"hidden"`
	Ticket          TicketType        `json:"ticket,omitempty" bson:"ticket,omitempty"`
	TicketsDebited  int               `json:"tickets_debited" bson:"tickets_debited"`
	CreatedBy       string            `json:"created_by" bson:"created_by"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}

func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && r.EndTime.After(start)
}

// ReservationCreate is the booking request. ResourceID is ignored for
// facility kinds, which always resolve to the configured facility.
type ReservationCreate struct {
	MemberID        string          `json:"member_id" validate:"required,max=64"`
	Kind            ReservationKind `json:"kind" validate:"required,oneof=lesson mental training_room rental_room"`
	ResourceID      string          `json:"resource_id,omitempty" validate:"max=64"`
	StartTime       time.Time       `json:"start_time" validate:"required"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,min=10,max=480"`
}

type StatusUpdate struct {
	Status ReservationStatus `json:"status" validate:"required,oneof=attended absent"`
}

// ReservationFilter narrows a listing. Zero values mean "any".
type ReservationFilter struct {
	MemberID      string
	ResourceID    string
	Kind          ReservationKind
	Status        ReservationStatus
	From          time.Time
	To            time.Time
	IncludeHidden bool
	Limit         int
	Offset        int64
}

// AvailabilityQuery asks whether an interval on a resource is bookable.
// MemberID enables the member-level overlap guard for rental bookings.
type AvailabilityQuery struct {
	ResourceID      string
	Kind            ReservationKind
	Start           time.Time
	DurationMinutes int
	MemberID        string
}

func (q AvailabilityQuery) End() time.Time {
	return q.Start.Add(time.Duration(q.DurationMinutes) * time.Minute)
}

// ReservationLock is an advisory lock document. A duplicate insert means the
// key is held.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
