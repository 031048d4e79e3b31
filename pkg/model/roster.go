package model

import "time"

type Role string

const (
	RoleMember      Role = "member"
	RoleInstructor  Role = "instructor"
	RoleMentalCoach Role = "mental_coach"
	RoleAdmin       Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleInstructor, RoleMentalCoach, RoleAdmin:
		return true
	}
	return false
}

func (r Role) IsStaff() bool {
	return r == RoleInstructor || r == RoleMentalCoach || r == RoleAdmin
}

// Actor is the caller of an operation as asserted by the gateway.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Role         Role      `json:"role" bson:"role"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

type ProfessionalKind string

const (
	ProfessionalInstructor  ProfessionalKind = "instructor"
	ProfessionalMentalCoach ProfessionalKind = "mental_coach"
)

// Serves reports whether the professional can be booked for kind k.
func (k ProfessionalKind) Serves(kind ReservationKind) bool {
	switch k {
	case ProfessionalInstructor:
		return kind == KindLesson
	case ProfessionalMentalCoach:
		return kind == KindMental
	}
	return false
}

const DateLayout = "2006-01-02"

type Professional struct {
	ID             string           `json:"id" bson:"_id"`
	Name           string           `json:"name" bson:"name"`
	Kind           ProfessionalKind `json:"kind" bson:"kind"`
	WeeklyDaysOff  []int            `json:"weekly_days_off" bson:"weekly_days_off"`
	OneTimeDaysOff []string         `json:"one_time_days_off" bson:"one_time_days_off"`
}

// IsOffDuty reports whether day falls on a weekly day off (0 = Sunday) or a
// one-time date off. The date is taken in day's own location.
func (p *Professional) IsOffDuty(day time.Time) bool {
	weekday := int(day.Weekday())
	for _, d := range p.WeeklyDaysOff {
		if d == weekday {
			return true
		}
	}
	date := day.Format(DateLayout)
	for _, d := range p.OneTimeDaysOff {
		if d == date {
			return true
		}
	}
	return false
}
