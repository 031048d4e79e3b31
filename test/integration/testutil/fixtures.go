package testutil

import (
	"testing"
	"time"

	"studiodesk/pkg/model"
)

const AdminPassword = "front-desk-secret"

var (
	Admin  = model.Actor{ID: "it-admin", Role: model.RoleAdmin}
	Member = model.Actor{ID: "it-member", Role: model.RoleMember}
	Coach  = model.Actor{ID: "it-coach", Role: model.RoleInstructor}
)

// SeedStudio stores the admin, one instructor with no days off and one
// member holding the given balances.
func (m *MongoHelper) SeedStudio(t *testing.T, balances model.Balances) {
	t.Helper()
	now := time.Now().UTC()
	m.InsertUser(t, &model.User{ID: Admin.ID, Name: "Front Desk", Role: model.RoleAdmin, CreatedAt: now}, AdminPassword)
	m.InsertUser(t, &model.User{ID: Coach.ID, Name: "Coach", Role: model.RoleInstructor, CreatedAt: now}, "")
	m.InsertProfessional(t, &model.Professional{
		ID:             Coach.ID,
		Name:           "Coach",
		Kind:           model.ProfessionalInstructor,
		WeeklyDaysOff:  []int{},
		OneTimeDaysOff: []string{},
	})
	m.InsertMember(t, &model.Member{ID: Member.ID, Name: "Member", Balances: balances, UpdatedAt: now})
}

// Tomorrow returns 10:00 UTC on the next calendar day, rounded so the
// service's booking window and same-day rules never interfere.
func Tomorrow() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 10, 0, 0, 0, time.UTC)
}

type ReservationBuilder struct {
	req model.ReservationCreate
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		req: model.ReservationCreate{
			MemberID:        Member.ID,
			Kind:            model.KindLesson,
			ResourceID:      Coach.ID,
			StartTime:       Tomorrow(),
			DurationMinutes: 50,
		},
	}
}

func (b *ReservationBuilder) WithKind(kind model.ReservationKind) *ReservationBuilder {
	b.req.Kind = kind
	if !kind.UsesProfessional() {
		b.req.ResourceID = ""
	}
	return b
}

func (b *ReservationBuilder) WithDuration(minutes int) *ReservationBuilder {
	b.req.DurationMinutes = minutes
	return b
}

func (b *ReservationBuilder) At(start time.Time) *ReservationBuilder {
	b.req.StartTime = start
	return b
}

func (b *ReservationBuilder) Build() model.ReservationCreate {
	return b.req
}
