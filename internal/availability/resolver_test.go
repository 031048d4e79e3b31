package availability

import (
	"context"
	"testing"
	"time"

	availabilityerrors "studiodesk/internal/availability/errors"
	"studiodesk/pkg/clock"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReservations struct {
	scheduled []*model.Reservation
}

func (f *fakeReservations) FindScheduledOverlapping(_ context.Context, resourceID string, start, end time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range f.scheduled {
		if r.ResourceID == resourceID && r.Overlaps(start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) FindScheduledByMemberOverlapping(_ context.Context, memberID string, start, end time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range f.scheduled {
		if r.MemberID == memberID && r.Overlaps(start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeProfessionals map[string]*model.Professional

func (f fakeProfessionals) GetProfessional(_ context.Context, id string) (*model.Professional, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFoundWithID("Professional", id)
}

// Monday 2 March 2026, 09:00 UTC.
var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

func reservation(id string, kind model.ReservationKind, member, resource string, start time.Time, minutes int) *model.Reservation {
	return &model.Reservation{
		ID:              id,
		Kind:            kind,
		MemberID:        member,
		ResourceID:      resource,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Status:          model.StatusScheduled,
	}
}

func newResolver(scheduled ...*model.Reservation) *Resolver {
	professionals := fakeProfessionals{
		"p1": {ID: "p1", Kind: model.ProfessionalInstructor, WeeklyDaysOff: []int{0}, OneTimeDaysOff: []string{"2026-03-04"}},
		"c1": {ID: "c1", Kind: model.ProfessionalMentalCoach},
	}
	return NewResolver(
		&fakeReservations{scheduled: scheduled},
		professionals,
		Facilities{TrainingRoomID: "gym", RentalRoomID: "studio"},
		clock.NewFixed(now),
		time.UTC,
	)
}

func TestCheck(t *testing.T) {
	existing := []*model.Reservation{
		reservation("r1", model.KindLesson, "m1", "p1", at(3, 10, 0), 50),
		reservation("r2", model.KindMental, "m2", "c1", at(3, 13, 0), 50),
	}

	tests := []struct {
		name    string
		query   model.AvailabilityQuery
		wantErr error
		code    string
	}{
		{
			name:  "free slot",
			query: model.AvailabilityQuery{ResourceID: "p1", Kind: model.KindLesson, Start: at(3, 11, 0), DurationMinutes: 30},
		},
		{
			name:  "back to back is allowed",
			query: model.AvailabilityQuery{ResourceID: "p1", Kind: model.KindLesson, Start: at(3, 10, 50), DurationMinutes: 30},
		},
		{
			name:    "overlapping lesson",
			query:   model.AvailabilityQuery{ResourceID: "p1", Kind: model.KindLesson, Start: at(3, 10, 30), DurationMinutes: 50},
			wantErr: availabilityerrors.ErrSlotTaken,
			code:    apperrors.CodeSlotUnavailable,
		},
		{
			name:    "weekly day off",
			query:   model.AvailabilityQuery{ResourceID: "p1", Kind: model.KindLesson, Start: at(8, 10, 0), DurationMinutes: 30},
			wantErr: availabilityerrors.ErrOffDuty,
			code:    apperrors.CodeSlotUnavailable,
		},
		{
			name:    "one time day off",
			query:   model.AvailabilityQuery{ResourceID: "p1", Kind: model.KindLesson, Start: at(4, 10, 0), DurationMinutes: 30},
			wantErr: availabilityerrors.ErrOffDuty,
			code:    apperrors.CodeSlotUnavailable,
		},
		{
			name:    "past start",
			query:   model.AvailabilityQuery{ResourceID: "p1", Kind: model.KindLesson, Start: at(2, 8, 0), DurationMinutes: 30},
			wantErr: availabilityerrors.ErrPastStart,
			code:    apperrors.CodePastDate,
		},
		{
			name:    "wrong professional kind",
			query:   model.AvailabilityQuery{ResourceID: "c1", Kind: model.KindLesson, Start: at(3, 15, 0), DurationMinutes: 30},
			wantErr: availabilityerrors.ErrWrongProfessional,
			code:    apperrors.CodeInvalidInput,
		},
		{
			name:    "missing professional id",
			query:   model.AvailabilityQuery{Kind: model.KindMental, Start: at(3, 15, 0), DurationMinutes: 50},
			wantErr: availabilityerrors.ErrMissingResource,
			code:    apperrors.CodeInvalidInput,
		},
		{
			name:    "rental member overlap",
			query:   model.AvailabilityQuery{Kind: model.KindRentalRoom, MemberID: "m1", Start: at(3, 10, 30), DurationMinutes: 60},
			wantErr: availabilityerrors.ErrMemberOverlap,
			code:    apperrors.CodeDoubleBooking,
		},
		{
			name:  "training room ignores member overlap",
			query: model.AvailabilityQuery{Kind: model.KindTrainingRoom, MemberID: "m1", Start: at(3, 10, 30), DurationMinutes: 60},
		},
	}

	r := newResolver(existing...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Check(context.Background(), tt.query)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, apperrors.HasCode(err, tt.code))
		})
	}
}

func TestCheck_FacilityUsesConfiguredID(t *testing.T) {
	r := newResolver(reservation("r1", model.KindTrainingRoom, "m9", "gym", at(3, 18, 0), 60))

	err := r.Check(context.Background(), model.AvailabilityQuery{
		ResourceID:      "anything",
		Kind:            model.KindTrainingRoom,
		Start:           at(3, 18, 30),
		DurationMinutes: 30,
	})
	assert.ErrorIs(t, err, availabilityerrors.ErrSlotTaken)
}

func TestIsAvailable(t *testing.T) {
	r := newResolver(reservation("r1", model.KindLesson, "m1", "p1", at(3, 10, 0), 50))
	ctx := context.Background()

	ok, err := r.IsAvailable(ctx, model.AvailabilityQuery{ResourceID: "p1", Kind: model.KindLesson, Start: at(3, 10, 0), DurationMinutes: 30})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.IsAvailable(ctx, model.AvailabilityQuery{ResourceID: "p1", Kind: model.KindLesson, Start: at(3, 12, 0), DurationMinutes: 30})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.IsAvailable(ctx, model.AvailabilityQuery{ResourceID: "ghost", Kind: model.KindLesson, Start: at(3, 12, 0), DurationMinutes: 30})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
