package validator

import (
	"testing"
	"time"

	"studiodesk/pkg/model"
	"studiodesk/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreate(t *testing.T) {
	v := NewReservationValidator()
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		req    model.ReservationCreate
		fields []string
	}{
		{
			name: "lesson 50",
			req:  model.ReservationCreate{MemberID: "m1", Kind: model.KindLesson, ResourceID: "p1", StartTime: start, DurationMinutes: 50},
		},
		{
			name: "training room any length",
			req:  model.ReservationCreate{MemberID: "m1", Kind: model.KindTrainingRoom, StartTime: start, DurationMinutes: 90},
		},
		{
			name: "lesson length is priced later",
			req:  model.ReservationCreate{MemberID: "m1", Kind: model.KindLesson, ResourceID: "p1", StartTime: start, DurationMinutes: 45},
		},
		{
			name:   "unknown kind and missing member",
			req:    model.ReservationCreate{Kind: "sauna", StartTime: start, DurationMinutes: 30},
			fields: []string{"member_id", "kind"},
		},
		{
			name:   "missing start and too short",
			req:    model.ReservationCreate{MemberID: "m1", Kind: model.KindRentalRoom, DurationMinutes: 5},
			fields: []string{"start_time", "duration_minutes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCreate(&tt.req)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			var got []string
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestTicket(t *testing.T) {
	v := NewReservationValidator()

	tests := []struct {
		kind    model.ReservationKind
		minutes int
		want    model.TicketType
		invalid bool
	}{
		{model.KindLesson, 30, model.TicketLesson30, false},
		{model.KindLesson, 50, model.TicketLesson50, false},
		{model.KindLesson, 60, "", true},
		{model.KindMental, 50, model.TicketMental, false},
		{model.KindRentalRoom, 120, model.TicketRental, false},
		{model.KindTrainingRoom, 90, "", false},
	}

	for _, tt := range tests {
		ticket, err := v.Ticket(&model.ReservationCreate{Kind: tt.kind, DurationMinutes: tt.minutes})
		if tt.invalid {
			var errs validation.Errors
			require.ErrorAs(t, err, &errs, "%s %d", tt.kind, tt.minutes)
			require.Len(t, errs, 1)
			assert.Equal(t, "duration_minutes", errs[0].Field)
			assert.Equal(t, "duration_minutes must be 30 or 50 for lessons", errs[0].Message)
			continue
		}
		require.NoError(t, err, "%s %d", tt.kind, tt.minutes)
		assert.Equal(t, tt.want, ticket)
	}
}

func TestValidateStatus(t *testing.T) {
	v := NewReservationValidator()

	assert.NoError(t, v.ValidateStatus(&model.StatusUpdate{Status: model.StatusAbsent}))
	assert.Error(t, v.ValidateStatus(&model.StatusUpdate{Status: model.StatusScheduled}))
}
