// Package availability decides whether an interval on a professional's
// calendar or a facility can be booked. It reads current state on every call.
package availability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	availabilityerrors "studiodesk/internal/availability/errors"
	"studiodesk/pkg/clock"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/model"
)

// ReservationReader is the slice of the reservation store the resolver needs.
// Both methods return scheduled, non-hidden reservations only.
type ReservationReader interface {
	FindScheduledOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Reservation, error)
	FindScheduledByMemberOverlapping(ctx context.Context, memberID string, start, end time.Time) ([]*model.Reservation, error)
}

type ProfessionalLookup interface {
	GetProfessional(ctx context.Context, id string) (*model.Professional, error)
}

// Facilities maps the singleton facility kinds to their resource ids.
type Facilities struct {
	TrainingRoomID string
	RentalRoomID   string
}

type Resolver struct {
	reservations  ReservationReader
	professionals ProfessionalLookup
	facilities    Facilities
	clock         clock.Clock
	loc           *time.Location
}

func NewResolver(reservations ReservationReader, professionals ProfessionalLookup, facilities Facilities, clk clock.Clock, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{
		reservations:  reservations,
		professionals: professionals,
		facilities:    facilities,
		clock:         clk,
		loc:           loc,
	}
}

// ResolveResource returns the resource a reservation of kind binds to.
// Facility kinds ignore the requested id.
func (r *Resolver) ResolveResource(kind model.ReservationKind, resourceID string) (string, error) {
	switch kind {
	case model.KindTrainingRoom:
		return r.facilities.TrainingRoomID, nil
	case model.KindRentalRoom:
		return r.facilities.RentalRoomID, nil
	}
	if resourceID == "" {
		return "", apperrors.Wrap(availabilityerrors.ErrMissingResource, apperrors.CodeInvalidInput,
			fmt.Sprintf("resource_id is required for %s reservations", kind), http.StatusBadRequest)
	}
	return resourceID, nil
}

// Check returns nil when q is bookable and a typed rejection otherwise.
// Rules apply in order: off-duty calendar, past start, resource overlap and,
// for the rental room, the member's own overlapping reservations.
func (r *Resolver) Check(ctx context.Context, q model.AvailabilityQuery) error {
	resourceID, err := r.ResolveResource(q.Kind, q.ResourceID)
	if err != nil {
		return err
	}
	q.ResourceID = resourceID
	start, end := q.Start, q.End()

	if q.Kind.UsesProfessional() {
		p, err := r.professionals.GetProfessional(ctx, q.ResourceID)
		if err != nil {
			return err
		}
		if !p.Kind.Serves(q.Kind) {
			return apperrors.Wrap(availabilityerrors.ErrWrongProfessional, apperrors.CodeInvalidInput,
				fmt.Sprintf("%s does not offer %s sessions", p.ID, q.Kind), http.StatusBadRequest)
		}
		day := start.In(r.loc)
		if p.IsOffDuty(day) {
			return apperrors.SlotUnavailable(availabilityerrors.ErrOffDuty,
				fmt.Sprintf("%s is off duty on %s", p.ID, day.Format(model.DateLayout)))
		}
	}

	if start.Before(r.clock.Now()) {
		return apperrors.PastDate(availabilityerrors.ErrPastStart, "Reservations cannot start in the past")
	}

	taken, err := r.reservations.FindScheduledOverlapping(ctx, q.ResourceID, start, end)
	if err != nil {
		return apperrors.Internal("Failed to check resource availability", err)
	}
	if len(taken) > 0 {
		return apperrors.SlotUnavailable(availabilityerrors.ErrSlotTaken, fmt.Sprintf(
			"The slot overlaps an existing reservation (%s - %s)",
			taken[0].StartTime.In(r.loc).Format(time.RFC3339),
			taken[0].EndTime.In(r.loc).Format(time.RFC3339),
		)).WithDetails(map[string]any{"resource_id": q.ResourceID})
	}

	if q.Kind == model.KindRentalRoom && q.MemberID != "" {
		own, err := r.reservations.FindScheduledByMemberOverlapping(ctx, q.MemberID, start, end)
		if err != nil {
			return apperrors.Internal("Failed to check member reservations", err)
		}
		if len(own) > 0 {
			return apperrors.DoubleBooking(availabilityerrors.ErrMemberOverlap,
				"You already have a reservation during this time").
				WithDetails(map[string]any{"reservation_id": own[0].ID})
		}
	}

	return nil
}

// IsAvailable reports the outcome of Check as a boolean. Rule rejections are
// false; lookup and storage failures are returned as errors.
func (r *Resolver) IsAvailable(ctx context.Context, q model.AvailabilityQuery) (bool, error) {
	err := r.Check(ctx, q)
	if err == nil {
		return true, nil
	}
	if isRejection(err) {
		return false, nil
	}
	return false, err
}

func isRejection(err error) bool {
	return errors.Is(err, availabilityerrors.ErrOffDuty) ||
		errors.Is(err, availabilityerrors.ErrPastStart) ||
		errors.Is(err, availabilityerrors.ErrSlotTaken) ||
		errors.Is(err, availabilityerrors.ErrMemberOverlap)
}
