// Package policy holds the role rules for reservations as pure functions of
// the actor, the reservation and the current time.
package policy

import (
	"net/http"
	"time"

	reservationerrors "studiodesk/internal/reservations/errors"
	"studiodesk/pkg/clock"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/model"
)

type Action string

const (
	ActionDelete Action = "delete"
	ActionHide   Action = "hide"
)

// Decision is the outcome of a removal request.
type Decision struct {
	Action           Action
	Refund           bool
	RequiresPassword bool
}

// DecideCancellation applies the removal rules in priority order:
//
//  1. admin, terminal or already ended reservation: hide
//  2. admin, scheduled, ticket consuming: delete and refund, password required
//  3. admin, scheduled training room: delete
//  4. owner: scheduled only; ticket consuming kinds lock on their start date
//  5. anyone else: rejected
//
// A scheduled reservation whose end has passed counts as terminal even before
// the sweep marks it, so its ticket stays spent.
//
// now must be in the studio's location.
func DecideCancellation(actor model.Actor, r *model.Reservation, now time.Time) (Decision, error) {
	refundable := r.TicketsDebited > 0 && r.Ticket != ""
	finished := r.Status.IsTerminal() || ended(r, now)

	if actor.Role == model.RoleAdmin {
		switch {
		case finished:
			return Decision{Action: ActionHide}, nil
		case r.Kind.ConsumesTicket():
			return Decision{Action: ActionDelete, Refund: refundable, RequiresPassword: true}, nil
		default:
			return Decision{Action: ActionDelete}, nil
		}
	}

	if actor.ID != r.MemberID {
		return Decision{}, apperrors.UnauthorizedCancellation(reservationerrors.ErrUnauthorizedCancellation,
			"Only the member or an administrator can cancel this reservation")
	}
	if finished {
		return Decision{}, apperrors.UnauthorizedCancellation(reservationerrors.ErrNotScheduled,
			"Completed reservations cannot be cancelled")
	}
	if r.Kind.ConsumesTicket() && onOrBefore(r.StartTime, now) {
		return Decision{}, apperrors.UnauthorizedCancellation(reservationerrors.ErrCancellationLocked,
			"Reservations can only be cancelled before their day")
	}
	return Decision{Action: ActionDelete, Refund: refundable}, nil
}

// AuthorizeStatusUpdate checks a manual attendance mark. Any staff member may
// mark any reservation once its day has come.
func AuthorizeStatusUpdate(actor model.Actor, r *model.Reservation, status model.ReservationStatus, now time.Time) error {
	if !actor.Role.IsStaff() {
		return apperrors.Wrap(reservationerrors.ErrNotStaff, apperrors.CodeForbidden,
			"Only staff can mark attendance", http.StatusForbidden)
	}
	if !status.IsTerminal() {
		return apperrors.InvalidStatusTransition(reservationerrors.ErrNotScheduled,
			"Status can only move to attended or absent")
	}
	if r.Status.IsTerminal() {
		return apperrors.InvalidStatusTransition(reservationerrors.ErrNotScheduled,
			"Reservation status is already "+string(r.Status))
	}
	if !onOrBefore(r.StartTime, now) {
		return apperrors.InvalidStatusTransition(reservationerrors.ErrNotYetDue,
			"Attendance can only be marked on or after the reservation day")
	}
	return nil
}

// AuthorizeBooking checks who may book for whom and, for members, the
// booking window of today through today+windowDays.
func AuthorizeBooking(actor model.Actor, memberID string, start, now time.Time, windowDays int) error {
	if actor.Role.IsStaff() {
		return nil
	}
	if actor.ID != memberID {
		return apperrors.Forbidden("Members can only book for themselves")
	}

	today := clock.StartOfDay(now)
	last := today.AddDate(0, 0, windowDays+1)
	day := start.In(now.Location())
	if day.Before(today) || !day.Before(last) {
		return apperrors.OutsideBookingWindow(reservationerrors.ErrOutsideWindow,
			"Reservations can be made from today up to "+last.AddDate(0, 0, -1).Format(model.DateLayout)).
			WithDetails(map[string]any{"window_days": windowDays})
	}
	return nil
}

// ScopeListing restricts a listing to what actor may see. Members only see
// their own reservations and only admins see hidden history.
func ScopeListing(actor model.Actor, f model.ReservationFilter) (model.ReservationFilter, error) {
	if f.IncludeHidden && actor.Role != model.RoleAdmin {
		return f, apperrors.Forbidden("Only administrators can list hidden reservations")
	}
	if actor.Role.IsStaff() {
		return f, nil
	}
	if f.MemberID != "" && f.MemberID != actor.ID {
		return f, apperrors.Forbidden("Members can only list their own reservations")
	}
	f.MemberID = actor.ID
	return f, nil
}

// CanView reports whether actor may read a single reservation.
func CanView(actor model.Actor, r *model.Reservation) bool {
	if r.Hidden && actor.Role != model.RoleAdmin {
		return false
	}
	return actor.Role.IsStaff() || actor.ID == r.MemberID
}

func ended(r *model.Reservation, now time.Time) bool {
	return !r.EndTime.IsZero() && !r.EndTime.After(now)
}

func onOrBefore(start, now time.Time) bool {
	return !clock.StartOfDay(start.In(now.Location())).After(clock.StartOfDay(now))
}
