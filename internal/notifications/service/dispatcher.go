package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studiodesk/internal/notifications/bus"
	"studiodesk/internal/notifications/repository"
	"studiodesk/pkg/clock"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/metrics"
	"studiodesk/pkg/model"
	"studiodesk/pkg/sanitizer"
	"studiodesk/pkg/validation"

	"github.com/google/uuid"
)

type AdminDirectory interface {
	GetAllAdmins(ctx context.Context) ([]*model.User, error)
}

// Event is a reservation state change worth telling people about.
type Event struct {
	Kind        model.NotificationKind
	Reservation *model.Reservation
	Actor       model.Actor
}

// Dispatcher turns reservation events into per-recipient notifications.
// Record stores them inside the caller's transaction; Publish hands them to
// the bus once the change is committed.
type Dispatcher struct {
	notifications repository.NotificationRepository
	admins        AdminDirectory
	publisher     bus.Publisher
	validator     *validation.Validator
	clock         clock.Clock
	loc           *time.Location
	log           *logger.Logger
}

func NewDispatcher(
	notifications repository.NotificationRepository,
	admins AdminDirectory,
	publisher bus.Publisher,
	validator *validation.Validator,
	clk clock.Clock,
	loc *time.Location,
	log *logger.Logger,
) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{
		notifications: notifications,
		admins:        admins,
		publisher:     publisher,
		validator:     validator,
		clock:         clk,
		loc:           loc,
		log:           log.Component("dispatcher"),
	}
}

func (d *Dispatcher) Record(ctx context.Context, ev Event) ([]*model.Notification, error) {
	admins, err := d.admins.GetAllAdmins(ctx)
	if err != nil {
		return nil, err
	}
	adminIDs := make([]string, 0, len(admins))
	for _, a := range admins {
		adminIDs = append(adminIDs, a.ID)
	}

	now := d.clock.Now()
	recipients := Recipients(ev.Kind, ev.Reservation, adminIDs)
	notes := make([]*model.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		title, message := d.compose(ev, recipientID)
		notes = append(notes, &model.Notification{
			ID:              NotificationID(ev.Kind, ev.Reservation.ID, recipientID),
			RecipientID:     recipientID,
			Kind:            ev.Kind,
			RefID:           ev.Reservation.ID,
			ReservationKind: ev.Reservation.Kind,
			Title:           title,
			Message:         message,
			CreatedAt:       now,
		})
	}

	if err := d.notifications.Save(ctx, notes); err != nil {
		return nil, apperrors.Internal("Failed to store notifications", err)
	}
	return notes, nil
}

// Publish delivers stored notifications. Failures are logged; the stored
// copy stays readable in the recipient's mailbox.
func (d *Dispatcher) Publish(ctx context.Context, notes []*model.Notification) {
	for _, n := range notes {
		metrics.NotificationsDispatched.WithLabelValues(string(n.Kind)).Inc()
		if err := d.publisher.Publish(ctx, n); err != nil {
			d.log.Error("Failed to publish notification",
				"notification_id", n.ID,
				"recipient_id", n.RecipientID,
				"kind", n.Kind,
				"error", err,
			)
		}
	}
}

// Broadcast stores a notice visible to every user.
func (d *Dispatcher) Broadcast(ctx context.Context, actor model.Actor, req *model.NoticeCreate) (*model.Notification, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("Only administrators can broadcast notices")
	}
	req.Title = sanitizer.NormalizeTitle(req.Title)
	req.Message = sanitizer.NormalizeMessage(req.Message)
	if err := d.validator.Struct(req); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return nil, apperrors.Validation("Invalid notice", fieldErrs.Details())
		}
		return nil, apperrors.Validation("Invalid notice", map[string]any{"error": err.Error()})
	}

	n := &model.Notification{
		ID:        uuid.NewString(),
		Kind:      model.NotificationNotice,
		Title:     req.Title,
		Message:   req.Message,
		CreatedAt: d.clock.Now(),
	}
	if err := d.notifications.Save(ctx, []*model.Notification{n}); err != nil {
		return nil, apperrors.Internal("Failed to store notice", err)
	}
	d.Publish(ctx, []*model.Notification{n})

	d.log.Info("Notice broadcast", "notification_id", n.ID, "actor_id", actor.ID)
	return n, nil
}

// Recipients lists who hears about an event, without duplicates:
//   - created and cancelled: the member, the bound professional, every admin
//   - status changed: the member, plus every admin for ticket consuming kinds
func Recipients(kind model.NotificationKind, r *model.Reservation, adminIDs []string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	add(r.MemberID)
	switch kind {
	case model.NotificationReservationCreated, model.NotificationReservationCancelled:
		if r.Kind.UsesProfessional() {
			add(r.ResourceID)
		}
		for _, id := range adminIDs {
			add(id)
		}
	case model.NotificationStatusChanged:
		if r.Kind.ConsumesTicket() {
			for _, id := range adminIDs {
				add(id)
			}
		}
	}
	return out
}

var notificationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("studiodesk/notifications"))

// NotificationID is stable for one event and recipient, so recording the
// same event twice stores it once.
func NotificationID(kind model.NotificationKind, refID, recipientID string) string {
	return uuid.NewSHA1(notificationNamespace, []byte(string(kind)+"|"+refID+"|"+recipientID)).String()
}

func (d *Dispatcher) compose(ev Event, recipientID string) (string, string) {
	r := ev.Reservation
	what := describe(r.Kind)
	when := d.timeRange(r.StartTime, r.EndTime)
	forMember := recipientID == r.MemberID
	forProfessional := r.Kind.UsesProfessional() && recipientID == r.ResourceID

	switch ev.Kind {
	case model.NotificationReservationCreated:
		switch {
		case forMember:
			return "Reservation confirmed", fmt.Sprintf("Your %s on %s is booked.", what, when)
		case forProfessional:
			return "New booking", fmt.Sprintf("%s booked a %s with you on %s.", r.MemberID, what, when)
		}
		return "New reservation", fmt.Sprintf("%s booked a %s on %s.", r.MemberID, what, when)

	case model.NotificationReservationCancelled:
		if forMember {
			if ev.Actor.ID == r.MemberID {
				return "Reservation cancelled", fmt.Sprintf("You cancelled your %s on %s.", what, when)
			}
			return "Reservation cancelled", fmt.Sprintf("Staff cancelled your %s on %s.", what, when)
		}
		return "Reservation cancelled", fmt.Sprintf("%s's %s on %s was cancelled by %s.", r.MemberID, what, when, ev.Actor.ID)

	case model.NotificationStatusChanged:
		if forMember {
			return "Attendance recorded", fmt.Sprintf("Your %s on %s was marked %s.", what, when, r.Status)
		}
		return "Attendance recorded", fmt.Sprintf("%s's %s on %s was marked %s.", r.MemberID, what, when, r.Status)
	}
	return string(ev.Kind), when
}

func describe(kind model.ReservationKind) string {
	switch kind {
	case model.KindLesson:
		return "lesson"
	case model.KindMental:
		return "mental coaching session"
	case model.KindTrainingRoom:
		return "training room booking"
	case model.KindRentalRoom:
		return "rental room booking"
	}
	return string(kind)
}

func (d *Dispatcher) timeRange(start, end time.Time) string {
	st := start.In(d.loc)
	et := end.In(d.loc)
	return fmt.Sprintf("%s-%s", st.Format("2006-01-02 15:04"), et.Format("15:04"))
}
