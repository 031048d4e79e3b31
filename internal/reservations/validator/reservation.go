package validator

import (
	"errors"

	"studiodesk/pkg/model"
	"studiodesk/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ReservationValidator struct {
	validate *validation.Validator
}

// ticketChoice is the part of a request that selects the ticket type. It is
// checked after availability, so a taken slot reports as taken even when the
// requested length could never be booked.
type ticketChoice struct {
	Kind            model.ReservationKind `json:"kind"`
	DurationMinutes int                   `json:"duration_minutes"`
}

func NewReservationValidator() *ReservationValidator {
	v := validation.New()
	v.RegisterStructRule("lesson_duration", "must be 30 or 50 for lessons", validateLessonDuration, ticketChoice{})
	return &ReservationValidator{validate: v}
}

func validateLessonDuration(sl validator.StructLevel) {
	choice, ok := sl.Current().Interface().(ticketChoice)
	if !ok {
		return
	}
	if _, err := model.TicketFor(choice.Kind, choice.DurationMinutes); errors.Is(err, model.ErrUnsupportedLessonDuration) {
		sl.ReportError(choice.DurationMinutes, "duration_minutes", "DurationMinutes", "lesson_duration", "")
	}
}

func (v *ReservationValidator) ValidateCreate(req *model.ReservationCreate) error {
	return v.validate.Struct(req)
}

// Ticket returns the ticket type a request consumes, or validation.Errors
// when the length is not sold for its kind.
func (v *ReservationValidator) Ticket(req *model.ReservationCreate) (model.TicketType, error) {
	if err := v.validate.Struct(ticketChoice{Kind: req.Kind, DurationMinutes: req.DurationMinutes}); err != nil {
		return "", err
	}
	return model.TicketFor(req.Kind, req.DurationMinutes)
}

func (v *ReservationValidator) ValidateStatus(update *model.StatusUpdate) error {
	return v.validate.Struct(update)
}
