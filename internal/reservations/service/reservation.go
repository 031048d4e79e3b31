package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"studiodesk/internal/availability"
	ledgerservice "studiodesk/internal/ledger/service"
	notificationservice "studiodesk/internal/notifications/service"
	reservationerrors "studiodesk/internal/reservations/errors"
	"studiodesk/internal/reservations/policy"
	"studiodesk/internal/reservations/repository"
	"studiodesk/internal/reservations/validator"
	"studiodesk/pkg/clock"
	"studiodesk/pkg/config"
	"studiodesk/pkg/db"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/metrics"
	"studiodesk/pkg/model"
	"studiodesk/pkg/sanitizer"
	"studiodesk/pkg/validation"

	"github.com/google/uuid"
)

type ReservationService interface {
	Create(ctx context.Context, actor model.Actor, req *model.ReservationCreate) (*model.Reservation, error)
	Get(ctx context.Context, actor model.Actor, id string) (*model.Reservation, error)
	List(ctx context.Context, actor model.Actor, filter model.ReservationFilter) ([]*model.Reservation, int64, error)
	UpdateStatus(ctx context.Context, actor model.Actor, id string, update *model.StatusUpdate) (*model.Reservation, error)
	Cancel(ctx context.Context, actor model.Actor, id, adminPassword string) error
	Sweep(ctx context.Context) (map[model.ReservationStatus]int64, error)
	IsAvailable(ctx context.Context, q model.AvailabilityQuery) (bool, error)
}

// PasswordVerifier confirms destructive admin actions.
type PasswordVerifier interface {
	VerifyAdminPassword(ctx context.Context, adminID, password string) error
}

type reservationService struct {
	repo         repository.ReservationRepository
	locks        *locker
	ledger       ledgerservice.LedgerService
	availability *availability.Resolver
	passwords    PasswordVerifier
	dispatcher   *notificationservice.Dispatcher
	txManager    db.TransactionManager
	validator    *validator.ReservationValidator
	clock        clock.Clock
	cfg          *config.Config
	loc          *time.Location
	log          *logger.Logger
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.LockRepository,
	ledger ledgerservice.LedgerService,
	resolver *availability.Resolver,
	passwords PasswordVerifier,
	dispatcher *notificationservice.Dispatcher,
	txManager db.TransactionManager,
	validator *validator.ReservationValidator,
	clk clock.Clock,
	cfg *config.Config,
	log *logger.Logger,
) ReservationService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	log = log.Component("reservations")
	return &reservationService{
		repo: repo,
		locks: &locker{
			repo:     lockRepo,
			clock:    clk,
			ttl:      cfg.LockTTL,
			attempts: cfg.LockRetryAttempts,
			delay:    cfg.LockRetryDelay,
			log:      log,
		},
		ledger:       ledger,
		availability: resolver,
		passwords:    passwords,
		dispatcher:   dispatcher,
		txManager:    txManager,
		validator:    validator,
		clock:        clk,
		cfg:          cfg,
		loc:          loc,
		log:          log,
	}
}

func (s *reservationService) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *reservationService) Create(ctx context.Context, actor model.Actor, req *model.ReservationCreate) (*model.Reservation, error) {
	reservation, err := s.create(ctx, actor, req)
	if err != nil {
		s.reject("create", err)
		return nil, err
	}
	return reservation, nil
}

func (s *reservationService) create(ctx context.Context, actor model.Actor, req *model.ReservationCreate) (*model.Reservation, error) {
	sanitizeCreate(req)
	if err := s.validator.ValidateCreate(req); err != nil {
		return nil, validationError("Invalid reservation", err)
	}
	if err := policy.AuthorizeBooking(actor, req.MemberID, req.StartTime, s.now(), s.cfg.BookingWindowDays); err != nil {
		return nil, err
	}

	resourceID, err := s.availability.ResolveResource(req.Kind, req.ResourceID)
	if err != nil {
		return nil, err
	}

	release, err := s.locks.acquire(ctx, resourceKey(resourceID), memberKey(req.MemberID))
	if err != nil {
		return nil, err
	}
	defer release()

	q := model.AvailabilityQuery{
		ResourceID:      resourceID,
		Kind:            req.Kind,
		Start:           req.StartTime,
		DurationMinutes: req.DurationMinutes,
		MemberID:        req.MemberID,
	}
	now := s.clock.Now()
	reservation := &model.Reservation{
		ID:              uuid.NewString(),
		Kind:            req.Kind,
		MemberID:        req.MemberID,
		ResourceID:      resourceID,
		StartTime:       req.StartTime,
		EndTime:         q.End(),
		DurationMinutes: req.DurationMinutes,
		Status:          model.StatusScheduled,
		CreatedBy:       actor.ID,
		CreatedAt:       now,
	}

	var notes []*model.Notification
	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.ledger.GetMember(txCtx, req.MemberID); err != nil {
			return err
		}
		if err := s.availability.Check(txCtx, q); err != nil {
			return err
		}
		if req.Kind == model.KindTrainingRoom {
			if err := s.checkDailyLimit(txCtx, req.MemberID, req.StartTime); err != nil {
				return err
			}
		}
		ticket, err := s.validator.Ticket(req)
		if err != nil {
			return validationError("Invalid reservation", err)
		}
		if ticket != "" {
			reservation.Ticket = ticket
			if _, err := s.ledger.Debit(txCtx, req.MemberID, ticket, 1, reservation.ID); err != nil {
				return err
			}
			reservation.TicketsDebited = 1
		}
		if err := s.repo.Create(txCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}

		notes, err = s.dispatcher.Record(txCtx, notificationservice.Event{
			Kind:        model.NotificationReservationCreated,
			Reservation: reservation,
			Actor:       actor,
		})
		return err
	})
	if err != nil {
		s.log.Warn("Reservation rejected",
			"member_id", req.MemberID,
			"kind", req.Kind,
			"resource_id", resourceID,
			"start_time", req.StartTime,
			"error", err,
		)
		return nil, err
	}

	s.dispatcher.Publish(ctx, notes)
	metrics.ReservationsCreated.WithLabelValues(string(reservation.Kind)).Inc()
	s.log.Info("Reservation created",
		"id", reservation.ID,
		"member_id", reservation.MemberID,
		"kind", reservation.Kind,
		"resource_id", reservation.ResourceID,
		"start_time", reservation.StartTime,
		"actor_id", actor.ID,
	)
	return reservation, nil
}

// checkDailyLimit allows one scheduled training room reservation per member
// per studio day.
func (s *reservationService) checkDailyLimit(ctx context.Context, memberID string, start time.Time) error {
	from := clock.StartOfDay(start.In(s.loc))
	count, err := s.repo.CountScheduledByMemberKind(ctx, memberID, model.KindTrainingRoom, from, from.AddDate(0, 0, 1))
	if err != nil {
		return apperrors.Internal("Failed to check daily training room limit", err)
	}
	if count > 0 {
		return apperrors.DailyLimitExceeded(reservationerrors.ErrDailyLimit,
			fmt.Sprintf("Only one training room reservation is allowed per day (%s)", from.Format(model.DateLayout)))
	}
	return nil
}

func (s *reservationService) Get(ctx context.Context, actor model.Actor, id string) (*model.Reservation, error) {
	reservation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, reservation) {
		return nil, apperrors.NotFoundWithID("Reservation", id)
	}
	return reservation, nil
}

func (s *reservationService) find(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

// List sweeps expired reservations first so listed statuses are current.
func (s *reservationService) List(ctx context.Context, actor model.Actor, filter model.ReservationFilter) ([]*model.Reservation, int64, error) {
	filter, err := policy.ScopeListing(actor, filter)
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.Sweep(ctx); err != nil {
		s.log.Warn("Sweep before listing failed", "error", err)
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.Find(ctx, filter)
		if errFind != nil {
			s.log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, actor model.Actor, id string, update *model.StatusUpdate) (*model.Reservation, error) {
	if err := s.validator.ValidateStatus(update); err != nil {
		return nil, validationError("Invalid status update", err)
	}

	var updated *model.Reservation
	var notes []*model.Notification
	err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		reservation, err := s.find(txCtx, id)
		if err != nil {
			return err
		}
		if err := policy.AuthorizeStatusUpdate(actor, reservation, update.Status, s.now()); err != nil {
			return err
		}

		now := s.clock.Now()
		if err := s.repo.UpdateStatus(txCtx, id, update.Status, now); err != nil {
			return s.mapStateError(err, id)
		}
		reservation.Status = update.Status
		reservation.UpdatedAt = now

		notes, err = s.dispatcher.Record(txCtx, notificationservice.Event{
			Kind:        model.NotificationStatusChanged,
			Reservation: reservation,
			Actor:       actor,
		})
		if err != nil {
			return err
		}
		updated = reservation
		return nil
	})
	if err != nil {
		s.reject("update_status", err)
		return nil, err
	}

	s.dispatcher.Publish(ctx, notes)
	s.log.Info("Reservation status updated", "id", id, "status", update.Status, "actor_id", actor.ID)
	return updated, nil
}

// Cancel removes a reservation as decided by the cancellation policy. A
// required admin password is verified before anything changes.
func (s *reservationService) Cancel(ctx context.Context, actor model.Actor, id, adminPassword string) error {
	err := s.cancel(ctx, actor, id, adminPassword)
	if err != nil {
		s.reject("cancel", err)
	}
	return err
}

func (s *reservationService) cancel(ctx context.Context, actor model.Actor, id, adminPassword string) error {
	if _, err := s.Sweep(ctx); err != nil {
		s.log.Warn("Sweep before cancellation failed", "error", err)
	}

	reservation, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if reservation.Hidden && actor.Role != model.RoleAdmin {
		return apperrors.NotFoundWithID("Reservation", id)
	}

	decision, err := policy.DecideCancellation(actor, reservation, s.now())
	if err != nil {
		return err
	}
	if decision.RequiresPassword {
		if err := s.passwords.VerifyAdminPassword(ctx, actor.ID, adminPassword); err != nil {
			return err
		}
	}

	if decision.Action == policy.ActionHide {
		if err := s.repo.Hide(ctx, id, s.clock.Now()); err != nil {
			return s.mapStateError(err, id)
		}
		metrics.ReservationsRemoved.WithLabelValues(string(reservation.Kind), string(policy.ActionHide)).Inc()
		s.log.Info("Reservation hidden", "id", id, "actor_id", actor.ID)
		return nil
	}

	release, err := s.locks.acquire(ctx, resourceKey(reservation.ResourceID), memberKey(reservation.MemberID))
	if err != nil {
		return err
	}
	defer release()

	var notes []*model.Notification
	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.DeleteScheduled(txCtx, id); err != nil {
			return s.mapStateError(err, id)
		}
		if decision.Refund {
			if _, err := s.ledger.Credit(txCtx, reservation.MemberID, reservation.Ticket, reservation.TicketsDebited,
				model.ReasonCancellation, reservation.ID); err != nil {
				return err
			}
		}

		var err error
		notes, err = s.dispatcher.Record(txCtx, notificationservice.Event{
			Kind:        model.NotificationReservationCancelled,
			Reservation: reservation,
			Actor:       actor,
		})
		return err
	})
	if err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, notes)
	metrics.ReservationsRemoved.WithLabelValues(string(reservation.Kind), string(policy.ActionDelete)).Inc()
	s.log.Info("Reservation cancelled",
		"id", id,
		"member_id", reservation.MemberID,
		"refunded", decision.Refund,
		"actor_id", actor.ID,
	)
	return nil
}

// Sweep resolves scheduled reservations that have already ended. Running it
// again changes nothing.
func (s *reservationService) Sweep(ctx context.Context) (map[model.ReservationStatus]int64, error) {
	moved, err := s.repo.SweepExpired(ctx, s.clock.Now())
	if err != nil {
		return nil, apperrors.Internal("Failed to sweep expired reservations", err)
	}
	for status, n := range moved {
		metrics.SweepTransitions.WithLabelValues(string(status)).Add(float64(n))
	}
	if len(moved) > 0 {
		s.log.Info("Expired reservations swept",
			"attended", moved[model.StatusAttended],
			"absent", moved[model.StatusAbsent],
		)
	}
	return moved, nil
}

func (s *reservationService) IsAvailable(ctx context.Context, q model.AvailabilityQuery) (bool, error) {
	switch q.Kind {
	case model.KindLesson, model.KindMental, model.KindTrainingRoom, model.KindRentalRoom:
	default:
		return false, apperrors.InvalidInput("kind must be one of lesson, mental, training_room, rental_room")
	}
	if q.DurationMinutes <= 0 {
		return false, apperrors.InvalidInput("duration_minutes must be positive")
	}
	if q.Start.IsZero() {
		return false, apperrors.InvalidInput("start is required")
	}
	return s.availability.IsAvailable(ctx, q)
}

// mapStateError translates conditional write failures. A reservation that
// left scheduled between read and write is a status conflict.
func (s *reservationService) mapStateError(err error, id string) error {
	switch {
	case errors.Is(err, reservationerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, reservationerrors.ErrNotScheduled):
		return apperrors.InvalidStatusTransition(err, "Reservation is no longer scheduled")
	}
	return apperrors.Internal("Failed to update reservation", err)
}

func (s *reservationService) reject(operation string, err error) {
	metrics.ReservationRejections.WithLabelValues(operation, apperrors.AsAppError(err).Code).Inc()
}

func validationError(message string, err error) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return apperrors.Validation(message, fieldErrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func sanitizeCreate(req *model.ReservationCreate) {
	req.MemberID = sanitizer.NormalizeID(req.MemberID)
	req.ResourceID = sanitizer.NormalizeID(req.ResourceID)
}
