package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"studiodesk/internal/availability"
	ledgerrepo "studiodesk/internal/ledger/repository"
	ledgerservice "studiodesk/internal/ledger/service"
	"studiodesk/internal/notifications/bus"
	notificationrepo "studiodesk/internal/notifications/repository"
	notificationservice "studiodesk/internal/notifications/service"
	"studiodesk/internal/reservations/repository"
	"studiodesk/internal/reservations/validator"
	rosterrepo "studiodesk/internal/roster/repository"
	rosterservice "studiodesk/internal/roster/service"
	"studiodesk/pkg/clock"
	"studiodesk/pkg/config"
	"studiodesk/pkg/db/memory"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/model"
	"studiodesk/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminPassword = "front-desk-secret"

var (
	// Monday.
	now      = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tomorrow = time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	admin      = model.Actor{ID: "a1", Role: model.RoleAdmin}
	instructor = model.Actor{ID: "coach-kim", Role: model.RoleInstructor}
	member1    = model.Actor{ID: "m1", Role: model.RoleMember}
	member2    = model.Actor{ID: "m2", Role: model.RoleMember}
)

type fixture struct {
	svc           ReservationService
	clock         *clock.Fixed
	members       ledgerrepo.MemberRepository
	journal       ledgerrepo.JournalRepository
	reservations  repository.ReservationRepository
	notifications notificationrepo.NotificationRepository
}

func newFixture(t *testing.T, members ...*model.Member) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()
	clk := clock.NewFixed(now)
	store := memory.NewStore()

	memberRepo := ledgerrepo.NewMemoryMemberRepository(store)
	journal := ledgerrepo.NewMemoryJournalRepository(store)
	if len(members) == 0 {
		members = []*model.Member{
			{ID: "m1", Balances: model.Balances{Lesson30: 2, Lesson50: 2, Mental: 1, Rental: 1}},
			{ID: "m2", Balances: model.Balances{Lesson50: 1}},
		}
	}
	for _, m := range members {
		require.NoError(t, memberRepo.Upsert(ctx, m))
	}

	professionals := rosterrepo.NewMemoryProfessionalRepository(store)
	require.NoError(t, professionals.Upsert(ctx, &model.Professional{
		ID: "coach-kim", Kind: model.ProfessionalInstructor, WeeklyDaysOff: []int{0},
	}))
	require.NoError(t, professionals.Upsert(ctx, &model.Professional{
		ID: "mind-lee", Kind: model.ProfessionalMentalCoach,
	}))

	users := rosterrepo.NewMemoryUserRepository(store)
	hash, err := rosterservice.HashPassword(adminPassword)
	require.NoError(t, err)
	require.NoError(t, users.Upsert(ctx, &model.User{ID: "a1", Role: model.RoleAdmin, PasswordHash: hash}))
	require.NoError(t, users.Upsert(ctx, &model.User{ID: "coach-kim", Role: model.RoleInstructor}))

	directory := rosterservice.NewDirectory(professionals, users, log)
	reservations := repository.NewMemoryReservationRepository(store)
	notifications := notificationrepo.NewMemoryNotificationRepository(store)

	cfg := &config.Config{
		Location:          time.UTC,
		BookingWindowDays: 6,
		LockTTL:           time.Minute,
		LockRetryAttempts: 200,
		LockRetryDelay:    time.Millisecond,
	}

	svc := NewReservationService(
		reservations,
		repository.NewMemoryLockRepository(),
		ledgerservice.NewLedgerService(memberRepo, journal, store.TransactionManager(), validation.New(), clk, log),
		availability.NewResolver(reservations, directory, availability.Facilities{
			TrainingRoomID: "training-room",
			RentalRoomID:   "rental-room",
		}, clk, time.UTC),
		directory,
		notificationservice.NewDispatcher(notifications, directory, bus.NewBroker(log), validation.New(), clk, time.UTC, log),
		store.TransactionManager(),
		validator.NewReservationValidator(),
		clk,
		cfg,
		log,
	)

	return &fixture{
		svc:           svc,
		clock:         clk,
		members:       memberRepo,
		journal:       journal,
		reservations:  reservations,
		notifications: notifications,
	}
}

func (f *fixture) balance(t *testing.T, memberID string, ticket model.TicketType) int {
	t.Helper()
	m, err := f.members.FindByID(context.Background(), memberID)
	require.NoError(t, err)
	return m.Balances.Get(ticket)
}

func lesson(memberID string, start time.Time, minutes int) *model.ReservationCreate {
	return &model.ReservationCreate{
		MemberID:        memberID,
		Kind:            model.KindLesson,
		ResourceID:      "coach-kim",
		StartTime:       start,
		DurationMinutes: minutes,
	}
}

func trainingRoom(memberID string, start time.Time) *model.ReservationCreate {
	return &model.ReservationCreate{
		MemberID:        memberID,
		Kind:            model.KindTrainingRoom,
		StartTime:       start,
		DurationMinutes: 60,
	}
}

func TestCreate_DebitsAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 50))
	require.NoError(t, err)

	assert.Equal(t, model.StatusScheduled, r.Status)
	assert.Equal(t, model.TicketLesson50, r.Ticket)
	assert.Equal(t, 1, r.TicketsDebited)
	assert.Equal(t, tomorrow.Add(50*time.Minute), r.EndTime)
	assert.Equal(t, "m1", r.CreatedBy)
	assert.Equal(t, 1, f.balance(t, "m1", model.TicketLesson50))

	entries, err := f.journal.FindByMember(ctx, "m1", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, -1, entries[0].Delta)
	assert.Equal(t, r.ID, entries[0].RefID)

	for _, recipient := range []string{"m1", "coach-kim", "a1"} {
		notes, err := f.notifications.FindVisibleTo(ctx, recipient)
		require.NoError(t, err)
		assert.Len(t, notes, 1, recipient)
	}
}

func TestCreate_TrainingRoomConsumesNothing(t *testing.T) {
	f := newFixture(t)

	r, err := f.svc.Create(context.Background(), member1, trainingRoom("m1", tomorrow))
	require.NoError(t, err)

	assert.Equal(t, "training-room", r.ResourceID)
	assert.Empty(t, r.Ticket)
	assert.Zero(t, r.TicketsDebited)
	assert.Equal(t, 2, f.balance(t, "m1", model.TicketLesson50))
}

func TestScenario_Lesson50OverlapIsUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 50))
	require.NoError(t, err)

	// An hour at the same start is taken before its length is ever priced.
	_, err = f.svc.Create(ctx, member2, lesson("m2", tomorrow, 60))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSlotUnavailable))
	assert.Equal(t, 1, f.balance(t, "m2", model.TicketLesson50))

	_, err = f.svc.Create(ctx, member2, lesson("m2", tomorrow.Add(30*time.Minute), 50))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSlotUnavailable))
	assert.Equal(t, 1, f.balance(t, "m2", model.TicketLesson50))

	_, err = f.svc.Create(ctx, member2, lesson("m2", tomorrow.Add(2*time.Hour), 60))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "free slot, unsupported length")

	// Back to back is fine.
	_, err = f.svc.Create(ctx, member2, lesson("m2", tomorrow.Add(50*time.Minute), 50))
	require.NoError(t, err)
}

func TestScenario_SecondTrainingRoomSameDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, member1, trainingRoom("m1", tomorrow))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, member1, trainingRoom("m1", tomorrow.Add(5*time.Hour)))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDailyLimitExceeded))

	_, err = f.svc.Create(ctx, member1, trainingRoom("m1", tomorrow.AddDate(0, 0, 1)))
	assert.NoError(t, err)

	// The limit is per member.
	_, err = f.svc.Create(ctx, member2, trainingRoom("m2", tomorrow.Add(5*time.Hour)))
	assert.NoError(t, err)
}

func TestScenario_WrongAdminPasswordChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 30))
	require.NoError(t, err)
	require.Equal(t, 1, f.balance(t, "m1", model.TicketLesson30))
	notesBefore, err := f.notifications.FindVisibleTo(ctx, "m1")
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, admin, r.ID, "not-the-password")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidAdminPassword))

	err = f.svc.Cancel(ctx, admin, r.ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidAdminPassword))

	stored, err := f.reservations.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, stored.Status)
	assert.Equal(t, 1, f.balance(t, "m1", model.TicketLesson30))
	notesAfter, err := f.notifications.FindVisibleTo(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, notesAfter, len(notesBefore))
}

func TestCancel_AdminRefundRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 30))
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, admin, r.ID, adminPassword))

	_, err = f.reservations.FindByID(ctx, r.ID)
	assert.Error(t, err)
	assert.Equal(t, 2, f.balance(t, "m1", model.TicketLesson30))

	entries, err := f.journal.FindByMember(ctx, "m1", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	total := 0
	for _, e := range entries {
		total += e.Delta
		assert.Equal(t, model.TicketLesson30, e.Ticket)
	}
	assert.Zero(t, total)

	// The slot is free again.
	_, err = f.svc.Create(ctx, member2, lesson("m2", tomorrow, 50))
	assert.NoError(t, err)
}

func TestCancel_EndedLessonKeepsTicketSpent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 30))
	require.NoError(t, err)
	require.Equal(t, 1, f.balance(t, "m1", model.TicketLesson30))

	f.clock.Set(now.AddDate(0, 0, 2))
	require.NoError(t, f.svc.Cancel(ctx, admin, r.ID, adminPassword))

	assert.Equal(t, 1, f.balance(t, "m1", model.TicketLesson30))
	stored, err := f.reservations.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAbsent, stored.Status)
	assert.True(t, stored.Hidden)
}

func TestCancel_AdminTrainingRoomNeedsNoPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, member1, trainingRoom("m1", tomorrow))
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, admin, r.ID, ""))
	_, err = f.reservations.FindByID(ctx, r.ID)
	assert.Error(t, err)
}

func TestCancel_MemberRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today := now.Add(3 * time.Hour)
	sameDay, err := f.svc.Create(ctx, member1, lesson("m1", today, 30))
	require.NoError(t, err)
	later, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 50))
	require.NoError(t, err)
	room, err := f.svc.Create(ctx, member1, trainingRoom("m1", today))
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, member1, sameDay.ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorizedCancellation))

	err = f.svc.Cancel(ctx, member2, later.ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorizedCancellation))

	err = f.svc.Cancel(ctx, instructor, later.ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorizedCancellation))

	require.NoError(t, f.svc.Cancel(ctx, member1, later.ID, ""))
	assert.Equal(t, 2, f.balance(t, "m1", model.TicketLesson50))

	// Training room bookings stay cancellable on the day.
	require.NoError(t, f.svc.Cancel(ctx, member1, room.ID, ""))

	err = f.svc.Cancel(ctx, member1, "missing", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestScenario_YesterdaysLessonSweptToAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	yesterday := now.AddDate(0, 0, -1)
	require.NoError(t, f.reservations.Create(ctx, &model.Reservation{
		ID: "r-lesson", Kind: model.KindLesson, MemberID: "m1", ResourceID: "coach-kim",
		StartTime: yesterday, EndTime: yesterday.Add(50 * time.Minute), DurationMinutes: 50,
		Status: model.StatusScheduled, Ticket: model.TicketLesson50, TicketsDebited: 1,
		CreatedAt: yesterday.AddDate(0, 0, -1),
	}))
	require.NoError(t, f.reservations.Create(ctx, &model.Reservation{
		ID: "r-room", Kind: model.KindTrainingRoom, MemberID: "m1", ResourceID: "training-room",
		StartTime: yesterday, EndTime: yesterday.Add(time.Hour), DurationMinutes: 60,
		Status: model.StatusScheduled, CreatedAt: yesterday.AddDate(0, 0, -1),
	}))

	list, total, err := f.svc.List(ctx, admin, model.ReservationFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	statuses := map[string]model.ReservationStatus{}
	for _, r := range list {
		statuses[r.ID] = r.Status
	}
	assert.Equal(t, model.StatusAbsent, statuses["r-lesson"])
	assert.Equal(t, model.StatusAttended, statuses["r-room"])

	assert.Equal(t, 2, f.balance(t, "m1", model.TicketLesson50))
	entries, err := f.journal.FindByMember(ctx, "m1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	moved, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, moved)
}

func TestSweep_LeavesRunningReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, member1, lesson("m1", now.Add(time.Hour), 50))
	require.NoError(t, err)

	f.clock.Set(r.StartTime.Add(10 * time.Minute))
	moved, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, moved)

	f.clock.Set(r.EndTime)
	moved, err = f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, moved[model.StatusAbsent])
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today, err := f.svc.Create(ctx, member1, lesson("m1", now.Add(2*time.Hour), 30))
	require.NoError(t, err)
	future, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 50))
	require.NoError(t, err)

	attended := &model.StatusUpdate{Status: model.StatusAttended}

	_, err = f.svc.UpdateStatus(ctx, member1, today.ID, attended)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = f.svc.UpdateStatus(ctx, instructor, future.ID, attended)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatusTransition))

	_, err = f.svc.UpdateStatus(ctx, instructor, today.ID, &model.StatusUpdate{Status: model.StatusScheduled})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	updated, err := f.svc.UpdateStatus(ctx, instructor, today.ID, attended)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAttended, updated.Status)

	// Terminal statuses never change again, manually or by the sweep.
	_, err = f.svc.UpdateStatus(ctx, admin, today.ID, &model.StatusUpdate{Status: model.StatusAbsent})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatusTransition))

	f.clock.Set(now.Add(24 * time.Hour))
	_, err = f.svc.Sweep(ctx)
	require.NoError(t, err)
	stored, err := f.reservations.FindByID(ctx, today.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAttended, stored.Status)

	notes, err := f.notifications.FindVisibleTo(ctx, "a1")
	require.NoError(t, err)
	var statusNotes int
	for _, n := range notes {
		if n.Kind == model.NotificationStatusChanged {
			statusNotes++
		}
	}
	assert.Equal(t, 1, statusNotes)
}

func TestCancel_AdminHidesHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, member1, lesson("m1", now.Add(time.Hour), 30))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, admin, r.ID, &model.StatusUpdate{Status: model.StatusAbsent})
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, member1, r.ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorizedCancellation))

	require.NoError(t, f.svc.Cancel(ctx, admin, r.ID, ""))
	assert.Equal(t, 1, f.balance(t, "m1", model.TicketLesson30))

	_, total, err := f.svc.List(ctx, member1, model.ReservationFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = f.svc.Get(ctx, member1, r.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	list, total, err := f.svc.List(ctx, admin, model.ReservationFilter{IncludeHidden: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.True(t, list[0].Hidden)

	_, _, err = f.svc.List(ctx, instructor, model.ReservationFilter{IncludeHidden: true})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 40))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "unsupported lesson length")

	_, err = f.svc.Create(ctx, member1, lesson("m2", tomorrow, 30))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "booking for someone else")

	_, err = f.svc.Create(ctx, member1, lesson("m1", tomorrow.AddDate(0, 0, 7), 30))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeOutsideBookingWindow))

	_, err = f.svc.Create(ctx, admin, lesson("m1", tomorrow.AddDate(0, 0, 7), 30))
	assert.NoError(t, err, "staff bookings are not window restricted")

	_, err = f.svc.Create(ctx, member1, lesson("m1", now.Add(-time.Hour), 30))
	assert.True(t, apperrors.HasCode(err, apperrors.CodePastDate))

	_, err = f.svc.Create(ctx, member2, &model.ReservationCreate{
		MemberID: "m2", Kind: model.KindMental, ResourceID: "mind-lee", StartTime: tomorrow, DurationMinutes: 50,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInsufficientBalance))

	_, err = f.svc.Create(ctx, admin, lesson("ghost", tomorrow.Add(2*time.Hour), 30))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	sunday := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	_, err = f.svc.Create(ctx, member1, lesson("m1", sunday, 30))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSlotUnavailable), "instructor off duty")

	// Nothing above left a reservation for member 2 behind.
	count, err := f.reservations.Count(ctx, model.ReservationFilter{MemberID: "m2"})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreate_RentalRoomMemberOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 50))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, member1, &model.ReservationCreate{
		MemberID: "m1", Kind: model.KindRentalRoom, StartTime: tomorrow.Add(30 * time.Minute), DurationMinutes: 60,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDoubleBooking))
	assert.Equal(t, 1, f.balance(t, "m1", model.TicketRental))
}

func TestCreate_NoDoubleBookingUnderConcurrency(t *testing.T) {
	const contenders = 8
	members := make([]*model.Member, 0, contenders)
	for i := range contenders {
		members = append(members, &model.Member{
			ID:       fmt.Sprintf("m-%d", i),
			Balances: model.Balances{Lesson50: 1},
		})
	}
	f := newFixture(t, members...)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			memberID := fmt.Sprintf("m-%d", i)
			_, errs[i] = f.svc.Create(ctx, admin, lesson(memberID, tomorrow.Add(time.Duration(i)*time.Minute), 50))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t,
			apperrors.HasCode(err, apperrors.CodeSlotUnavailable) || apperrors.HasCode(err, apperrors.CodeConflict),
			err.Error())
	}
	assert.Equal(t, 1, succeeded)

	booked, err := f.reservations.FindScheduledOverlapping(ctx, "coach-kim", tomorrow, tomorrow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, booked, 1)

	// Conservation: every balance equals its opening value plus its journal.
	remaining := 0
	for i := range contenders {
		memberID := fmt.Sprintf("m-%d", i)
		balance := f.balance(t, memberID, model.TicketLesson50)
		entries, err := f.journal.FindByMember(ctx, memberID, 0, 0)
		require.NoError(t, err)
		delta := 0
		for _, e := range entries {
			delta += e.Delta
		}
		assert.Equal(t, 1+delta, balance)
		remaining += balance
	}
	assert.Equal(t, contenders-1, remaining)
}

func TestIsAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, member1, lesson("m1", tomorrow, 50))
	require.NoError(t, err)

	ok, err := f.svc.IsAvailable(ctx, model.AvailabilityQuery{
		ResourceID: "coach-kim", Kind: model.KindLesson, Start: tomorrow.Add(20 * time.Minute), DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.IsAvailable(ctx, model.AvailabilityQuery{
		ResourceID: "coach-kim", Kind: model.KindLesson, Start: tomorrow.Add(50 * time.Minute), DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.IsAvailable(ctx, model.AvailabilityQuery{Kind: "spa", Start: tomorrow, DurationMinutes: 30})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}
