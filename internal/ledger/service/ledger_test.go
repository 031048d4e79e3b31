package service

import (
	"context"
	"errors"
	"testing"
	"time"

	ledgererrors "studiodesk/internal/ledger/errors"
	"studiodesk/internal/ledger/repository"
	"studiodesk/pkg/clock"
	"studiodesk/pkg/db/memory"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/model"
	"studiodesk/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memory.Store
	members repository.MemberRepository
	journal repository.JournalRepository
	svc     LedgerService
}

func newFixture(t *testing.T, members ...model.Member) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store:   store,
		members: repository.NewMemoryMemberRepository(store),
		journal: repository.NewMemoryJournalRepository(store),
	}
	f.svc = NewLedgerService(
		f.members,
		f.journal,
		store.TransactionManager(),
		validation.New(),
		clock.NewFixed(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
		logger.Discard(),
	)

	for i := range members {
		require.NoError(t, f.members.Upsert(context.Background(), &members[i]))
	}
	return f
}

func TestDebit_DecrementsAndJournals(t *testing.T) {
	f := newFixture(t, model.Member{ID: "m1", Balances: model.Balances{Lesson50: 2}})
	ctx := context.Background()

	balance, err := f.svc.Debit(ctx, "m1", model.TicketLesson50, 1, "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, balance)

	entries, err := f.journal.FindByMember(ctx, "m1", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, -1, entries[0].Delta)
	assert.Equal(t, 1, entries[0].BalanceAfter)
	assert.Equal(t, model.ReasonBooking, entries[0].Reason)
	assert.Equal(t, "r1", entries[0].RefID)
}

func TestDebit_FailsClosed(t *testing.T) {
	f := newFixture(t, model.Member{ID: "m1", Balances: model.Balances{Mental: 0}})
	ctx := context.Background()

	_, err := f.svc.Debit(ctx, "m1", model.TicketMental, 1, "r1")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInsufficientBalance))
	assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)

	member, err := f.members.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 0, member.Balances.Mental)

	count, err := f.journal.CountByMember(ctx, "m1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDebit_UnknownMember(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Debit(context.Background(), "ghost", model.TicketRental, 1, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestDebit_RejectsBadInput(t *testing.T) {
	f := newFixture(t, model.Member{ID: "m1"})
	ctx := context.Background()

	_, err := f.svc.Debit(ctx, "m1", model.TicketType("gold"), 1, "")
	assert.ErrorIs(t, err, ledgererrors.ErrInvalidTicket)

	_, err = f.svc.Debit(ctx, "m1", model.TicketRental, 0, "")
	assert.ErrorIs(t, err, ledgererrors.ErrInvalidQuantity)

	_, err = f.svc.Credit(ctx, "m1", model.TicketRental, -2, model.ReasonCatalogCredit, "")
	assert.ErrorIs(t, err, ledgererrors.ErrInvalidQuantity)
}

func TestDebitCredit_Conservation(t *testing.T) {
	f := newFixture(t, model.Member{ID: "m1", Balances: model.Balances{Lesson30: 3}})
	ctx := context.Background()

	_, err := f.svc.Debit(ctx, "m1", model.TicketLesson30, 1, "a")
	require.NoError(t, err)
	_, err = f.svc.Debit(ctx, "m1", model.TicketLesson30, 1, "b")
	require.NoError(t, err)
	_, err = f.svc.Credit(ctx, "m1", model.TicketLesson30, 1, model.ReasonCancellation, "a")
	require.NoError(t, err)

	member, err := f.members.FindByID(ctx, "m1")
	require.NoError(t, err)

	entries, err := f.journal.FindByMember(ctx, "m1", 0, 0)
	require.NoError(t, err)
	sum := 0
	for _, e := range entries {
		sum += e.Delta
	}
	assert.Equal(t, 3+sum, member.Balances.Lesson30)
	assert.Equal(t, 2, member.Balances.Lesson30)
}

func TestDebit_RolledBackWithOuterTransaction(t *testing.T) {
	f := newFixture(t, model.Member{ID: "m1", Balances: model.Balances{Rental: 1}})
	ctx := context.Background()
	boom := errors.New("insert failed")

	err := f.store.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if _, err := f.svc.Debit(txCtx, "m1", model.TicketRental, 1, "r1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	member, err := f.members.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, member.Balances.Rental)

	count, err := f.journal.CountByMember(ctx, "m1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGrant(t *testing.T) {
	f := newFixture(t, model.Member{ID: "m1"})
	ctx := context.Background()
	admin := model.Actor{ID: "a1", Role: model.RoleAdmin}

	entry, err := f.svc.Grant(ctx, admin, "m1", &model.CreditRequest{Ticket: model.TicketMental, Quantity: 4, RefID: "order-7"})
	require.NoError(t, err)
	assert.Equal(t, 4, entry.BalanceAfter)
	assert.Equal(t, model.ReasonCatalogCredit, entry.Reason)
	assert.NotEmpty(t, entry.ID)

	_, err = f.svc.Grant(ctx, model.Actor{ID: "i1", Role: model.RoleInstructor}, "m1",
		&model.CreditRequest{Ticket: model.TicketMental, Quantity: 1})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = f.svc.Grant(ctx, admin, "m1", &model.CreditRequest{Ticket: "gold", Quantity: 0})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestBalancesAndJournal_Visibility(t *testing.T) {
	f := newFixture(t,
		model.Member{ID: "m1", Balances: model.Balances{Lesson30: 1}},
		model.Member{ID: "m2"},
	)
	ctx := context.Background()

	member, err := f.svc.Balances(ctx, model.Actor{ID: "m1", Role: model.RoleMember}, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, member.Balances.Lesson30)

	_, err = f.svc.Balances(ctx, model.Actor{ID: "m2", Role: model.RoleMember}, "m1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, total, err := f.svc.Journal(ctx, model.Actor{ID: "c1", Role: model.RoleMentalCoach}, "m1", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = f.svc.Journal(ctx, model.Actor{ID: "a1", Role: model.RoleAdmin}, "ghost", 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
