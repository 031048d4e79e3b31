package repository

import (
	"context"
	"time"

	ledgererrors "studiodesk/internal/ledger/errors"
	"studiodesk/pkg/db/memory"
	"studiodesk/pkg/model"
)

type memoryMemberRepository struct {
	store   *memory.Store
	members *memory.Collection[model.Member]
}

func NewMemoryMemberRepository(store *memory.Store) MemberRepository {
	return &memoryMemberRepository{
		store:   store,
		members: memory.NewCollection[model.Member](store),
	}
}

func (r *memoryMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	var out *model.Member
	err := r.store.Do(ctx, func() error {
		member, ok := r.members.Get(id)
		if !ok {
			return ledgererrors.ErrMemberNotFound
		}
		out = &member
		return nil
	})
	return out, err
}

func (r *memoryMemberRepository) Upsert(ctx context.Context, member *model.Member) error {
	return r.store.Do(ctx, func() error {
		member.UpdatedAt = time.Now()
		r.members.Put(member.ID, *member)
		return nil
	})
}

func (r *memoryMemberRepository) AdjustBalance(ctx context.Context, memberID string, ticket model.TicketType, delta int) (int, error) {
	var balance int
	err := r.store.Do(ctx, func() error {
		member, ok := r.members.Get(memberID)
		if !ok {
			return ledgererrors.ErrMemberNotFound
		}
		if member.Balances.Get(ticket)+delta < 0 {
			return ledgererrors.ErrInsufficientBalance
		}
		member.Balances.Add(ticket, delta)
		member.UpdatedAt = time.Now()
		r.members.Put(memberID, member)
		balance = member.Balances.Get(ticket)
		return nil
	})
	return balance, err
}
