package repository

import (
	"context"
	"sync"
	"time"

	reservationerrors "studiodesk/internal/reservations/errors"
	"studiodesk/pkg/model"
)

type memoryLockRepository struct {
	mu    sync.Mutex
	locks map[string]model.ReservationLock
}

func NewMemoryLockRepository() LockRepository {
	return &memoryLockRepository{locks: make(map[string]model.ReservationLock)}
}

func (r *memoryLockRepository) Acquire(ctx context.Context, key, owner string, ttl time.Duration, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if held, ok := r.locks[key]; ok && held.ExpiresAt.After(now) {
		return reservationerrors.ErrLockHeld
	}
	r.locks[key] = model.ReservationLock{
		ID:        key,
		Owner:     owner,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	return nil
}

func (r *memoryLockRepository) Release(_ context.Context, key, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if held, ok := r.locks[key]; ok && held.Owner == owner {
		delete(r.locks, key)
	}
	return nil
}
