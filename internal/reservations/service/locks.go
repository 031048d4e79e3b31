package service

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	reservationerrors "studiodesk/internal/reservations/errors"
	"studiodesk/internal/reservations/repository"
	"studiodesk/pkg/clock"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/metrics"

	"github.com/google/uuid"
)

func resourceKey(id string) string { return "resource:" + id }
func memberKey(id string) string   { return "member:" + id }

// locker serializes operations on the same resource or member through the
// advisory lock collection.
type locker struct {
	repo     repository.LockRepository
	clock    clock.Clock
	ttl      time.Duration
	attempts int
	delay    time.Duration
	log      *logger.Logger
}

// acquire takes every key in sorted order and returns a function releasing
// them. Held keys are retried; when retries run out the caller gets a
// Conflict and nothing stays locked.
func (l *locker) acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	owner := uuid.NewString()
	held := make([]string, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			// The caller's context may already be cancelled; locks must still go.
			if err := l.repo.Release(context.WithoutCancel(ctx), held[i], owner); err != nil {
				l.log.Warn("Failed to release reservation lock", "key", held[i], "error", err)
			}
		}
	}

	for _, key := range keys {
		if err := l.acquireOne(ctx, key, owner); err != nil {
			release()
			return nil, err
		}
		held = append(held, key)
	}
	return release, nil
}

func (l *locker) acquireOne(ctx context.Context, key, owner string) error {
	attempts := max(l.attempts, 1)
	for attempt := 1; ; attempt++ {
		err := l.repo.Acquire(ctx, key, owner, l.ttl, l.clock.Now())
		if err == nil {
			return nil
		}
		if !errors.Is(err, reservationerrors.ErrLockHeld) {
			return apperrors.Internal("Failed to acquire reservation lock", err)
		}

		metrics.LockContention.Inc()
		if attempt >= attempts {
			l.log.Warn("Reservation lock still held after retries", "key", key, "attempts", attempts)
			return apperrors.Wrap(reservationerrors.ErrLockHeld, apperrors.CodeConflict,
				"This slot is being booked by another request. Please try again.", http.StatusConflict)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.delay):
		}
	}
}
