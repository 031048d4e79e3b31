package repository

import (
	"context"
	"fmt"
	"time"

	reservationerrors "studiodesk/internal/reservations/errors"
	"studiodesk/pkg/config"
	mongodb "studiodesk/pkg/db/mongo"
	"studiodesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LockRepository stores advisory locks keyed by resource or member. Locks
// expire after their TTL so a crashed holder cannot block a key forever.
type LockRepository interface {
	Acquire(ctx context.Context, key, owner string, ttl time.Duration, now time.Time) error
	Release(ctx context.Context, key, owner string) error
}

type mongoLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLockRepository(cfg *config.Config) LockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLockRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionReservationLocks),
	}
}

// Acquire returns ErrLockHeld if an unexpired lock exists for key.
func (r *mongoLockRepository) Acquire(ctx context.Context, key, owner string, ttl time.Duration, now time.Time) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now = mongodb.Now(now)
	// The TTL monitor runs once a minute, so stale locks are cleared here too.
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key, "expires_at": bson.M{"$lte": now}}); err != nil {
		return fmt.Errorf("failed to clear expired lock: %w", err)
	}

	lock := &model.ReservationLock{
		ID:        key,
		Owner:     owner,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservationerrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	return nil
}

func (r *mongoLockRepository) Release(ctx context.Context, key, owner string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key, "owner": owner}); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
