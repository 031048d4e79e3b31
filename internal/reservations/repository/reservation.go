package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationerrors "studiodesk/internal/reservations/errors"
	"studiodesk/pkg/config"
	"studiodesk/pkg/db"
	mongodb "studiodesk/pkg/db/mongo"
	"studiodesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReservationRepository is the authoritative reservation collection. Reads
// used for availability only ever see scheduled reservations.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	Find(ctx context.Context, filter model.ReservationFilter) ([]*model.Reservation, error)
	Count(ctx context.Context, filter model.ReservationFilter) (int64, error)
	FindScheduledOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Reservation, error)
	FindScheduledByMemberOverlapping(ctx context.Context, memberID string, start, end time.Time) ([]*model.Reservation, error)
	CountScheduledByMemberKind(ctx context.Context, memberID string, kind model.ReservationKind, from, to time.Time) (int64, error)
	// UpdateStatus moves a scheduled reservation to status. It fails with
	// ErrNotScheduled if the reservation already left scheduled.
	UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, now time.Time) error
	DeleteScheduled(ctx context.Context, id string) error
	Hide(ctx context.Context, id string, now time.Time) error
	// SweepExpired resolves scheduled reservations whose end is at or before
	// now and returns how many moved to each status.
	SweepExpired(ctx context.Context, now time.Time) (map[model.ReservationStatus]int64, error)
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionReservations),
	}
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.StartTime = mongodb.Now(reservation.StartTime)
	reservation.EndTime = mongodb.Now(reservation.EndTime)
	reservation.CreatedAt = mongodb.Now(reservation.CreatedAt)
	reservation.UpdatedAt = reservation.CreatedAt

	if _, err := r.collection.InsertOne(ctx, reservation); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create reservation: %w", db.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &reservation, nil
}

func buildFilter(f model.ReservationFilter) bson.M {
	filter := bson.M{}
	if f.MemberID != "" {
		filter["member_id"] = f.MemberID
	}
	if f.ResourceID != "" {
		filter["resource_id"] = f.ResourceID
	}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.IncludeHidden {
		filter["hidden"] = false
	}

	timeRange := bson.M{}
	if !f.From.IsZero() {
		timeRange["$gte"] = f.From
	}
	if !f.To.IsZero() {
		timeRange["$lt"] = f.To
	}
	if len(timeRange) > 0 {
		filter["start_time"] = timeRange
	}
	return filter
}

func (r *mongoReservationRepository) Find(ctx context.Context, f model.ReservationFilter) ([]*model.Reservation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(f.Offset)
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	return r.find(ctx, buildFilter(f), opts)
}

func (r *mongoReservationRepository) Count(ctx context.Context, f model.ReservationFilter) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(f))
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) FindScheduledOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{
		"resource_id": resourceID,
		"status":      model.StatusScheduled,
		"start_time":  bson.M{"$lt": end},
		"end_time":    bson.M{"$gt": start},
	}, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *mongoReservationRepository) FindScheduledByMemberOverlapping(ctx context.Context, memberID string, start, end time.Time) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{
		"member_id":  memberID,
		"status":     model.StatusScheduled,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *mongoReservationRepository) CountScheduledByMemberKind(ctx context.Context, memberID string, kind model.ReservationKind, from, to time.Time) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"member_id":  memberID,
		"kind":       kind,
		"status":     model.StatusScheduled,
		"start_time": bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count member reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Reservation, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var reservations []*model.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, now time.Time) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.StatusScheduled},
		bson.M{"$set": bson.M{"status": status, "updated_at": mongodb.Now(now)}},
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.missOrNotScheduled(ctx, id)
	}
	return nil
}

func (r *mongoReservationRepository) DeleteScheduled(ctx context.Context, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "status": model.StatusScheduled})
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if result.DeletedCount == 0 {
		return r.missOrNotScheduled(ctx, id)
	}
	return nil
}

func (r *mongoReservationRepository) Hide(ctx context.Context, id string, now time.Time) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"hidden": true, "updated_at": mongodb.Now(now)}},
	)
	if err != nil {
		return fmt.Errorf("failed to hide reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationerrors.ErrNotFound
	}
	return nil
}

func (r *mongoReservationRepository) SweepExpired(ctx context.Context, now time.Time) (map[model.ReservationStatus]int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now = mongodb.Now(now)
	passes := []struct {
		kind   bson.M
		status model.ReservationStatus
	}{
		{bson.M{"$eq": model.KindTrainingRoom}, model.StatusAttended},
		{bson.M{"$ne": model.KindTrainingRoom}, model.StatusAbsent},
	}

	moved := make(map[model.ReservationStatus]int64, len(passes))
	for _, pass := range passes {
		result, err := r.collection.UpdateMany(ctx,
			bson.M{
				"status":   model.StatusScheduled,
				"kind":     pass.kind,
				"end_time": bson.M{"$lte": now},
			},
			bson.M{"$set": bson.M{"status": pass.status, "updated_at": now}},
		)
		if err != nil {
			return moved, fmt.Errorf("failed to sweep expired reservations: %w", err)
		}
		moved[pass.status] += result.ModifiedCount
	}
	return moved, nil
}

func (r *mongoReservationRepository) missOrNotScheduled(ctx context.Context, id string) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return reservationerrors.ErrNotScheduled
}
