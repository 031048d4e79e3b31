package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	ledgererrors "studiodesk/internal/ledger/errors"
	"studiodesk/pkg/config"
	mongodb "studiodesk/pkg/db/mongo"
	"studiodesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*model.Member, error)
	Upsert(ctx context.Context, member *model.Member) error
	// AdjustBalance adds delta to one counter and returns the new value. A
	// negative delta only applies if the counter stays non-negative.
	AdjustBalance(ctx context.Context, memberID string, ticket model.TicketType, delta int) (int, error)
}

type mongoMemberRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMemberRepository(cfg *config.Config) MemberRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMemberRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionMembers),
	}
}

func (r *mongoMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var member model.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledgererrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return &member, nil
}

func (r *mongoMemberRepository) Upsert(ctx context.Context, member *model.Member) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	member.UpdatedAt = mongodb.Now(time.Now())
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": member.ID}, member, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}

func (r *mongoMemberRepository) AdjustBalance(ctx context.Context, memberID string, ticket model.TicketType, delta int) (int, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	field := ticket.Field()
	filter := bson.M{"_id": memberID}
	if delta < 0 {
		filter[field] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{field: delta},
		"$set": bson.M{"updated_at": mongodb.Now(time.Now())},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var member model.Member
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&member)
	if err == nil {
		return member.Balances.Get(ticket), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}

	if _, findErr := r.FindByID(ctx, memberID); findErr != nil {
		return 0, findErr
	}
	return 0, ledgererrors.ErrInsufficientBalance
}
