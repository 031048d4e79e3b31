package repository

import (
	"context"
	"fmt"

	"studiodesk/pkg/config"
	mongodb "studiodesk/pkg/db/mongo"
	"studiodesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JournalRepository is the append-only record of balance movements.
type JournalRepository interface {
	Append(ctx context.Context, entry *model.LedgerEntry) error
	FindByMember(ctx context.Context, memberID string, limit int, offset int64) ([]*model.LedgerEntry, error)
	CountByMember(ctx context.Context, memberID string) (int64, error)
}

type mongoJournalRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoJournalRepository(cfg *config.Config) JournalRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoJournalRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionLedgerEntries),
	}
}

func (r *mongoJournalRepository) Append(ctx context.Context, entry *model.LedgerEntry) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	entry.CreatedAt = mongodb.Now(entry.CreatedAt)
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (r *mongoJournalRepository) FindByMember(ctx context.Context, memberID string, limit int, offset int64) ([]*model.LedgerEntry, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"member_id": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entries: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var entries []*model.LedgerEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode ledger entries: %w", err)
	}
	return entries, nil
}

func (r *mongoJournalRepository) CountByMember(ctx context.Context, memberID string) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}
