package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studiodesk/internal/migrations/mongo/validators"
	mongodb "studiodesk/pkg/db/mongo"
	"studiodesk/pkg/logger"
)

var (
	ReservationsIndexes = []mongo.IndexModel{
		// Availability: scheduled reservations on a resource by time.
		{Keys: bson.D{
			{Key: "resource_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "member_id", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		// Sweep.
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "end_time", Value: 1},
		}},
	}

	ReservationLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	LedgerEntriesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "member_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{Keys: bson.D{{Key: "ref_id", Value: 1}}},
	}

	UsersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	NotificationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "recipient_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
	}

	NotificationReceiptsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient_id", Value: 1}}},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]collectionDef {
	return map[string]collectionDef{
		mongodb.CollectionReservations:         {Indexes: ReservationsIndexes, Validator: validators.ReservationValidator},
		mongodb.CollectionReservationLocks:     {Indexes: ReservationLocksIndexes, Validator: validators.ReservationLockValidator},
		mongodb.CollectionMembers:              {Validator: validators.MemberValidator},
		mongodb.CollectionLedgerEntries:        {Indexes: LedgerEntriesIndexes, Validator: validators.LedgerEntryValidator},
		mongodb.CollectionProfessionals:        {Validator: validators.ProfessionalValidator},
		mongodb.CollectionUsers:                {Indexes: UsersIndexes, Validator: validators.UserValidator},
		mongodb.CollectionNotifications:        {Indexes: NotificationsIndexes, Validator: validators.NotificationValidator},
		mongodb.CollectionNotificationReceipts: {Indexes: NotificationReceiptsIndexes, Validator: validators.NotificationReceiptValidator},
	}
}

// RunMigration creates every collection with its schema validator and
// indexes. It is safe to run repeatedly.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		log.Info("Collection already exists, updating validator", "collection", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			log.Warn("Failed updating validator", "collection", name, "error", err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
