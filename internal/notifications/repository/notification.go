package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	notificationerrors "studiodesk/internal/notifications/errors"
	"studiodesk/pkg/config"
	mongodb "studiodesk/pkg/db/mongo"
	"studiodesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	// Save stores notifications that do not exist yet. Re-saving the same id
	// is a no-op.
	Save(ctx context.Context, notifications []*model.Notification) error
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	// FindVisibleTo returns the recipient's own and global notifications,
	// newest first.
	FindVisibleTo(ctx context.Context, recipientID string) ([]*model.Notification, error)
}

type ReceiptFlag string

const (
	FlagRead     ReceiptFlag = "read"
	FlagDeleted  ReceiptFlag = "deleted"
	FlagArchived ReceiptFlag = "archived"
)

type ReceiptRepository interface {
	FindByRecipient(ctx context.Context, recipientID string) (map[string]*model.Receipt, error)
	Mark(ctx context.Context, notificationID, recipientID string, flag ReceiptFlag, now time.Time) error
}

type mongoNotificationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoNotificationRepository(cfg *config.Config) NotificationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoNotificationRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionNotifications),
	}
}

func (r *mongoNotificationRepository) Save(ctx context.Context, notifications []*model.Notification) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	for _, n := range notifications {
		n.CreatedAt = mongodb.Now(n.CreatedAt)
		_, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": n.ID},
			bson.M{"$setOnInsert": bson.M{
				"recipient_id":     n.RecipientID,
				"kind":             n.Kind,
				"ref_id":           n.RefID,
				"reservation_kind": n.ReservationKind,
				"title":            n.Title,
				"message":          n.Message,
				"created_at":       n.CreatedAt,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to save notification: %w", err)
		}
	}
	return nil
}

func (r *mongoNotificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var n model.Notification
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notificationerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	return &n, nil
}

func (r *mongoNotificationRepository) FindVisibleTo(ctx context.Context, recipientID string) ([]*model.Notification, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"recipient_id": bson.M{"$in": []string{recipientID, ""}}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var notifications []*model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

type mongoReceiptRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReceiptRepository(cfg *config.Config) ReceiptRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReceiptRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionNotificationReceipts),
	}
}

func (r *mongoReceiptRepository) FindByRecipient(ctx context.Context, recipientID string) (map[string]*model.Receipt, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"recipient_id": recipientID})
	if err != nil {
		return nil, fmt.Errorf("failed to find receipts: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var receipts []*model.Receipt
	if err := cursor.All(ctx, &receipts); err != nil {
		return nil, fmt.Errorf("failed to decode receipts: %w", err)
	}

	byNotification := make(map[string]*model.Receipt, len(receipts))
	for _, rc := range receipts {
		byNotification[rc.NotificationID] = rc
	}
	return byNotification, nil
}

func (r *mongoReceiptRepository) Mark(ctx context.Context, notificationID, recipientID string, flag ReceiptFlag, now time.Time) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": model.ReceiptID(notificationID, recipientID)},
		bson.M{
			"$set": bson.M{string(flag): true, "updated_at": mongodb.Now(now)},
			"$setOnInsert": bson.M{
				"notification_id": notificationID,
				"recipient_id":    recipientID,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s: %w", flag, err)
	}
	return nil
}
