package repository

import (
	"context"
	"sort"
	"time"

	notificationerrors "studiodesk/internal/notifications/errors"
	"studiodesk/pkg/db/memory"
	"studiodesk/pkg/model"
)

type memoryNotificationRepository struct {
	store         *memory.Store
	notifications *memory.Collection[model.Notification]
}

func NewMemoryNotificationRepository(store *memory.Store) NotificationRepository {
	return &memoryNotificationRepository{
		store:         store,
		notifications: memory.NewCollection[model.Notification](store),
	}
}

func (r *memoryNotificationRepository) Save(ctx context.Context, notifications []*model.Notification) error {
	return r.store.Do(ctx, func() error {
		for _, n := range notifications {
			if _, exists := r.notifications.Get(n.ID); !exists {
				r.notifications.Put(n.ID, *n)
			}
		}
		return nil
	})
}

func (r *memoryNotificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	var out *model.Notification
	err := r.store.Do(ctx, func() error {
		n, ok := r.notifications.Get(id)
		if !ok {
			return notificationerrors.ErrNotFound
		}
		out = &n
		return nil
	})
	return out, err
}

func (r *memoryNotificationRepository) FindVisibleTo(ctx context.Context, recipientID string) ([]*model.Notification, error) {
	var out []*model.Notification
	err := r.store.Do(ctx, func() error {
		found := r.notifications.Filter(func(n model.Notification) bool {
			return n.RecipientID == recipientID || n.IsGlobal()
		})
		sort.SliceStable(found, func(i, j int) bool {
			return found[i].CreatedAt.After(found[j].CreatedAt)
		})
		for i := range found {
			out = append(out, &found[i])
		}
		return nil
	})
	return out, err
}

type memoryReceiptRepository struct {
	store    *memory.Store
	receipts *memory.Collection[model.Receipt]
}

func NewMemoryReceiptRepository(store *memory.Store) ReceiptRepository {
	return &memoryReceiptRepository{
		store:    store,
		receipts: memory.NewCollection[model.Receipt](store),
	}
}

func (r *memoryReceiptRepository) FindByRecipient(ctx context.Context, recipientID string) (map[string]*model.Receipt, error) {
	out := map[string]*model.Receipt{}
	err := r.store.Do(ctx, func() error {
		for _, rc := range r.receipts.Filter(func(rc model.Receipt) bool { return rc.RecipientID == recipientID }) {
			out[rc.NotificationID] = &rc
		}
		return nil
	})
	return out, err
}

func (r *memoryReceiptRepository) Mark(ctx context.Context, notificationID, recipientID string, flag ReceiptFlag, now time.Time) error {
	return r.store.Do(ctx, func() error {
		id := model.ReceiptID(notificationID, recipientID)
		rc, ok := r.receipts.Get(id)
		if !ok {
			rc = model.Receipt{ID: id, NotificationID: notificationID, RecipientID: recipientID}
		}
		switch flag {
		case FlagRead:
			rc.Read = true
		case FlagDeleted:
			rc.Deleted = true
		case FlagArchived:
			rc.Archived = true
		}
		rc.UpdatedAt = now
		r.receipts.Put(id, rc)
		return nil
	})
}
