package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	notificationerrors "studiodesk/internal/notifications/errors"
	"studiodesk/internal/notifications/repository"
	"studiodesk/pkg/clock"
	"studiodesk/pkg/db"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/model"
)

// Mailbox is each user's view of their notifications with per-recipient
// read, deleted and archived state.
type Mailbox struct {
	notifications  repository.NotificationRepository
	receipts       repository.ReceiptRepository
	clock          clock.Clock
	adminRetention time.Duration
	log            *logger.Logger
}

func NewMailbox(
	notifications repository.NotificationRepository,
	receipts repository.ReceiptRepository,
	clk clock.Clock,
	adminRetention time.Duration,
	log *logger.Logger,
) *Mailbox {
	return &Mailbox{
		notifications:  notifications,
		receipts:       receipts,
		clock:          clk,
		adminRetention: adminRetention,
		log:            log.Component("mailbox"),
	}
}

// List returns the actor's visible notifications, newest first. Deleted
// items are dropped; admins only see the retention window unless an item
// was archived.
func (m *Mailbox) List(ctx context.Context, actor model.Actor, limit int, offset int64) ([]model.MailboxItem, int64, error) {
	notes, err := m.notifications.FindVisibleTo(ctx, actor.ID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve notifications", err)
	}
	receipts, err := m.receipts.FindByRecipient(ctx, actor.ID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve notification state", err)
	}

	cutoff := m.clock.Now().Add(-m.adminRetention)
	items := make([]model.MailboxItem, 0, len(notes))
	for _, n := range notes {
		item := model.MailboxItem{Notification: *n}
		if rc, ok := receipts[n.ID]; ok {
			if rc.Deleted {
				continue
			}
			item.Read = rc.Read
			item.Archived = rc.Archived
		}
		if actor.Role == model.RoleAdmin && m.adminRetention > 0 && !item.Archived && n.CreatedAt.Before(cutoff) {
			continue
		}
		items = append(items, item)
	}

	return db.Page(items, limit, offset), int64(len(items)), nil
}

func (m *Mailbox) MarkRead(ctx context.Context, actor model.Actor, notificationID string) error {
	return m.mark(ctx, actor, notificationID, repository.FlagRead)
}

func (m *Mailbox) MarkDeleted(ctx context.Context, actor model.Actor, notificationID string) error {
	return m.mark(ctx, actor, notificationID, repository.FlagDeleted)
}

func (m *Mailbox) Archive(ctx context.Context, actor model.Actor, notificationID string) error {
	return m.mark(ctx, actor, notificationID, repository.FlagArchived)
}

func (m *Mailbox) mark(ctx context.Context, actor model.Actor, notificationID string, flag repository.ReceiptFlag) error {
	n, err := m.notifications.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, notificationerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Notification", notificationID)
		}
		return apperrors.Internal("Failed to retrieve notification", err)
	}
	// Someone else's notification is reported as missing.
	if !n.IsGlobal() && n.RecipientID != actor.ID {
		return apperrors.Wrap(notificationerrors.ErrNotRecipient, apperrors.CodeNotFound, "Notification not found", http.StatusNotFound)
	}

	if err := m.receipts.Mark(ctx, notificationID, actor.ID, flag, m.clock.Now()); err != nil {
		return apperrors.Internal("Failed to update notification", err)
	}

	m.log.Debug("Notification marked", "notification_id", notificationID, "recipient_id", actor.ID, "flag", flag)
	return nil
}
