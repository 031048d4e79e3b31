package model

import "time"

type NotificationKind string

const (
	NotificationReservationCreated   NotificationKind = "reservation_created"
	NotificationReservationCancelled NotificationKind = "reservation_cancelled"
	NotificationStatusChanged        NotificationKind = "status_changed"
	NotificationNotice               NotificationKind = "notice"
)

// Notification is a single delivered event. An empty RecipientID marks a
// global notice visible to every user.
type Notification struct {
	ID              string           `json:"id" bson:"_id"`
	RecipientID     string           `json:"recipient_id" bson:"recipient_id"`
	Kind            NotificationKind `json:"kind" bson:"kind"`
	RefID           string           `json:"ref_id,omitempty" bson:"ref_id,omitempty"`
	ReservationKind ReservationKind  `json:"reservation_kind,omitempty" bson:"reservation_kind,omitempty"`
	Title           string           `json:"title" bson:"title"`
	Message         string           `json:"message" bson:"message"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at"`
}

func (n *Notification) IsGlobal() bool {
	return n.RecipientID == ""
}

// Receipt is one recipient's view state of a notification.
type Receipt struct {
	ID             string    `json:"id" bson:"_id"`
	NotificationID string    `json:"notification_id" bson:"notification_id"`
	RecipientID    string    `json:"recipient_id" bson:"recipient_id"`
	Read           bool      `json:"read" bson:"read"`
	Deleted        bool      `json:"deleted" bson:"deleted"`
	Archived       bool      `json:"archived" bson:"archived"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

func ReceiptID(notificationID, recipientID string) string {
	return notificationID + ":" + recipientID
}

type MailboxItem struct {
	Notification
	Read     bool `json:"read"`
	Archived bool `json:"archived"`
}

type NoticeCreate struct {
	Title   string `json:"title" validate:"required,min=1,max=120"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
}
