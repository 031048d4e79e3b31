package bus

import (
	"context"

	"studiodesk/pkg/logger"
	"studiodesk/pkg/model"
)

// LogNotifier is the push channel used until a real provider is configured.
// It records each delivery as a structured log line.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("notifier")}
}

func (n *LogNotifier) Deliver(_ context.Context, note *model.Notification) error {
	recipient := note.RecipientID
	if note.IsGlobal() {
		recipient = "*"
	}
	n.log.Info("Push notification sent",
		"notification_id", note.ID,
		"recipient_id", recipient,
		"kind", note.Kind,
		"ref_id", note.RefID,
		"title", note.Title,
	)
	return nil
}
