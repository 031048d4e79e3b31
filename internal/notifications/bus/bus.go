// Package bus carries stored notifications to delivery subscribers, either in
// process or over Kafka.
package bus

import (
	"context"
	"errors"
	"sync"

	"studiodesk/pkg/logger"
	"studiodesk/pkg/model"
)

type Publisher interface {
	Publish(ctx context.Context, n *model.Notification) error
}

type Handler func(ctx context.Context, n *model.Notification) error

// Broker is the in-process bus. Publish runs every subscriber in order and
// reports their combined failures.
type Broker struct {
	mu          sync.RWMutex
	subscribers []Handler
	log         *logger.Logger
}

func NewBroker(log *logger.Logger) *Broker {
	return &Broker{log: log.Component("broker")}
}

func (b *Broker) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, h)
}

func (b *Broker) Publish(ctx context.Context, n *model.Notification) error {
	b.mu.RLock()
	subscribers := append([]Handler(nil), b.subscribers...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range subscribers {
		if err := h(ctx, n); err != nil {
			b.log.Warn("Subscriber failed", "notification_id", n.ID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
