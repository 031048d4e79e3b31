package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"studiodesk/pkg/kafka"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/middleware"
	"studiodesk/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	sent []kafka.Message
	err  error
}

func (p *fakeProducer) Publish(_ context.Context, msg kafka.Message) error {
	p.sent = append(p.sent, msg)
	return p.err
}

func note(recipient string) *model.Notification {
	return &model.Notification{
		ID:          "n1",
		RecipientID: recipient,
		Kind:        model.NotificationReservationCreated,
		RefID:       "r1",
		Title:       "Booked",
		CreatedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestBroker_PublishesToAllSubscribers(t *testing.T) {
	b := NewBroker(logger.Discard())
	boom := errors.New("down")

	var got []string
	b.Subscribe(func(_ context.Context, n *model.Notification) error {
		got = append(got, "first:"+n.ID)
		return boom
	})
	b.Subscribe(func(_ context.Context, n *model.Notification) error {
		got = append(got, "second:"+n.ID)
		return nil
	})

	err := b.Publish(context.Background(), note("m1"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:n1", "second:n1"}, got)
}

func TestKafkaPublisher(t *testing.T) {
	producer := &fakeProducer{}
	p := NewKafkaPublisher(producer, "reservations")
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")

	require.NoError(t, p.Publish(ctx, note("m1")))
	require.NoError(t, p.Publish(context.Background(), note("")))
	require.Len(t, producer.sent, 2)

	msg := producer.sent[0]
	assert.Equal(t, "m1", msg.Key)
	assert.Equal(t, "n1", msg.GetEventID())
	assert.Equal(t, string(model.NotificationReservationCreated), msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())
	assert.Equal(t, broadcastKey, producer.sent[1].Key)

	var decoded model.Notification
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, "r1", decoded.RefID)
}

func TestNewMessageHandler(t *testing.T) {
	var delivered []string
	deliverErr := error(nil)
	h := NewMessageHandler(func(_ context.Context, n *model.Notification) error {
		delivered = append(delivered, n.ID)
		return deliverErr
	})

	producer := &fakeProducer{}
	require.NoError(t, NewKafkaPublisher(producer, "test").Publish(context.Background(), note("m1")))
	valid := producer.sent[0]

	require.NoError(t, h(context.Background(), valid))
	assert.Equal(t, []string{"n1"}, delivered)

	err := h(context.Background(), kafka.Message{Value: []byte("{not json")})
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))

	err = h(context.Background(), kafka.Message{Value: []byte(`{"title":"no id"}`)})
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))

	deliverErr = errors.New("push provider down")
	err = h(context.Background(), valid)
	assert.Equal(t, kafka.ErrorTypeTransient, kafka.ClassifyError(err))
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier(logger.Discard()).Deliver(context.Background(), note("")))
}
