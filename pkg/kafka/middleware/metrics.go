package kafka_middleware

import (
	"context"
	"time"

	"studiodesk/pkg/kafka"
	"studiodesk/pkg/metrics"
)

const (
	directionPublish = "publish"
	directionConsume = "consume"
)

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		observe(directionPublish, start, err)
		return err
	}
}

func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		observe(directionConsume, start, err)
		return err
	}
}

func observe(direction string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.KafkaMessages.WithLabelValues(direction, outcome).Inc()
	metrics.KafkaDuration.WithLabelValues(direction).Observe(time.Since(start).Seconds())
}
