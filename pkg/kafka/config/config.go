// Package kafka_config holds the broker settings shared by the reservation
// event producer and the notifier consumer.
package kafka_config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"studiodesk/pkg/logger"
)

type Config struct {
	Brokers     []string
	ClientID    string
	DialTimeout time.Duration

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 = all, 0 = none, 1 = leader only
	ProducerCompression  string // "none", "gzip", "snappy", "lz4", "zstd"

	ConsumerStartOffset       int64 // -1 = newest, -2 = oldest
	ConsumerMinBytes          int
	ConsumerMaxBytes          int
	ConsumerMaxWait           time.Duration
	ConsumerHeartbeatInterval time.Duration
	ConsumerSessionTimeout    time.Duration
	ConsumerRebalanceTimeout  time.Duration
	ConsumerMaxRetries        int
	ConsumerRetryBackoff      time.Duration
}

// Load reads the Kafka settings from the environment and validates them.
// serviceName becomes the default client id so broker logs can tell the
// reservations producer from the notifier consumer.
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Brokers:     parseBrokers(env(EnvKafkaBrokers, DefaultKafkaBrokers, identity)),
		ClientID:    env(EnvKafkaClientID, DefaultClientIDPrefix+serviceName, identity),
		DialTimeout: env(EnvKafkaDialTimeout, DefaultDialTimeout, time.ParseDuration),

		ProducerMaxAttempts:  env(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts, strconv.Atoi),
		ProducerBatchTimeout: env(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout, time.ParseDuration),
		ProducerRequireAcks:  env(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks, strconv.Atoi),
		ProducerCompression:  strings.ToLower(env(EnvKafkaProducerCompression, DefaultProducerCompression, identity)),

		ConsumerStartOffset:       env(EnvKafkaConsumerStartOffset, int64(DefaultConsumerStartOffset), parseInt64),
		ConsumerMinBytes:          DefaultConsumerMinBytes,
		ConsumerMaxBytes:          env(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes, strconv.Atoi),
		ConsumerMaxWait:           env(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait, time.ParseDuration),
		ConsumerHeartbeatInterval: env(EnvKafkaConsumerHeartbeatInterval, DefaultConsumerHeartbeatInterval, time.ParseDuration),
		ConsumerSessionTimeout:    env(EnvKafkaConsumerSessionTimeout, DefaultConsumerSessionTimeout, time.ParseDuration),
		ConsumerRebalanceTimeout:  DefaultConsumerRebalanceTimeout,
		ConsumerMaxRetries:        env(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries, strconv.Atoi),
		ConsumerRetryBackoff:      env(EnvKafkaConsumerRetryBackoff, DefaultConsumerRetryBackoff, time.ParseDuration),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(len(cfg.Brokers) > 0, "at least one Kafka broker is required")
	check(cfg.ClientID != "", "client id cannot be empty")
	check(cfg.DialTimeout > 0, "dial timeout must be positive, got %s", cfg.DialTimeout)

	check(cfg.ProducerMaxAttempts > 0, "producer max attempts must be positive, got %d", cfg.ProducerMaxAttempts)
	check(cfg.ProducerBatchTimeout > 0, "producer batch timeout must be positive, got %s", cfg.ProducerBatchTimeout)
	check(cfg.ProducerRequireAcks >= -1 && cfg.ProducerRequireAcks <= 1, "producer require acks must be -1, 0 or 1, got %d", cfg.ProducerRequireAcks)
	switch cfg.ProducerCompression {
	case "none", "gzip", "snappy", "lz4", "zstd":
	default:
		check(false, "producer compression must be one of none, gzip, snappy, lz4, zstd, got %q", cfg.ProducerCompression)
	}

	check(cfg.ConsumerStartOffset >= -2, "consumer start offset must be -1 (newest), -2 (oldest) or >= 0, got %d", cfg.ConsumerStartOffset)
	check(cfg.ConsumerMinBytes > 0 && cfg.ConsumerMaxBytes >= cfg.ConsumerMinBytes, "consumer max bytes must be at least %d, got %d", cfg.ConsumerMinBytes, cfg.ConsumerMaxBytes)
	check(cfg.ConsumerMaxWait > 0, "consumer max wait must be positive, got %s", cfg.ConsumerMaxWait)
	check(cfg.ConsumerHeartbeatInterval > 0 && cfg.ConsumerHeartbeatInterval < cfg.ConsumerSessionTimeout,
		"consumer heartbeat interval (%s) must be positive and below the session timeout (%s)", cfg.ConsumerHeartbeatInterval, cfg.ConsumerSessionTimeout)
	check(cfg.ConsumerMaxRetries >= 0, "consumer max retries cannot be negative, got %d", cfg.ConsumerMaxRetries)
	check(cfg.ConsumerRetryBackoff >= 0, "consumer retry backoff cannot be negative, got %s", cfg.ConsumerRetryBackoff)

	if len(errs) > 0 {
		return fmt.Errorf("invalid Kafka configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Info("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"client_id", cfg.ClientID,
		"producer_max_attempts", cfg.ProducerMaxAttempts,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
		"consumer_start_offset", cfg.ConsumerStartOffset,
		"consumer_max_retries", cfg.ConsumerMaxRetries,
		"consumer_retry_backoff", cfg.ConsumerRetryBackoff,
	)
}

// env returns the parsed value of key, or fallback when the variable is
// unset or does not parse.
func env[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

func identity(s string) (string, error) { return s, nil }

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

func parseBrokers(raw string) []string {
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}
