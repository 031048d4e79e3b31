package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("notifier")
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, "studiodesk-notifier", cfg.ClientID)
	assert.Equal(t, DefaultProducerRequireAcks, cfg.ProducerRequireAcks)
	assert.Equal(t, int64(DefaultConsumerStartOffset), cfg.ConsumerStartOffset)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " b1:9092 , ,b2:9092")
	t.Setenv(EnvKafkaClientID, "desk-1")
	t.Setenv(EnvKafkaProducerCompression, "ZSTD")
	t.Setenv(EnvKafkaConsumerRetryBackoff, "2s")
	t.Setenv(EnvKafkaConsumerMaxRetries, "not-a-number")

	cfg, err := Load("reservations")
	require.NoError(t, err)

	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Brokers)
	assert.Equal(t, "desk-1", cfg.ClientID)
	assert.Equal(t, "zstd", cfg.ProducerCompression)
	assert.Equal(t, 2*time.Second, cfg.ConsumerRetryBackoff)
	assert.Equal(t, DefaultConsumerMaxRetries, cfg.ConsumerMaxRetries)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no brokers", func(c *Config) { c.Brokers = nil }, "broker"},
		{"bad acks", func(c *Config) { c.ProducerRequireAcks = 2 }, "require acks"},
		{"bad compression", func(c *Config) { c.ProducerCompression = "brotli" }, "compression"},
		{"heartbeat above session", func(c *Config) { c.ConsumerHeartbeatInterval = time.Minute }, "heartbeat"},
		{"negative retries", func(c *Config) { c.ConsumerMaxRetries = -1 }, "max retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("test")
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
