package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultProducerCompression, cfg.ProducerCompression)
	assert.Empty(t, cfg.DLQTopic)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvBrokers, "a:9092, ,b:9092")
	t.Setenv(EnvProducerBatchTimeout, "50ms")
	t.Setenv(EnvDLQTopic, "reservations.dlq")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Brokers)
	assert.Equal(t, 50*time.Millisecond, cfg.ProducerBatchTimeout)
	assert.Equal(t, "reservations.dlq", cfg.DLQTopic)
}

func TestValidate(t *testing.T) {
	t.Setenv(EnvProducerCompression, "brotli")
	_, err := Load()
	assert.ErrorContains(t, err, EnvProducerCompression)

	t.Setenv(EnvProducerCompression, "gzip")
	t.Setenv(EnvProducerRequireAcks, "2")
	_, err = Load()
	assert.ErrorContains(t, err, EnvProducerRequireAcks)
}
