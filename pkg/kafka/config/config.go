package kafka_config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvBrokers              = "KAFKA_BROKERS"
	EnvProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvProducerRequireAcks  = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"
	EnvProducerWriteTimeout = "KAFKA_PRODUCER_WRITE_TIMEOUT"
	EnvDLQTopic             = "KAFKA_DLQ_TOPIC"

	DefaultBrokers = "localhost:9092"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultProducerWriteTimeout = 5 * time.Second
)

var (
	compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}
	acks         = []int{-1, 0, 1}
)

// Config is the producer side of Kafka. Eventify never consumes.
type Config struct {
	Brokers []string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 all replicas, 0 none, 1 leader
	ProducerCompression  string // one of compressions
	ProducerWriteTimeout time.Duration

	// DLQTopic receives records the main topic rejected. Empty disables it.
	DLQTopic string
}

func Load() (*Config, error) {
	cfg := &Config{
		Brokers:              ParseBrokers(envStr(EnvBrokers, DefaultBrokers)),
		ProducerMaxAttempts:  envInt(EnvProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: envDuration(EnvProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:  envInt(EnvProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  strings.ToLower(envStr(EnvProducerCompression, DefaultProducerCompression)),
		ProducerWriteTimeout: envDuration(EnvProducerWriteTimeout, DefaultProducerWriteTimeout),
		DLQTopic:             envStr(EnvDLQTopic, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func (cfg *Config) Validate() error {
	var errs []error

	if len(cfg.Brokers) == 0 {
		errs = append(errs, errors.New("at least one Kafka broker is required"))
	}
	if cfg.ProducerMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvProducerMaxAttempts, cfg.ProducerMaxAttempts))
	}
	if cfg.ProducerBatchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", EnvProducerBatchTimeout, cfg.ProducerBatchTimeout))
	}
	if cfg.ProducerWriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", EnvProducerWriteTimeout, cfg.ProducerWriteTimeout))
	}
	if !contains(compressions, cfg.ProducerCompression) {
		errs = append(errs, fmt.Errorf("%s must be one of %v, got %q", EnvProducerCompression, compressions, cfg.ProducerCompression))
	}
	if !contains(acks, cfg.ProducerRequireAcks) {
		errs = append(errs, fmt.Errorf("%s must be one of %v, got %d", EnvProducerRequireAcks, acks, cfg.ProducerRequireAcks))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid Kafka configuration: %w", errors.Join(errs...))
	}
	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func envStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
