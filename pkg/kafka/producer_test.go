package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafka_config "eventify/pkg/kafka/config"
	"eventify/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *kafka_config.Config {
	return &kafka_config.Config{
		Brokers:              []string{"localhost:9092"},
		ProducerMaxAttempts:  1,
		ProducerBatchTimeout: 10 * time.Millisecond,
		ProducerRequireAcks:  -1,
		ProducerCompression:  "none",
		ProducerWriteTimeout: time.Second,
	}
}

func TestNewProducer_Validation(t *testing.T) {
	log := logger.Discard()

	_, err := NewProducer(nil, "reservations", log)
	assert.ErrorIs(t, err, ErrNoBrokers)

	_, err = NewProducer(&kafka_config.Config{}, "reservations", log)
	assert.ErrorIs(t, err, ErrNoBrokers)

	_, err = NewProducer(testConfig(), "", log)
	assert.ErrorIs(t, err, ErrNoTopic)

	p, err := NewProducer(testConfig(), "reservations", log)
	require.NoError(t, err)
	assert.Equal(t, "reservations", p.Topic())
	require.NoError(t, p.Close())
}

func TestPublish_RejectsIncompleteMessages(t *testing.T) {
	p, err := NewProducer(testConfig(), "reservations", logger.Discard())
	require.NoError(t, err)
	defer p.Close()

	err = p.Publish(context.Background(), Message{Value: []byte(`{}`)})
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = p.Publish(context.Background(), Message{Key: "event-1"})
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestPublish_MiddlewareOrder(t *testing.T) {
	p, err := NewProducer(testConfig(), "reservations", logger.Discard())
	require.NoError(t, err)
	defer p.Close()

	stop := errors.New("stop before writing")
	var order []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "outer")
		assert.Equal(t, "reservations", msg.Topic)
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "inner")
		return stop
	})

	err = p.Publish(context.Background(), Message{Key: "event-1", Value: []byte(`{}`)})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestPublish_Closed(t *testing.T) {
	p, err := NewProducer(testConfig(), "reservations", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	err = p.Publish(context.Background(), Message{Key: "event-1", Value: []byte(`{}`)})
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("event-1").
		WithValue(map[string]string{"status": "confirmed"}).
		WithEventType("reservation.status_changed").
		WithCorrelationID("").
		WithSchemaVersion("1").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "event-1", msg.Key)
	assert.JSONEq(t, `{"status":"confirmed"}`, string(msg.Value))
	assert.Equal(t, "reservation.status_changed", msg.GetEventType())
	assert.NotEmpty(t, msg.GetEventID())
	assert.Empty(t, msg.GetCorrelationID())

	_, err = NewMessage().WithValue(make(chan int)).Build()
	assert.Error(t, err)
}

func TestCompressionAndAcks(t *testing.T) {
	assert.Equal(t, compress.Gzip, compressionCodec("gzip"))
	assert.Equal(t, compress.Snappy, compressionCodec("unknown"))
	assert.Equal(t, kafka.RequireAll, requiredAcks(-1))
	assert.Equal(t, kafka.RequireOne, requiredAcks(1))
}
