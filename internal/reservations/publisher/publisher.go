package publisher

import (
	"context"
	"time"

	"eventify/pkg/kafka"
	"eventify/pkg/logger"
	"eventify/pkg/middleware"
	"eventify/pkg/model"
)

const (
	EventTypeCreated       = "reservation.created"
	EventTypeStatusChanged = "reservation.status_changed"

	schemaVersion = "1"
	source        = "eventify"
)

// Publisher announces committed reservation changes. Delivery is best effort:
// failures are logged and never reach the caller.
type Publisher interface {
	Created(ctx context.Context, reservation *model.Reservation)
	StatusChanged(ctx context.Context, reservation *model.Reservation, previous model.ReservationStatus)
}

// LifecycleEvent is the record value written for every reservation change.
type LifecycleEvent struct {
	ReservationID  string                  `json:"reservationId"`
	UserID         string                  `json:"userId"`
	EventID        string                  `json:"eventId"`
	Status         model.ReservationStatus `json:"status"`
	PreviousStatus model.ReservationStatus `json:"previousStatus,omitempty"`
	OccurredAt     time.Time               `json:"occurredAt"`
}

// Sender is the part of kafka.Producer the publisher needs.
type Sender interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	sender Sender
	log    *logger.Logger
}

func NewKafkaPublisher(sender Sender, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		sender: sender,
		log:    log,
	}
}

func (p *KafkaPublisher) Created(ctx context.Context, reservation *model.Reservation) {
	p.publish(ctx, EventTypeCreated, reservation, "")
}

func (p *KafkaPublisher) StatusChanged(ctx context.Context, reservation *model.Reservation, previous model.ReservationStatus) {
	p.publish(ctx, EventTypeStatusChanged, reservation, previous)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, reservation *model.Reservation, previous model.ReservationStatus) {
	msg, err := kafka.NewMessage().
		WithKey(reservation.EventID).
		WithValue(LifecycleEvent{
			ReservationID:  reservation.ID,
			UserID:         reservation.UserID,
			EventID:        reservation.EventID,
			Status:         reservation.Status,
			PreviousStatus: previous,
			OccurredAt:     reservation.UpdatedAt,
		}).
		WithEventType(eventType).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()
	if err != nil {
		p.log.Error("Failed to build reservation record", "reservationId", reservation.ID, "event_type", eventType, "error", err)
		return
	}

	// The HTTP response may finish before the write does.
	if err := p.sender.Publish(context.WithoutCancel(ctx), msg); err != nil {
		p.log.Warn("Failed to publish reservation record",
			"reservationId", reservation.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}

// Noop drops every record. Used when Kafka is disabled.
type Noop struct{}

func (Noop) Created(context.Context, *model.Reservation) {}

func (Noop) StatusChanged(context.Context, *model.Reservation, model.ReservationStatus) {}
