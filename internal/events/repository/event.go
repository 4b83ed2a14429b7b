package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventserrors "eventify/internal/events/errors"
	"eventify/pkg/config"
	"eventify/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "events"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Event, error)
	FindAll(ctx context.Context) ([]*model.Event, error)
	FindByStatus(ctx context.Context, status model.EventStatus) ([]*model.Event, error)
	// Update applies the non-nil fields of update. When the status changes, the
	// write only lands if the stored status still equals expectedStatus; when the
	// capacity changes, only if reserved places still fit. A failed guard returns
	// ErrUpdateConflict.
	Update(ctx context.Context, id string, update *model.EventUpdate, expectedStatus model.EventStatus) (*model.Event, error)
	// Delete removes the event and returns it, or nil when nothing matched.
	Delete(ctx context.Context, id string) (*model.Event, error)
	// IncrementReserved adds one reserved place if and only if one is still free.
	IncrementReserved(ctx context.Context, id string) error
	// DecrementReserved gives back one reserved place if any is taken.
	DecrementReserved(ctx context.Context, id string) error
}

type mongoEventRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without losing the session, so it is
// returned unchanged with a no-op cancel.
func (r *mongoEventRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoEventRepository) Create(ctx context.Context, event *model.Event) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	event.ID = ""
	event.CreatedAt = now()
	event.UpdatedAt = event.CreatedAt

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid.Hex()
	}
	return nil
}

func (r *mongoEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var event model.Event
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, eventserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return &event, nil
}

func (r *mongoEventRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Event, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*model.Event{}, nil
	}

	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *mongoEventRepository) FindAll(ctx context.Context) ([]*model.Event, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoEventRepository) FindByStatus(ctx context.Context, status model.EventStatus) ([]*model.Event, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *mongoEventRepository) find(ctx context.Context, filter bson.M) ([]*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*model.Event{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	return events, nil
}

func (r *mongoEventRepository) Update(ctx context.Context, id string, update *model.EventUpdate, expectedStatus model.EventStatus) (*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid}
	set := bson.M{"updated_at": now()}

	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Date != nil {
		set["date"] = update.Date.UTC()
	}
	if update.Capacity != nil {
		set["capacity"] = *update.Capacity
		filter["reserved_places"] = bson.M{"$lte": *update.Capacity}
	}
	if update.Status != nil {
		set["status"] = *update.Status
		filter["status"] = expectedStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event model.Event
	err = r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.missOrConflict(ctx, oid)
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &event, nil
}

// missOrConflict tells a missing event apart from a guard that rejected the write.
func (r *mongoEventRepository) missOrConflict(ctx context.Context, oid primitive.ObjectID) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to check event: %w", err)
	}
	if count == 0 {
		return eventserrors.ErrNotFound
	}
	return eventserrors.ErrUpdateConflict
}

func (r *mongoEventRepository) Delete(ctx context.Context, id string) (*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var event model.Event
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}

	return &event, nil
}

func (r *mongoEventRepository) IncrementReserved(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id":   oid,
		"$expr": bson.M{"$lt": bson.A{"$reserved_places", "$capacity"}},
	}
	update := bson.M{
		"$inc": bson.M{"reserved_places": 1},
		"$set": bson.M{"updated_at": now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve place: %w", err)
	}

	if result.MatchedCount == 0 {
		err := r.missOrConflict(ctx, oid)
		if errors.Is(err, eventserrors.ErrUpdateConflict) {
			return eventserrors.ErrCapacityExceeded
		}
		return err
	}
	return nil
}

func (r *mongoEventRepository) DecrementReserved(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id":             oid,
		"reserved_places": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"reserved_places": -1},
		"$set": bson.M{"updated_at": now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release place: %w", err)
	}

	if result.MatchedCount == 0 {
		err := r.missOrConflict(ctx, oid)
		if errors.Is(err, eventserrors.ErrUpdateConflict) {
			return eventserrors.ErrCounterUnderflow
		}
		return err
	}
	return nil
}
