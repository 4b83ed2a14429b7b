package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "eventify/internal/reservations/errors"
	"eventify/pkg/config"
	"eventify/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "reservations"
)

type ReservationRepository interface {
	// Create inserts a reservation. A second active reservation for the same
	// user and event is rejected by the store with ErrDuplicate.
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	// FindOwned returns the reservation only if it belongs to userID.
	FindOwned(ctx context.Context, id, userID string) (*model.Reservation, error)
	// FindActive returns the pending or confirmed reservation of userID for eventID.
	FindActive(ctx context.Context, userID, eventID string) (*model.Reservation, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Reservation, error)
	// FindAll lists every reservation, or those of one event when eventID is set.
	FindAll(ctx context.Context, eventID string) ([]*model.Reservation, error)
	// UpdateStatus moves the reservation from one status to another. The write
	// only lands while the stored status still equals from; otherwise it
	// returns ErrStatusConflict.
	UpdateStatus(ctx context.Context, id string, from, to model.ReservationStatus) (*model.Reservation, error)
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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
		return primitive.NilObjectID, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.ID = ""
	reservation.SetStatus(reservation.Status)
	reservation.CreatedAt = now()
	reservation.UpdatedAt = reservation.CreatedAt

	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservationserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoReservationRepository) FindOwned(ctx context.Context, id, userID string) (*model.Reservation, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid, "user_id": userID})
}

func (r *mongoReservationRepository) FindActive(ctx context.Context, userID, eventID string) (*model.Reservation, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "event_id": eventID, "active": true})
}

func (r *mongoReservationRepository) findOne(ctx context.Context, filter bson.M) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, filter).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) FindByUser(ctx context.Context, userID string) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *mongoReservationRepository) FindAll(ctx context.Context, eventID string) ([]*model.Reservation, error) {
	filter := bson.M{}
	if eventID != "" {
		filter["event_id"] = eventID
	}
	return r.find(ctx, filter)
}

func (r *mongoReservationRepository) find(ctx context.Context, filter bson.M) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []*model.Reservation{}
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id string, from, to model.ReservationStatus) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid, "status": from}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"active":     to.IsActive(),
		"updated_at": now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var reservation model.Reservation
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.missOrConflict(ctx, oid)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, reservationserrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) missOrConflict(ctx context.Context, oid primitive.ObjectID) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to check reservation: %w", err)
	}
	if count == 0 {
		return reservationserrors.ErrNotFound
	}
	return reservationserrors.ErrStatusConflict
}
