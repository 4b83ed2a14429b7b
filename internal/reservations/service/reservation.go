package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	eventsservice "eventify/internal/events/service"
	reservationserrors "eventify/internal/reservations/errors"
	"eventify/internal/reservations/publisher"
	"eventify/internal/reservations/repository"
	"eventify/internal/reservations/validator"
	"eventify/pkg/config"
	mongotx "eventify/pkg/db/mongo"
	apperrors "eventify/pkg/errors"
	"eventify/pkg/model"
)

const ownershipMessage = "Reservation not found or not yours"

const (
	compensationAttempts = 3
	compensationBackoff  = 20 * time.Millisecond
)

type ReservationService interface {
	// Create books a pending reservation for userID on eventID. It does not take a seat.
	Create(ctx context.Context, userID, eventID string) (*model.Reservation, error)
	// UpdateStatus applies an administrator decision. Confirming takes a seat and
	// canceling a confirmed reservation gives it back, in the same unit of work
	// as the status change.
	UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error)
	// CancelOwn cancels a reservation on behalf of its owner.
	CancelOwn(ctx context.Context, userID, id string) (*model.Reservation, error)
	// GetOwned returns the reservation only when userID owns it. Absence and
	// foreign ownership produce the same NOT_FOUND.
	GetOwned(ctx context.Context, userID, id string) (*model.Reservation, error)
	ListMine(ctx context.Context, userID string) ([]*model.ReservationView, error)
	ListAll(ctx context.Context, eventID string) ([]*model.ReservationView, error)
}

// UserLookup resolves the users attached to administrator listings.
type UserLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]*model.User, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	events    eventsservice.EventService
	users     UserLookup
	txManager mongotx.TransactionManager
	publisher publisher.Publisher
	validator *validator.ReservationValidator
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	events eventsservice.EventService,
	users UserLookup,
	txManager mongotx.TransactionManager,
	publisher publisher.Publisher,
	validator *validator.ReservationValidator,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		events:    events,
		users:     users,
		txManager: txManager,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, userID, eventID string) (*model.Reservation, error) {
	req := &model.CreateReservationRequest{EventID: eventID}
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "user_id", userID, "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"errors": err})
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.NotFound("Event")
		}
		return nil, err
	}

	if event.Status != model.EventStatusPublished {
		return nil, apperrors.InvalidState("Cannot book an unpublished event")
	}
	if event.IsFull() {
		return nil, apperrors.CapacityExceeded("Event is fully booked").WithDetails(map[string]any{
			"capacity":        event.Capacity,
			"reservedPlaces": event.ReservedPlaces,
		})
	}

	if _, err := s.repo.FindActive(ctx, userID, eventID); err == nil {
		return nil, apperrors.DuplicateReservation("You already have an active reservation for this event")
	} else if !errors.Is(err, reservationserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check existing reservations", "user_id", userID, "event_id", eventID, "error", err)
		return nil, apperrors.Internal("Failed to create reservation", err)
	}

	reservation := &model.Reservation{
		UserID:  userID,
		EventID: eventID,
	}
	reservation.SetStatus(model.ReservationStatusPending)

	if err := s.repo.Create(ctx, reservation); err != nil {
		if errors.Is(err, reservationserrors.ErrDuplicate) {
			return nil, apperrors.DuplicateReservation("You already have an active reservation for this event")
		}
		s.cfg.Log.Error("Failed to create reservation", "user_id", userID, "event_id", eventID, "error", err)
		return nil, apperrors.Internal("Failed to create reservation", err)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"user_id", userID,
		"event_id", eventID,
	)
	s.publisher.Created(ctx, reservation)
	return reservation, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error) {
	update := &model.ReservationStatusUpdate{Status: status}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Reservation status validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid status", map[string]any{"errors": err})
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve reservation")
	}

	return s.transition(ctx, current, status)
}

func (s *reservationService) CancelOwn(ctx context.Context, userID, id string) (*model.Reservation, error) {
	current, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if current.Status == model.ReservationStatusCanceled {
		return nil, apperrors.InvalidState("Reservation is already canceled")
	}

	return s.transition(ctx, current, model.ReservationStatusCanceled)
}

func (s *reservationService) GetOwned(ctx context.Context, userID, id string) (*model.Reservation, error) {
	reservation, err := s.repo.FindOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) || errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.New(apperrors.CodeNotFound, ownershipMessage, http.StatusNotFound)
		}
		return nil, s.mapRepoError(err, id, "Failed to retrieve reservation")
	}
	return reservation, nil
}

// transition moves current to next together with the seat counter. With
// transactions enabled both writes commit or abort together. Without them,
// a counter move is reversed when the status write does not land.
func (s *reservationService) transition(ctx context.Context, current *model.Reservation, next model.ReservationStatus) (*model.Reservation, error) {
	if !current.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidState(fmt.Sprintf("Cannot change reservation from %s to %s", current.Status, next))
	}

	delta := seatDelta(current.Status, next)

	var updated *model.Reservation
	err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.moveSeat(txCtx, current.EventID, delta); err != nil {
			return err
		}

		res, err := s.repo.UpdateStatus(txCtx, current.ID, current.Status, next)
		if err != nil {
			if !mongotx.InTransaction(txCtx) {
				s.compensate(txCtx, current, delta)
			}
			return s.mapStatusWriteError(err, current.ID)
		}

		updated = res
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			s.cfg.Log.Error("Reservation status change failed", "id", current.ID, "error", err)
			return nil, apperrors.Internal("Failed to update reservation", err)
		}
		s.cfg.Log.Warn("Reservation status change rejected",
			"id", current.ID,
			"from", current.Status,
			"to", next,
			"error", err,
		)
		return nil, err
	}

	if delta != 0 {
		s.events.InvalidateListings(ctx)
	}

	s.cfg.Log.Info("Reservation status changed",
		"id", updated.ID,
		"event_id", updated.EventID,
		"from", current.Status,
		"to", updated.Status,
	)
	s.publisher.StatusChanged(ctx, updated, current.Status)
	return updated, nil
}

// seatDelta is the change to the event's reserved places a transition implies.
func seatDelta(from, to model.ReservationStatus) int {
	switch {
	case to == model.ReservationStatusConfirmed && from != model.ReservationStatusConfirmed:
		return 1
	case from == model.ReservationStatusConfirmed && to != model.ReservationStatusConfirmed:
		return -1
	default:
		return 0
	}
}

func (s *reservationService) moveSeat(ctx context.Context, eventID string, delta int) error {
	switch delta {
	case 1:
		return s.events.ReserveSeat(ctx, eventID)
	case -1:
		return s.events.ReleaseSeat(ctx, eventID)
	default:
		return nil
	}
}

// compensate reverses a counter move whose status write did not land. A
// counter still off after the last attempt stays drifted until the event is
// recounted from its confirmed reservations.
func (s *reservationService) compensate(ctx context.Context, current *model.Reservation, delta int) {
	if delta == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var err error
	for attempt := 1; attempt <= compensationAttempts; attempt++ {
		if err = s.moveSeat(ctx, current.EventID, -delta); err == nil {
			s.cfg.Log.Warn("Compensated seat counter after failed status write",
				"reservation_id", current.ID,
				"event_id", current.EventID,
				"delta", -delta,
				"attempt", attempt,
			)
			return
		}
		if attempt < compensationAttempts {
			time.Sleep(time.Duration(attempt) * compensationBackoff)
		}
	}

	s.cfg.Log.Error("Seat counter drifted, recount required",
		"reservation_id", current.ID,
		"event_id", current.EventID,
		"delta", -delta,
		"attempts", compensationAttempts,
		"error", err,
	)
}

func (s *reservationService) mapStatusWriteError(err error, id string) error {
	switch {
	case errors.Is(err, reservationserrors.ErrStatusConflict):
		return apperrors.InvalidState("Reservation was modified concurrently")
	case errors.Is(err, reservationserrors.ErrDuplicate):
		return apperrors.DuplicateReservation("Another active reservation exists for this event")
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	default:
		return err
	}
}

func (s *reservationService) ListMine(ctx context.Context, userID string) ([]*model.ReservationView, error) {
	reservations, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}

	events, err := s.events.GetByIDs(ctx, eventIDs(reservations))
	if err != nil {
		return nil, err
	}

	views := make([]*model.ReservationView, 0, len(reservations))
	for _, r := range reservations {
		view := &model.ReservationView{Reservation: *r}
		if e, ok := events[r.EventID]; ok {
			view.Event = &model.EventSummary{ID: e.ID, Title: e.Title, Date: e.Date, Location: e.Location}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *reservationService) ListAll(ctx context.Context, eventID string) ([]*model.ReservationView, error) {
	reservations, err := s.repo.FindAll(ctx, eventID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "event_id", eventID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}

	events, err := s.events.GetByIDs(ctx, eventIDs(reservations))
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(reservations))
	seen := make(map[string]bool, len(reservations))
	for _, r := range reservations {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			userIDs = append(userIDs, r.UserID)
		}
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservation users", "count", len(userIDs), "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	usersByID := make(map[string]*model.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	views := make([]*model.ReservationView, 0, len(reservations))
	for _, r := range reservations {
		view := &model.ReservationView{Reservation: *r}
		if e, ok := events[r.EventID]; ok {
			view.Event = &model.EventSummary{ID: e.ID, Title: e.Title, Date: e.Date, Location: e.Location}
		}
		if u, ok := usersByID[r.UserID]; ok {
			view.User = &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		views = append(views, view)
	}
	return views, nil
}

func eventIDs(reservations []*model.Reservation) []string {
	ids := make([]string, 0, len(reservations))
	seen := make(map[string]bool, len(reservations))
	for _, r := range reservations {
		if !seen[r.EventID] {
			seen[r.EventID] = true
			ids = append(ids, r.EventID)
		}
	}
	return ids
}

func (s *reservationService) mapRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, reservationserrors.ErrNotFound), errors.Is(err, reservationserrors.ErrInvalidID):
		return apperrors.NotFoundWithID("Reservation", id)
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}
