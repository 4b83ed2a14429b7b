package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	eventserrors "eventify/internal/events/errors"
	"eventify/internal/events/repository"
	"eventify/internal/events/validator"
	"eventify/pkg/cache"
	"eventify/pkg/config"
	apperrors "eventify/pkg/errors"
	"eventify/pkg/model"
	"eventify/pkg/sanitizer"
)

const publishedListingKey = "events:published"

type EventService interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*model.Event, error)
	ListPublished(ctx context.Context) ([]*model.Event, error)
	ListAll(ctx context.Context) ([]*model.Event, error)
	Update(ctx context.Context, id string, update *model.EventUpdate) (*model.Event, error)
	Publish(ctx context.Context, id string) (*model.Event, error)
	Cancel(ctx context.Context, id string) (*model.Event, error)
	Delete(ctx context.Context, id string) (*model.Event, error)

	// ReserveSeat takes one place on the event, failing with CAPACITY_EXCEEDED
	// when none is left at the moment of the write.
	ReserveSeat(ctx context.Context, id string) error
	// ReleaseSeat gives one place back.
	ReleaseSeat(ctx context.Context, id string) error
	// InvalidateListings drops cached listings after a committed seat change.
	InvalidateListings(ctx context.Context)
}

type eventService struct {
	repo      repository.EventRepository
	validator *validator.EventValidator
	cache     cache.Cache
	cfg       *config.Config

	// invalidations counts InvalidateListings calls. A listing read from the
	// store is cached only if no invalidation happened during the read.
	invalidations atomic.Uint64
}

func NewEventService(
	repo repository.EventRepository,
	validator *validator.EventValidator,
	cache cache.Cache,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		validator: validator,
		cache:     cache,
		cfg:       cfg,
	}
}

func (s *eventService) Create(ctx context.Context, event *model.Event) error {
	s.applyDefaults(event)
	s.sanitize(event)
	if err := s.validate(event); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to create event", "error", err)
		return apperrors.Internal("Failed to create event", err)
	}

	if event.Status == model.EventStatusPublished {
		s.InvalidateListings(ctx)
	}

	s.cfg.Log.Info("Event created successfully",
		"id", event.ID,
		"status", event.Status,
		"capacity", event.Capacity,
	)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve event")
	}
	return event, nil
}

func (s *eventService) GetByIDs(ctx context.Context, ids []string) (map[string]*model.Event, error) {
	events, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to load events", "count", len(ids), "error", err)
		return nil, apperrors.Internal("Failed to retrieve events", err)
	}

	byID := make(map[string]*model.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}
	return byID, nil
}

func (s *eventService) ListPublished(ctx context.Context) ([]*model.Event, error) {
	var cached []*model.Event
	found, err := s.cache.GetJSON(ctx, publishedListingKey, &cached)
	if err != nil {
		s.cfg.Log.Warn("Events cache read failed", "error", err)
	}
	if found {
		return cached, nil
	}

	generation := s.invalidations.Load()
	events, err := s.repo.FindByStatus(ctx, model.EventStatusPublished)
	if err != nil {
		s.cfg.Log.Error("Failed to list published events", "error", err)
		return nil, apperrors.Internal("Failed to retrieve events", err)
	}

	if s.invalidations.Load() != generation {
		s.cfg.Log.Debug("Skipping events cache write, listing changed during read")
		return events, nil
	}
	if err := s.cache.SetJSON(ctx, publishedListingKey, events, s.cfg.EventsCacheTTL); err != nil {
		s.cfg.Log.Warn("Events cache write failed", "error", err)
	}
	return events, nil
}

func (s *eventService) ListAll(ctx context.Context) ([]*model.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list events", "error", err)
		return nil, apperrors.Internal("Failed to retrieve events", err)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id string, update *model.EventUpdate) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	s.sanitizeUpdate(update)
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Event update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"errors": err})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to check event existence")
	}

	if err := checkUpdate(existing, update); err != nil {
		s.cfg.Log.Warn("Event update rejected", "id", id, "status", existing.Status, "error", err)
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, update, existing.Status)
	if err != nil {
		if errors.Is(err, eventserrors.ErrUpdateConflict) {
			return nil, s.explainConflict(ctx, id, update)
		}
		return nil, s.mapRepoError(err, id, "Failed to update event")
	}

	s.InvalidateListings(ctx)
	s.cfg.Log.Info("Event updated successfully", "id", id, "status", updated.Status)
	return updated, nil
}

func (s *eventService) Publish(ctx context.Context, id string) (*model.Event, error) {
	status := model.EventStatusPublished
	return s.Update(ctx, id, &model.EventUpdate{Status: &status})
}

func (s *eventService) Cancel(ctx context.Context, id string) (*model.Event, error) {
	status := model.EventStatusCanceled
	return s.Update(ctx, id, &model.EventUpdate{Status: &status})
}

func (s *eventService) Delete(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to delete event")
	}

	if removed == nil {
		s.cfg.Log.Info("Event delete matched nothing", "id", id)
		return nil, nil
	}

	s.InvalidateListings(ctx)
	s.cfg.Log.Info("Event deleted successfully", "id", id, "reserved_places", removed.ReservedPlaces)
	return removed, nil
}

func (s *eventService) ReserveSeat(ctx context.Context, id string) error {
	if err := s.repo.IncrementReserved(ctx, id); err != nil {
		if errors.Is(err, eventserrors.ErrCapacityExceeded) {
			return apperrors.CapacityExceeded("Event is fully booked")
		}
		return s.mapRepoError(err, id, "Failed to reserve place")
	}
	return nil
}

func (s *eventService) ReleaseSeat(ctx context.Context, id string) error {
	if err := s.repo.DecrementReserved(ctx, id); err != nil {
		if errors.Is(err, eventserrors.ErrCounterUnderflow) {
			s.cfg.Log.Warn("Released a place on an event with no reserved places", "event_id", id)
			return nil
		}
		return s.mapRepoError(err, id, "Failed to release place")
	}
	return nil
}

func (s *eventService) InvalidateListings(ctx context.Context) {
	s.invalidations.Add(1)
	if err := s.cache.Delete(context.WithoutCancel(ctx), publishedListingKey); err != nil {
		s.cfg.Log.Warn("Events cache invalidation failed", "error", err)
	}
}

// --- Helpers ---

func (s *eventService) applyDefaults(e *model.Event) {
	if e.Status == "" {
		e.Status = model.EventStatusDraft
	}
	e.ReservedPlaces = 0
	e.Date = e.Date.UTC()
}

func (s *eventService) sanitize(e *model.Event) {
	e.Title = sanitizer.TrimAndNormalize(e.Title)
	e.Location = sanitizer.TrimAndNormalize(e.Location)
	e.Description = sanitizer.TrimText(e.Description)
}

func (s *eventService) sanitizeUpdate(u *model.EventUpdate) {
	if u.Title != nil {
		title := sanitizer.TrimAndNormalize(*u.Title)
		u.Title = &title
	}
	if u.Location != nil {
		location := sanitizer.TrimAndNormalize(*u.Location)
		u.Location = &location
	}
	if u.Description != nil {
		description := sanitizer.TrimText(*u.Description)
		u.Description = &description
	}
}

func (s *eventService) validate(event *model.Event) error {
	if err := s.validator.Validate(event); err != nil {
		s.cfg.Log.Warn("Event validation failed", "error", err)
		return apperrors.Validation("Event validation failed", map[string]any{"errors": err})
	}
	return nil
}

// checkUpdate applies the business rules an update must satisfy against the current event.
func checkUpdate(existing *model.Event, update *model.EventUpdate) error {
	if update.Status != nil && *update.Status != existing.Status && !existing.Status.CanTransitionTo(*update.Status) {
		return apperrors.InvalidState(fmt.Sprintf("Event cannot move from %s to %s", existing.Status, *update.Status))
	}
	if update.Status != nil && *update.Status == existing.Status {
		update.Status = nil
	}
	if existing.Status == model.EventStatusCanceled && update.Status == nil {
		return apperrors.InvalidState("Canceled events cannot be modified")
	}
	if update.Capacity != nil && *update.Capacity < existing.ReservedPlaces {
		return apperrors.Validation("Capacity cannot be lower than reserved places", map[string]any{
			"capacity":        *update.Capacity,
			"reservedPlaces": existing.ReservedPlaces,
		})
	}
	return nil
}

// explainConflict re-reads the event after a guarded write was rejected and reports why.
func (s *eventService) explainConflict(ctx context.Context, id string, update *model.EventUpdate) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id, "Failed to update event")
	}
	if update.Capacity != nil && *update.Capacity < current.ReservedPlaces {
		return apperrors.Validation("Capacity cannot be lower than reserved places", map[string]any{
			"capacity":        *update.Capacity,
			"reservedPlaces": current.ReservedPlaces,
		})
	}
	return apperrors.InvalidState("Event was modified concurrently, retry the update")
}

func (s *eventService) mapRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, eventserrors.ErrNotFound), errors.Is(err, eventserrors.ErrInvalidID):
		return apperrors.NotFoundWithID("Event", id)
	case apperrors.IsAppError(err):
		return err
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}
