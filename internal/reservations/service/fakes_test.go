package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	eventsservice "eventify/internal/events/service"
	reservationserrors "eventify/internal/reservations/errors"
	apperrors "eventify/pkg/errors"
	"eventify/pkg/model"
)

var idSeq struct {
	sync.Mutex
	n int
}

func newID() string {
	idSeq.Lock()
	defer idSeq.Unlock()
	idSeq.n++
	return fmt.Sprintf("%024x", idSeq.n)
}

// ────────────────────────────────────────────────
// Event catalog fake with an atomic guarded counter
// ────────────────────────────────────────────────

type fakeCatalog struct {
	mu           sync.Mutex
	events       map[string]*model.Event
	invalidated  int
	reserveCalls int
	releaseCalls int
	// releaseFailures makes the next N ReleaseSeat calls fail.
	releaseFailures int
}

var _ eventsservice.EventService = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{events: map[string]*model.Event{}}
}

func (c *fakeCatalog) add(status model.EventStatus, capacity, reserved int) *model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &model.Event{
		ID:             newID(),
		Title:          "Go Meetup",
		Description:    "Talks",
		Location:       "Hall A",
		Date:           time.Date(2026, 12, 1, 18, 0, 0, 0, time.UTC),
		Capacity:       capacity,
		ReservedPlaces: reserved,
		Status:         status,
	}
	c.events[e.ID] = e
	cp := *e
	return &cp
}

func (c *fakeCatalog) reserved(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[id].ReservedPlaces
}

func (c *fakeCatalog) Create(ctx context.Context, event *model.Event) error { return nil }

func (c *fakeCatalog) GetByID(ctx context.Context, id string) (*model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.events[id]
	if !ok {
		return nil, apperrors.NotFoundWithID("Event", id)
	}
	cp := *e
	return &cp, nil
}

func (c *fakeCatalog) GetByIDs(ctx context.Context, ids []string) (map[string]*model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]*model.Event{}
	for _, id := range ids {
		if e, ok := c.events[id]; ok {
			cp := *e
			out[id] = &cp
		}
	}
	return out, nil
}

func (c *fakeCatalog) ListPublished(ctx context.Context) ([]*model.Event, error) { return nil, nil }
func (c *fakeCatalog) ListAll(ctx context.Context) ([]*model.Event, error)       { return nil, nil }

func (c *fakeCatalog) Update(ctx context.Context, id string, update *model.EventUpdate) (*model.Event, error) {
	return nil, nil
}

func (c *fakeCatalog) Publish(ctx context.Context, id string) (*model.Event, error) { return nil, nil }
func (c *fakeCatalog) Cancel(ctx context.Context, id string) (*model.Event, error)  { return nil, nil }
func (c *fakeCatalog) Delete(ctx context.Context, id string) (*model.Event, error)  { return nil, nil }

func (c *fakeCatalog) ReserveSeat(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reserveCalls++
	e, ok := c.events[id]
	if !ok {
		return apperrors.NotFoundWithID("Event", id)
	}
	if e.ReservedPlaces >= e.Capacity {
		return apperrors.CapacityExceeded("Event is fully booked")
	}
	e.ReservedPlaces++
	return nil
}

func (c *fakeCatalog) ReleaseSeat(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseCalls++
	if c.releaseFailures > 0 {
		c.releaseFailures--
		return apperrors.Internal("Failed to release place", fmt.Errorf("connection reset"))
	}
	e, ok := c.events[id]
	if !ok {
		return apperrors.NotFoundWithID("Event", id)
	}
	if e.ReservedPlaces > 0 {
		e.ReservedPlaces--
	}
	return nil
}

func (c *fakeCatalog) InvalidateListings(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
}

// ────────────────────────────────────────────────
// Reservation store fake with the active uniqueness constraint
// ────────────────────────────────────────────────

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*model.Reservation
	seq          int

	// updateStatusErr, when set, makes every status write fail after the seat moved.
	updateStatusErr error
	// beforeUpdate runs before each status write without holding the lock.
	beforeUpdate func()
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: map[string]*model.Reservation{}}
}

func (r *fakeReservationRepo) Create(ctx context.Context, reservation *model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reservations {
		if existing.Active && existing.UserID == reservation.UserID && existing.EventID == reservation.EventID {
			return reservationserrors.ErrDuplicate
		}
	}
	r.seq++
	reservation.ID = newID()
	reservation.SetStatus(reservation.Status)
	reservation.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	reservation.UpdatedAt = reservation.CreatedAt
	cp := *reservation
	r.reservations[reservation.ID] = &cp
	return nil
}

func (r *fakeReservationRepo) get(id string) *model.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.reservations[id]
	return &cp
}

func (r *fakeReservationRepo) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *fakeReservationRepo) FindOwned(ctx context.Context, id, userID string) (*model.Reservation, error) {
	res, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, reservationserrors.ErrNotFound
	}
	return res, nil
}

func (r *fakeReservationRepo) FindActive(ctx context.Context, userID, eventID string) (*model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.reservations {
		if res.Active && res.UserID == userID && res.EventID == eventID {
			cp := *res
			return &cp, nil
		}
	}
	return nil, reservationserrors.ErrNotFound
}

func (r *fakeReservationRepo) FindByUser(ctx context.Context, userID string) ([]*model.Reservation, error) {
	return r.filter(func(res *model.Reservation) bool { return res.UserID == userID }), nil
}

func (r *fakeReservationRepo) FindAll(ctx context.Context, eventID string) ([]*model.Reservation, error) {
	return r.filter(func(res *model.Reservation) bool { return eventID == "" || res.EventID == eventID }), nil
}

func (r *fakeReservationRepo) filter(keep func(*model.Reservation) bool) []*model.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Reservation{}
	for _, res := range r.reservations {
		if keep(res) {
			cp := *res
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeReservationRepo) UpdateStatus(ctx context.Context, id string, from, to model.ReservationStatus) (*model.Reservation, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateStatusErr != nil {
		return nil, r.updateStatusErr
	}
	res, ok := r.reservations[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	if res.Status != from {
		return nil, reservationserrors.ErrStatusConflict
	}
	res.SetStatus(to)
	res.UpdatedAt = res.UpdatedAt.Add(time.Second)
	cp := *res
	return &cp, nil
}

func (r *fakeReservationRepo) confirmedCount(eventID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, res := range r.reservations {
		if res.EventID == eventID && res.Status == model.ReservationStatusConfirmed {
			n++
		}
	}
	return n
}

func (r *fakeReservationRepo) activeCount(userID, eventID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, res := range r.reservations {
		if res.UserID == userID && res.EventID == eventID && res.Status.IsActive() {
			n++
		}
	}
	return n
}

// ────────────────────────────────────────────────
// Users and publisher fakes
// ────────────────────────────────────────────────

type fakeUsers struct {
	users map[string]*model.User
}

func (u *fakeUsers) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	out := []*model.User{}
	for _, id := range ids {
		if user, ok := u.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

type publishedRecord struct {
	kind     string
	status   model.ReservationStatus
	previous model.ReservationStatus
}

type fakePublisher struct {
	mu      sync.Mutex
	records []publishedRecord
}

func (p *fakePublisher) Created(ctx context.Context, r *model.Reservation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, publishedRecord{kind: "created", status: r.Status})
}

func (p *fakePublisher) StatusChanged(ctx context.Context, r *model.Reservation, previous model.ReservationStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, publishedRecord{kind: "status_changed", status: r.Status, previous: previous})
}
