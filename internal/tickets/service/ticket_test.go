package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	userserrors "eventify/internal/users/errors"
	"eventify/pkg/config"
	apperrors "eventify/pkg/errors"
	"eventify/pkg/logger"
	"eventify/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReservations struct {
	reservation *model.Reservation
}

func (m *mockReservations) GetOwned(ctx context.Context, userID, id string) (*model.Reservation, error) {
	if m.reservation == nil || m.reservation.ID != id || m.reservation.UserID != userID {
		return nil, apperrors.NotFound("Reservation")
	}
	cp := *m.reservation
	return &cp, nil
}

type mockEvents struct {
	event *model.Event
}

func (m *mockEvents) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if m.event == nil || m.event.ID != id {
		return nil, apperrors.NotFoundWithID("Event", id)
	}
	return m.event, nil
}

type mockUsers struct {
	user *model.User
	err  error
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || m.user.ID != id {
		return nil, userserrors.ErrNotFound
	}
	return m.user, nil
}

type recordingRenderer struct {
	calls int
	last  *model.TicketData
	err   error
}

func (r *recordingRenderer) Render(data *model.TicketData) ([]byte, error) {
	r.calls++
	r.last = data
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-fake"), nil
}

func (r *recordingRenderer) ContentType() string { return "application/pdf" }

type fixture struct {
	svc          TicketService
	reservations *mockReservations
	events       *mockEvents
	users        *mockUsers
	renderer     *recordingRenderer
}

func newFixture(status model.ReservationStatus) *fixture {
	f := &fixture{
		reservations: &mockReservations{reservation: &model.Reservation{
			ID:      "65f1c0a4e13b2a00abcdef12",
			UserID:  "user-a",
			EventID: "event-1",
			Status:  status,
		}},
		events: &mockEvents{event: &model.Event{
			ID:          "event-1",
			Title:       "Go Meetup",
			Description: strings.Repeat("Long talk about Go. ", 20),
			Location:    "Hall A",
			Date:        time.Date(2026, 12, 1, 18, 30, 0, 0, time.UTC),
		}},
		users:    &mockUsers{user: &model.User{ID: "user-a", Name: "Ada Lovelace", Email: "ada@example.com"}},
		renderer: &recordingRenderer{},
	}
	f.svc = NewTicketService(f.reservations, f.events, f.users, f.renderer, &config.Config{Log: logger.Discard()})
	return f
}

func TestGenerate_Confirmed(t *testing.T) {
	f := newFixture(model.ReservationStatusConfirmed)

	ticket, err := f.svc.Generate(context.Background(), "65f1c0a4e13b2a00abcdef12", "user-a")
	require.NoError(t, err)
	assert.Equal(t, "ticket-65f1c0a4e13b2a00abcdef12.pdf", ticket.Filename)
	assert.Equal(t, "application/pdf", ticket.ContentType)
	assert.Equal(t, []byte("%PDF-fake"), ticket.Content)

	data := f.renderer.last
	require.NotNil(t, data)
	assert.Equal(t, "Go Meetup", data.EventTitle)
	assert.Equal(t, "Tuesday, December 1, 2026", data.Date)
	assert.Equal(t, "18:30 UTC", data.Time)
	assert.Equal(t, "Hall A", data.Location)
	assert.Equal(t, "Ada Lovelace", data.AttendeeName)
	assert.Equal(t, "ada@example.com", data.AttendeeEmail)
	assert.Equal(t, "ABCDEF12", data.Reference)
	assert.LessOrEqual(t, utf8.RuneCountInString(data.Excerpt), 160)
	assert.True(t, strings.HasSuffix(data.Excerpt, "…"))
}

func TestGenerate_RendersEveryCall(t *testing.T) {
	f := newFixture(model.ReservationStatusConfirmed)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Generate(context.Background(), "65f1c0a4e13b2a00abcdef12", "user-a")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.renderer.calls)
}

func TestGenerate_NotConfirmed(t *testing.T) {
	for _, status := range []model.ReservationStatus{
		model.ReservationStatusPending,
		model.ReservationStatusRefused,
		model.ReservationStatusCanceled,
	} {
		f := newFixture(status)

		_, err := f.svc.Generate(context.Background(), "65f1c0a4e13b2a00abcdef12", "user-a")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState), status)
		assert.Zero(t, f.renderer.calls, "no document for %s", status)
	}
}

func TestGenerate_NotOwned(t *testing.T) {
	f := newFixture(model.ReservationStatusConfirmed)

	_, err := f.svc.Generate(context.Background(), "65f1c0a4e13b2a00abcdef12", "user-b")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Zero(t, f.renderer.calls)
}

func TestGenerate_MissingRelatedRecords(t *testing.T) {
	f := newFixture(model.ReservationStatusConfirmed)
	f.events.event = nil
	_, err := f.svc.Generate(context.Background(), "65f1c0a4e13b2a00abcdef12", "user-a")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	f = newFixture(model.ReservationStatusConfirmed)
	f.users.user = nil
	_, err = f.svc.Generate(context.Background(), "65f1c0a4e13b2a00abcdef12", "user-a")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	f = newFixture(model.ReservationStatusConfirmed)
	f.users.err = errors.New("connection reset")
	_, err = f.svc.Generate(context.Background(), "65f1c0a4e13b2a00abcdef12", "user-a")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestGenerate_RendererFailure(t *testing.T) {
	f := newFixture(model.ReservationStatusConfirmed)
	f.renderer.err = errors.New("font missing")

	_, err := f.svc.Generate(context.Background(), "65f1c0a4e13b2a00abcdef12", "user-a")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestReference(t *testing.T) {
	assert.Equal(t, "ABCDEF12", Reference("65f1c0a4e13b2a00abcdef12"))
	assert.Equal(t, "AB12", Reference("ab12"))
}
