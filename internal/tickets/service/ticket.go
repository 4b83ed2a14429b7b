package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	userserrors "eventify/internal/users/errors"
	"eventify/pkg/config"
	apperrors "eventify/pkg/errors"
	"eventify/pkg/model"
	"eventify/pkg/sanitizer"
)

const (
	excerptRunes    = 160
	referenceLength = 8

	dateLayout = "Monday, January 2, 2006"
	timeLayout = "15:04 MST"
)

// Renderer turns ticket fields into a document.
type Renderer interface {
	Render(data *model.TicketData) ([]byte, error)
	ContentType() string
}

type ReservationLookup interface {
	GetOwned(ctx context.Context, userID, id string) (*model.Reservation, error)
}

type EventLookup interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type Ticket struct {
	Filename    string
	ContentType string
	Content     []byte
}

type TicketService interface {
	// Generate renders the ticket of a confirmed reservation owned by userID.
	// Every call renders anew.
	Generate(ctx context.Context, reservationID, userID string) (*Ticket, error)
}

type ticketService struct {
	reservations ReservationLookup
	events       EventLookup
	users        UserLookup
	renderer     Renderer
	cfg          *config.Config
}

func NewTicketService(
	reservations ReservationLookup,
	events EventLookup,
	users UserLookup,
	renderer Renderer,
	cfg *config.Config,
) TicketService {
	return &ticketService{
		reservations: reservations,
		events:       events,
		users:        users,
		renderer:     renderer,
		cfg:          cfg,
	}
}

func (s *ticketService) Generate(ctx context.Context, reservationID, userID string) (*Ticket, error) {
	reservation, err := s.reservations.GetOwned(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status != model.ReservationStatusConfirmed {
		return nil, apperrors.InvalidState("Ticket is only available for confirmed reservations")
	}

	event, err := s.events.GetByID(ctx, reservation.EventID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, reservation.UserID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.NotFound("User")
		}
		s.cfg.Log.Error("Failed to load ticket holder", "reservation_id", reservationID, "error", err)
		return nil, apperrors.Internal("Failed to generate ticket", err)
	}

	data := BuildTicketData(reservation, event, user)
	content, err := s.renderer.Render(data)
	if err != nil {
		s.cfg.Log.Error("Failed to render ticket", "reservation_id", reservationID, "error", err)
		return nil, apperrors.Internal("Failed to generate ticket", err)
	}

	s.cfg.Log.Info("Ticket generated",
		"reservation_id", reservation.ID,
		"event_id", event.ID,
		"bytes", len(content),
	)
	return &Ticket{
		Filename:    fmt.Sprintf("ticket-%s.pdf", reservation.ID),
		ContentType: s.renderer.ContentType(),
		Content:     content,
	}, nil
}

// BuildTicketData assembles the printable fields of a ticket. Dates are shown in UTC.
func BuildTicketData(reservation *model.Reservation, event *model.Event, user *model.User) *model.TicketData {
	date := event.Date.UTC()
	return &model.TicketData{
		ReservationID: reservation.ID,
		Reference:     Reference(reservation.ID),
		EventTitle:    event.Title,
		Excerpt:       sanitizer.Excerpt(event.Description, excerptRunes),
		Date:          date.Format(dateLayout),
		Time:          date.Format(timeLayout),
		Location:      event.Location,
		AttendeeName:  user.Name,
		AttendeeEmail: user.Email,
	}
}

// Reference is the short identifier printed on a ticket: the last eight
// characters of the reservation id, upper-cased.
func Reference(id string) string {
	if len(id) > referenceLength {
		id = id[len(id)-referenceLength:]
	}
	return strings.ToUpper(id)
}
