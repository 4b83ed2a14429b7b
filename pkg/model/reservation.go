package model

import (
	"time"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusRefused   ReservationStatus = "refused"
	ReservationStatusCanceled  ReservationStatus = "canceled"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusRefused, ReservationStatusCanceled},
	ReservationStatusConfirmed: {ReservationStatusCanceled},
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusRefused, ReservationStatusCanceled:
		return true
	}
	return false
}

// IsActive reports whether a reservation in status s blocks another one for the same user and event.
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// IsTerminal reports whether no transition leaves s.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusRefused || s == ReservationStatusCanceled
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID        string            `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string            `json:"userId" bson:"user_id"`
	EventID   string            `json:"eventId" bson:"event_id"`
	Status    ReservationStatus `json:"status" bson:"status"`
	Active    bool              `json:"-" bson:"active"`
	CreatedAt time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" bson:"updated_at"`
}

// SetStatus changes the status and keeps the stored active flag in step with it.
func (r *Reservation) SetStatus(status ReservationStatus) {
	r.Status = status
	r.Active = status.IsActive()
}

// ReservationView is a reservation with the related records attached for listings.
type ReservationView struct {
	Reservation `bson:",inline"`
	Event       *EventSummary `json:"event,omitempty" bson:"event,omitempty"`
	User        *UserSummary  `json:"user,omitempty" bson:"user,omitempty"`
}

type ReservationStatusUpdate struct {
	Status ReservationStatus `json:"status" validate:"required,oneof=pending confirmed refused canceled"`
}

type CreateReservationRequest struct {
	EventID string `json:"eventId" validate:"required,mongodb"`
}
