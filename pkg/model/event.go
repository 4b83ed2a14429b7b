package model

import (
	"time"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCanceled  EventStatus = "canceled"
)

var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:     {EventStatusPublished, EventStatusCanceled},
	EventStatusPublished: {EventStatusDraft, EventStatusCanceled},
}

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an event may move from s to next.
// Canceled is terminal; staying in the same status is not a transition.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Event struct {
	ID             string      `json:"id,omitempty" bson:"_id,omitempty"`
	Title          string      `json:"title" bson:"title" validate:"required,max=200"`
	Description    string      `json:"description" bson:"description" validate:"required,max=5000"`
	Location       string      `json:"location" bson:"location" validate:"required,max=300"`
	Date           time.Time   `json:"date" bson:"date" validate:"required"`
	Capacity       int         `json:"capacity" bson:"capacity" validate:"min=1,max=1000000"`
	ReservedPlaces int         `json:"reservedPlaces" bson:"reserved_places" validate:"min=0,ltefield=Capacity"`
	Status         EventStatus `json:"status" bson:"status" validate:"required,oneof=draft published canceled"`
	CreatedAt      time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" bson:"updated_at"`
}

// AvailablePlaces is the number of seats not yet taken by confirmed reservations.
func (e *Event) AvailablePlaces() int {
	if e.ReservedPlaces >= e.Capacity {
		return 0
	}
	return e.Capacity - e.ReservedPlaces
}

func (e *Event) IsFull() bool {
	return e.ReservedPlaces >= e.Capacity
}

type EventUpdate struct {
	Title       *string      `json:"title,omitempty" validate:"omitnil,min=1,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitnil,min=1,max=5000"`
	Location    *string      `json:"location,omitempty" validate:"omitnil,min=1,max=300"`
	Date        *time.Time   `json:"date,omitempty"`
	Capacity    *int         `json:"capacity,omitempty" validate:"omitnil,min=1,max=1000000"`
	Status      *EventStatus `json:"status,omitempty" validate:"omitnil,oneof=draft published canceled"`
}

func (u *EventUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Location == nil &&
		u.Date == nil && u.Capacity == nil && u.Status == nil
}

// EventSummary is the slice of an event attached to a participant's reservation listing.
type EventSummary struct {
	ID       string    `json:"id" bson:"_id,omitempty"`
	Title    string    `json:"title" bson:"title"`
	Date     time.Time `json:"date" bson:"date"`
	Location string    `json:"location" bson:"location"`
}
