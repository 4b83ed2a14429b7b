package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	all := []ReservationStatus{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusRefused,
		ReservationStatusCanceled,
	}
	allowed := map[ReservationStatus]map[ReservationStatus]bool{
		ReservationStatusPending: {
			ReservationStatusConfirmed: true,
			ReservationStatusRefused:   true,
			ReservationStatusCanceled:  true,
		},
		ReservationStatusConfirmed: {
			ReservationStatusCanceled: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, allowed[from][to], from.CanTransitionTo(to))
			})
		}
	}
}

func TestReservationStatus_Flags(t *testing.T) {
	assert.True(t, ReservationStatusPending.IsActive())
	assert.True(t, ReservationStatusConfirmed.IsActive())
	assert.False(t, ReservationStatusRefused.IsActive())
	assert.False(t, ReservationStatusCanceled.IsActive())

	assert.True(t, ReservationStatusRefused.IsTerminal())
	assert.True(t, ReservationStatusCanceled.IsTerminal())
	assert.False(t, ReservationStatusPending.IsTerminal())

	assert.False(t, ReservationStatus("expired").IsValid())
}

func TestReservation_SetStatusKeepsActiveFlag(t *testing.T) {
	r := &Reservation{}

	r.SetStatus(ReservationStatusPending)
	assert.True(t, r.Active)

	r.SetStatus(ReservationStatusConfirmed)
	assert.True(t, r.Active)

	r.SetStatus(ReservationStatusCanceled)
	assert.False(t, r.Active)
}

func TestEventStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to EventStatus
		want     bool
	}{
		{EventStatusDraft, EventStatusPublished, true},
		{EventStatusDraft, EventStatusCanceled, true},
		{EventStatusPublished, EventStatusCanceled, true},
		{EventStatusPublished, EventStatusDraft, true},
		{EventStatusDraft, EventStatusDraft, false},
		{EventStatusPublished, EventStatusPublished, false},
		{EventStatusCanceled, EventStatusPublished, false},
		{EventStatusCanceled, EventStatusDraft, false},
		{EventStatusCanceled, EventStatusCanceled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEvent_AvailablePlaces(t *testing.T) {
	e := &Event{Capacity: 3, ReservedPlaces: 1}
	assert.Equal(t, 2, e.AvailablePlaces())
	assert.False(t, e.IsFull())

	e.ReservedPlaces = 3
	assert.Equal(t, 0, e.AvailablePlaces())
	assert.True(t, e.IsFull())
}

func TestEventUpdate_IsEmpty(t *testing.T) {
	assert.True(t, (&EventUpdate{}).IsEmpty())

	capacity := 10
	assert.False(t, (&EventUpdate{Capacity: &capacity}).IsEmpty())
}
