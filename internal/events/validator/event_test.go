package validator

import (
	"testing"
	"time"

	"eventify/pkg/logger"
	"eventify/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *model.Event {
	return &model.Event{
		Title:       "Go Meetup",
		Description: "Talks and pizza.",
		Location:    "Hall A",
		Date:        time.Date(2026, 12, 1, 18, 0, 0, 0, time.UTC),
		Capacity:    50,
		Status:      model.EventStatusDraft,
	}
}

func TestValidate(t *testing.T) {
	v := NewEventValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(e *model.Event)
		wantField string
	}{
		{"valid", func(e *model.Event) {}, ""},
		{"title required", func(e *model.Event) { e.Title = "" }, "title"},
		{"title too long", func(e *model.Event) { e.Title = string(make([]byte, 201)) }, "title"},
		{"description required", func(e *model.Event) { e.Description = "" }, "description"},
		{"location required", func(e *model.Event) { e.Location = "" }, "location"},
		{"date required", func(e *model.Event) { e.Date = time.Time{} }, "date"},
		{"capacity below one", func(e *model.Event) { e.Capacity = 0 }, "capacity"},
		{"reserved over capacity", func(e *model.Event) { e.ReservedPlaces = 51 }, "reservedPlaces"},
		{"unknown status", func(e *model.Event) { e.Status = "archived" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(event)

			err := v.Validate(event)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewEventValidator(logger.Discard())

	title := "New title"
	empty := ""
	capacity := 0
	zeroDate := time.Time{}
	status := model.EventStatus("archived")

	assert.NoError(t, v.ValidateUpdate(&model.EventUpdate{Title: &title}))
	assert.Error(t, v.ValidateUpdate(&model.EventUpdate{}), "empty update")
	assert.Error(t, v.ValidateUpdate(&model.EventUpdate{Title: &empty}), "empty title")
	assert.Error(t, v.ValidateUpdate(&model.EventUpdate{Capacity: &capacity}), "zero capacity")
	assert.Error(t, v.ValidateUpdate(&model.EventUpdate{Date: &zeroDate}), "zero date")
	assert.Error(t, v.ValidateUpdate(&model.EventUpdate{Status: &status}), "unknown status")
}
