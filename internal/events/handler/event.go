package handler

import (
	"net/http"

	"eventify/internal/events/service"
	httputil "eventify/pkg/http"
	"eventify/pkg/logger"
	"eventify/pkg/middleware"
	"eventify/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type EventHandler struct {
	service service.EventService
	policy  *middleware.Policy
	log     *logger.Logger
}

func NewEventHandler(service service.EventService, policy *middleware.Policy, log *logger.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		policy:  policy,
		log:     log,
	}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var event model.Event
	if err := httputil.DecodeJSON(r, &event); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &event); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, event); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *EventHandler) ListPublished(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	events, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.writeError(w, "ListPublished", err)
		return
	}

	h.writeSuccess(w, "ListPublished", nonNil(events))
}

func (h *EventHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	events, err := h.service.ListAll(r.Context())
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}

	h.writeSuccess(w, "ListAll", nonNil(events))
}

func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	h.writeSuccess(w, "GetByID", event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.EventUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	event, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	h.writeSuccess(w, "Update", event)
}

// Delete answers 200 with the removed event, or with null when nothing matched.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.service.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	h.writeSuccess(w, "Delete", event)
}

func (h *EventHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *EventHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func nonNil(events []*model.Event) []*model.Event {
	if events == nil {
		return []*model.Event{}
	}
	return events
}

func (h *EventHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/events", h.ListPublished)
	router.GET("/events/:id", h.GetByID)
	router.GET("/events/:id/all", httputil.MatchParam("id", "admin", h.policy.Admin(h.ListAll)))

	router.POST("/events", h.policy.Admin(h.Create))
	router.PATCH("/events/:id", h.policy.Admin(h.Update))
	router.DELETE("/events/:id", h.policy.Admin(h.Delete))
}
