package handler

import (
	"net/http"

	"eventify/internal/reservations/service"
	"eventify/pkg/auth"
	apperrors "eventify/pkg/errors"
	httputil "eventify/pkg/http"
	"eventify/pkg/logger"
	"eventify/pkg/middleware"
	"eventify/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	policy  *middleware.Policy
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, policy *middleware.Policy, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		policy:  policy,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := h.principal(w, r, "Create")
	if !ok {
		return
	}

	var req model.CreateReservationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	reservation, err := h.service.Create(r.Context(), principal.UserID, req.EventID)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := h.principal(w, r, "ListMine")
	if !ok {
		return
	}

	views, err := h.service.ListMine(r.Context(), principal.UserID)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	h.writeSuccess(w, "ListMine", nonNil(views))
}

// ListAll accepts the event filter as eventId or event_id.
func (h *ReservationHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	eventID := query.Get("eventId")
	if eventID == "" {
		eventID = query.Get("event_id")
	}

	views, err := h.service.ListAll(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}

	h.writeSuccess(w, "ListAll", nonNil(views))
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.ReservationStatusUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	reservation, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), update.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	h.writeSuccess(w, "UpdateStatus", reservation)
}

func (h *ReservationHandler) CancelOwn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := h.principal(w, r, "CancelOwn")
	if !ok {
		return
	}

	reservation, err := h.service.CancelOwn(r.Context(), principal.UserID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "CancelOwn", err)
		return
	}

	h.writeSuccess(w, "CancelOwn", reservation)
}

func (h *ReservationHandler) principal(w http.ResponseWriter, r *http.Request, handler string) (*auth.Principal, bool) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeError(w, handler, apperrors.Unauthenticated("Authentication required"))
		return nil, false
	}
	return principal, true
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func nonNil(views []*model.ReservationView) []*model.ReservationView {
	if views == nil {
		return []*model.ReservationView{}
	}
	return views
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/reservations", h.policy.ParticipantWrite(h.Create))
	router.GET("/reservations", h.policy.Admin(h.ListAll))
	router.GET("/reservations/:id", httputil.MatchParam("id", "my", h.policy.Participant(h.ListMine)))

	router.PATCH("/reservations/:id/status", h.policy.Admin(h.UpdateStatus))
	router.DELETE("/reservations/:id/cancel", h.policy.Participant(h.CancelOwn))
}
