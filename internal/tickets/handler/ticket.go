package handler

import (
	"net/http"

	"eventify/internal/tickets/service"
	"eventify/pkg/auth"
	apperrors "eventify/pkg/errors"
	httputil "eventify/pkg/http"
	"eventify/pkg/logger"
	"eventify/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type TicketHandler struct {
	service service.TicketService
	policy  *middleware.Policy
	log     *logger.Logger
}

func NewTicketHandler(service service.TicketService, policy *middleware.Policy, log *logger.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		policy:  policy,
		log:     log,
	}
}

func (h *TicketHandler) Download(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthenticated("Authentication required"))
		return
	}

	ticket, err := h.service.Generate(r.Context(), ps.ByName("id"), principal.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteFile(w, ticket.ContentType, ticket.Filename, ticket.Content); err != nil {
		h.log.Error("failed to write ticket", "handler", "Download", "operation", "WriteFile", "error", err)
	}
}

func (h *TicketHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Download", "operation", "WriteError", "error", writeErr)
	}
}

func (h *TicketHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/reservations/:id/ticket", h.policy.Participant(h.Download))
}
