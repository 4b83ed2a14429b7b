package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"eventify/internal/tickets/service"
	"eventify/pkg/auth"
	apperrors "eventify/pkg/errors"
	"eventify/pkg/logger"
	"eventify/pkg/middleware"
	"eventify/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type mockTicketService struct {
	generateFunc func(ctx context.Context, reservationID, userID string) (*service.Ticket, error)
}

func (m *mockTicketService) Generate(ctx context.Context, reservationID, userID string) (*service.Ticket, error) {
	return m.generateFunc(ctx, reservationID, userID)
}

func request(t *testing.T, router http.Handler, path string, role model.Role) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		raw, err := auth.Issue(testSecret, auth.Principal{UserID: "user-a", Role: role}, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+raw)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDownload(t *testing.T) {
	content := []byte("%PDF-1.3 fake")
	svc := &mockTicketService{
		generateFunc: func(ctx context.Context, reservationID, userID string) (*service.Ticket, error) {
			switch reservationID {
			case "r1":
				assert.Equal(t, "user-a", userID)
				return &service.Ticket{Filename: "ticket-r1.pdf", ContentType: "application/pdf", Content: content}, nil
			case "pending":
				return nil, apperrors.InvalidState("Ticket is only available for confirmed reservations")
			default:
				return nil, apperrors.NotFound("Reservation")
			}
		},
	}

	log := logger.Discard()
	router := httprouter.New()
	NewTicketHandler(svc, middleware.NewPolicy(auth.NewVerifier(testSecret), nil, nil, log), log).RegisterRoutes(router)

	w := request(t, router, "/reservations/r1/ticket", model.RoleParticipant)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="ticket-r1.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, strconv.Itoa(len(content)), w.Header().Get("Content-Length"))
	assert.Equal(t, content, w.Body.Bytes())

	assert.Equal(t, http.StatusBadRequest, request(t, router, "/reservations/pending/ticket", model.RoleParticipant).Code)
	assert.Equal(t, http.StatusNotFound, request(t, router, "/reservations/other/ticket", model.RoleParticipant).Code)
	assert.Equal(t, http.StatusUnauthorized, request(t, router, "/reservations/r1/ticket", "").Code)
	assert.Equal(t, http.StatusForbidden, request(t, router, "/reservations/r1/ticket", model.RoleAdmin).Code)
}
