package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "eventify/pkg/errors"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteError(rec, apperrors.CapacityExceeded("event is full"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeCapacityExceeded, body.Code)
	assert.Equal(t, "event is full", body.Message)
}

func TestWriteError_PlainErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteError(rec, errors.New("connection reset by peer")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.Contains(t, rec.Body.String(), apperrors.CodeInternal)
}

func TestWriteCreated(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteCreated(rec, map[string]string{"id": "abc"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}

func TestWriteFile(t *testing.T) {
	rec := httptest.NewRecorder()
	content := []byte("%PDF-1.3 fake")

	require.NoError(t, WriteFile(rec, "application/pdf", "ticket-abc.pdf", content))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="ticket-abc.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "13", rec.Header().Get("Content-Length"))
	assert.Equal(t, content, rec.Body.Bytes())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"title":"Go meetup"}`},
		{name: "empty", body: ``, wantErr: apperrors.CodeInvalidInput},
		{name: "malformed", body: `{"title":`, wantErr: apperrors.CodeInvalidInput},
		{name: "trailing object", body: `{"title":"a"}{"title":"b"}`, wantErr: apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload

			err := DecodeJSON(req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Go meetup", dst.Title)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantErr))
		})
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("a", 64)+`"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	var dst map[string]any
	err := DecodeJSON(req, &dst)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePayloadTooLarge))
}

func TestMatchParam(t *testing.T) {
	called := false
	h := MatchParam("id", "my", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/reservations/my", nil), httprouter.Params{{Key: "id", Value: "my"}})
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	called = false
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/reservations/abc", nil), httprouter.Params{{Key: "id", Value: "abc"}})
	assert.False(t, called)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
