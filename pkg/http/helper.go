package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "eventify/pkg/errors"

	"github.com/julienschmidt/httprouter"
)

// DecodeJSON decodes the request body into dst. An empty body, malformed JSON
// and trailing data are reported as INVALID_INPUT.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return apperrors.PayloadTooLarge(maxBytesErr.Limit)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("request body is required")
		default:
			return apperrors.InvalidInput("invalid request body")
		}
	}
	if decoder.More() {
		return apperrors.InvalidInput("request body must contain a single JSON object")
	}
	return nil
}

// MatchParam serves h only when the named path parameter equals value and
// answers NOT_FOUND otherwise. It lets a static path segment share a position
// with a wildcard, which the router cannot express directly.
func MatchParam(name, value string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName(name) != value {
			_ = WriteError(w, apperrors.New(apperrors.CodeNotFound, "Route not found", http.StatusNotFound))
			return
		}
		h(w, r, ps)
	}
}
