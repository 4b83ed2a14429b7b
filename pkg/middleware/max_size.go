package middleware

import (
	"net/http"

	apperrors "eventify/pkg/errors"
	httputil "eventify/pkg/http"
)

// MaxRequestSize caps request bodies at maxBytes. Declared lengths over the
// limit are rejected up front; streamed bodies fail when read past it.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				_ = httputil.WriteError(w, apperrors.PayloadTooLarge(maxBytes))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
