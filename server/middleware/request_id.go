// Package middleware carries the request chain applied to every route.
package middleware

import (
	"net/http"

	ctxInternal "github.com/Codehub169/tempo-6db3fc58/server/context"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id and attaches it to the request
// context so every log line for the request carries it.
type RequestID struct{}

func (m *RequestID) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := ctxInternal.WithFields(r.Context(), map[string]interface{}{
			ctxInternal.RequestIDKey: id,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
