package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	ctxInternal "github.com/Codehub169/tempo-6db3fc58/server/context"
	"github.com/Codehub169/tempo-6db3fc58/server/logging"
	"github.com/Codehub169/tempo-6db3fc58/server/metrics"
	"github.com/Codehub169/tempo-6db3fc58/server/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally/v4"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen interface{}
	m := &middleware.RequestID{}
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxInternal.ExtractFields(r.Context())[ctxInternal.RequestIDKey]
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id, ok := seen.(string)
	assert.True(t, ok)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	var seen interface{}
	m := &middleware.RequestID{}
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxInternal.ExtractFields(r.Context())[ctxInternal.RequestIDKey]
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "external-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "external-id", seen)
	assert.Equal(t, "external-id", w.Header().Get(middleware.RequestIDHeader))
}

func TestLogger_PassesThroughStatus(t *testing.T) {
	scope := tally.NewTestScope("test", nil)
	m := &middleware.Logger{
		Logger: logging.NewNoopCtxLogger(t),
		Scope:  scope,
	}
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	snapshot := scope.Snapshot()
	assert.NotEmpty(t, snapshot.Counters())
}

func TestLogger_TagsRouteAndStatus(t *testing.T) {
	scope := tally.NewTestScope("test", nil)
	m := &middleware.Logger{
		Logger: logging.NewNoopCtxLogger(t),
		Scope:  scope,
	}

	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Name("assets")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing.js", nil))

	var found bool
	for _, counter := range scope.Snapshot().Counters() {
		if counter.Tags()[metrics.RouteTag] == "assets" && counter.Tags()[metrics.StatusTag] == "404" {
			found = true
		}
	}
	assert.True(t, found)
}
