package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Codehub169/tempo-6db3fc58/server"
	"github.com/Codehub169/tempo-6db3fc58/server/logging"
	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally/v4"
)

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	server.Healthz(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Status string `json:"status"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.Equal(t, "ok", body.Status)
}

func TestNewServer_Routes(t *testing.T) {
	staticDir := t.TempDir()
	err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html></html>"), 0o644)
	assert.NoError(t, err)

	s := newTestServer(t, staticDir)

	cases := []struct {
		path    string
		expCode int
	}{
		{
			path:    "/healthz",
			expCode: http.StatusOK,
		},
		{
			path:    "/api/status",
			expCode: http.StatusOK,
		},
		{
			path:    "/",
			expCode: http.StatusOK,
		},
		{
			path:    "/missing.js",
			expCode: http.StatusNotFound,
		},
	}

	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Negroni.ServeHTTP(w, httptest.NewRequest(http.MethodGet, c.path, nil))
			assert.Equal(t, c.expCode, w.Code)
		})
	}
}

func TestNewServer_MissingBundleAnswersStructured404(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	w := httptest.NewRecorder()
	s.Negroni.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error string `json:"error"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.NotEmpty(t, body.Error)
}

func TestNewServer_StatusReportsPort(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	w := httptest.NewRecorder()
	s.Negroni.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	var body struct {
		Status         string `json:"status"`
		ConfiguredPort string `json:"configured_port"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.Equal(t, "Backend is running", body.Status)
	assert.Equal(t, "9000", body.ConfiguredPort)
}

func newTestServer(t *testing.T, staticDir string) *server.Server {
	s, err := server.NewServer(&server.Config{
		CtxLogger:   logging.NewNoopCtxLogger(t),
		Port:        9000,
		StaticDir:   staticDir,
		RepoDir:     ".",
		SyncTimeout: 60 * time.Second,
		Scope:       tally.NewTestScope("test", nil),
		Closer:      io.NopCloser(nil),
	})
	assert.NoError(t, err)
	return s
}
