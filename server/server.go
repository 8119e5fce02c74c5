package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Codehub169/tempo-6db3fc58/server/controllers"
	"github.com/Codehub169/tempo-6db3fc58/server/logging"
	"github.com/Codehub169/tempo-6db3fc58/server/middleware"
	reposync "github.com/Codehub169/tempo-6db3fc58/server/sync"
	"github.com/gorilla/mux"
	"github.com/uber-go/tally/v4"
	"github.com/urfave/cli"
	"github.com/urfave/negroni"
)

const (
	HealthzRouteName = "healthz"
	StatusRouteName  = "api-status"
	IndexRouteName   = "index"
	AssetsRouteName  = "assets"
)

// Config assembles everything the server needs. It is built once in cmd from
// the UserConfig.
type Config struct {
	CtxLogger   logging.Logger
	Port        int
	StaticDir   string
	RepoDir     string
	SyncTimeout time.Duration
	Scope       tally.Scope
	Closer      io.Closer
}

type httpServerProxy struct {
	*http.Server
	Logger logging.Logger
}

func (p *httpServerProxy) ListenAndServe() {
	err := p.Server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		p.Logger.Error(err.Error())
	}
}

type Server struct {
	Logger       logging.Logger
	Negroni      *negroni.Negroni
	Port         int
	StatsScope   tally.Scope
	StatsCloser  io.Closer
	Synchronizer *reposync.RepoSynchronizer
}

func NewServer(config *Config) (*Server, error) {
	frontendController := &controllers.FrontendController{
		StaticDir: config.StaticDir,
		Logger:    config.CtxLogger,
		Scope:     config.Scope.SubScope("frontend"),
	}
	statusController := &controllers.StatusController{
		ConfiguredPort: strconv.Itoa(config.Port),
	}
	synchronizer := &reposync.RepoSynchronizer{
		RepoDir: config.RepoDir,
		Timeout: config.SyncTimeout,
		Logger:  config.CtxLogger,
		Scope:   config.Scope.SubScope("sync"),
	}

	requestID := &middleware.RequestID{}
	requestLogger := &middleware.Logger{
		Logger: config.CtxLogger,
		Scope:  config.Scope.SubScope("http"),
	}

	// router initialization
	router := mux.NewRouter()
	router.Use(requestID.Middleware, requestLogger.Middleware)
	router.HandleFunc("/healthz", Healthz).Methods(http.MethodGet).Name(HealthzRouteName)
	router.HandleFunc("/api/status", statusController.Get).Methods(http.MethodGet).Name(StatusRouteName)
	router.HandleFunc("/", frontendController.GetIndex).Methods(http.MethodGet).Name(IndexRouteName)
	// everything else is a bundle asset, matched last
	router.PathPrefix("/").HandlerFunc(frontendController.GetAsset).Methods(http.MethodGet).Name(AssetsRouteName)

	n := negroni.New(&negroni.Recovery{
		Logger:     log.New(os.Stdout, "", log.LstdFlags),
		PrintStack: false,
		StackAll:   false,
		StackSize:  1024 * 8,
	})
	n.UseHandler(router)

	server := Server{
		Logger:       config.CtxLogger,
		Negroni:      n,
		Port:         config.Port,
		StatsScope:   config.Scope,
		StatsCloser:  config.Closer,
		Synchronizer: synchronizer,
	}
	return &server, nil
}

// Start runs the startup synchronization, then serves until SIGINT or
// SIGTERM arrives.
func (s Server) Start() error {
	defer s.Logger.Close() // nolint: errcheck

	// The pull runs to completion (or its bound) before any request is
	// accepted. It never re-runs.
	s.Synchronizer.Sync(context.Background())

	// Ensure server gracefully drains connections when stopped.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	s.Logger.Info(fmt.Sprintf("server started - listening on port %v", s.Port))
	proxy := &httpServerProxy{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", s.Port),
			Handler:      s.Negroni,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Logger: s.Logger,
	}
	go proxy.ListenAndServe()
	<-stop

	// flush stats before shutdown
	if err := s.StatsCloser.Close(); err != nil {
		s.Logger.Error(err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := proxy.Shutdown(ctx); err != nil {
		return cli.NewExitError(fmt.Sprintf("while shutting down: %s", err), 1)
	}
	return nil
}

// Healthz returns the health check response. It always returns a 200
// currently.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	data, err := json.MarshalIndent(&struct {
		Status string `json:"status"`
	}{
		Status: "ok",
	}, "", "  ")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Error creating status json response: %s", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) // nolint: errcheck
}
