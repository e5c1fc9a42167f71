// Package server provides the HTTP surface of a slackrelay bot: the slack
// events and slash command webhooks (both authenticated with the app's signing
// secret) along with a health endpoint and an admin endpoint to reload the
// plugin configuration.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexandre-normand/slackrelay"
	"github.com/gorilla/mux"
)

const (
	defaultPort = 8080

	shutdownTimeout = 5 * time.Second
)

// Backend is the part of the bot the HTTP surface drives: intake of inbound
// events and the operational state exposed on the health and admin endpoints.
// *slackrelay.Bot implements it
type Backend interface {
	HandleEvent(e *slackrelay.Event) error
	Health() slackrelay.Health
	ReloadPlugins() error
}

// Server is the HTTP front of a bot. Create one with New and start it
// with Run
type Server struct {
	backend       Backend
	signingSecret string
	port          int
	debug         bool

	logger     *log.Logger
	log        slackrelay.SLogger
	httpServer *http.Server
}

// Option defines an option for the Server
type Option func(*Server)

// OptionPort sets the port the server listens on. Defaults to 8080
func OptionPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// OptionLog sets an alternate logger for the server to use
func OptionLog(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// OptionDebug enables debug logging of the request handling
func OptionDebug(debug bool) Option {
	return func(s *Server) {
		s.debug = debug
	}
}

// New creates a new Server fronting the given backend. The signing secret is
// the slack app's and authenticates every webhook request
func New(backend Backend, signingSecret string, options ...Option) (s *Server) {
	s = new(Server)
	s.backend = backend
	s.signingSecret = signingSecret
	s.port = defaultPort
	s.logger = log.New(os.Stdout, "", log.LstdFlags)

	for _, option := range options {
		option(s)
	}

	s.log = slackrelay.NewSLogger(s.logger, s.debug)

	return s
}

// Run starts serving and blocks until the context is canceled, at which point
// in-flight requests get a grace period to finish before the listener closes
func (s *Server) Run(ctx context.Context) (err error) {
	s.httpServer = &http.Server{Addr: fmt.Sprintf(":%d", s.port), Handler: s.router()}

	errCh := make(chan error, 1)
	go func() {
		s.log.Printf("Listening for slack requests on port [%d]\n", s.port)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.log.Debugf("Shutting down the http server\n")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.httpServer.Shutdown(shutdownCtx)
	case err = <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}

		return err
	}
}

// router lays out the routes. Split out from Run so tests can drive the
// handlers without a listener
func (s *Server) router() (r *mux.Router) {
	r = mux.NewRouter()
	r.HandleFunc("/slack/events", s.handleEvent).Methods(http.MethodPost)
	r.HandleFunc("/slack/commands", s.handleCommand).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/admin/plugins/reload", s.handleReload).Methods(http.MethodPost)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(s.backend.Health()); err != nil {
		s.log.Printf("Error writing health response: %v\n", err)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.ReloadPlugins(); err != nil {
		s.log.Printf("Error reloading plugins: %v\n", err)
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	s.log.Printf("Plugins reloaded\n")

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"reloaded"}`))
}
