package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	"interviewer/internal/config"
	"interviewer/internal/interview"
	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
	"interviewer/internal/store"
)

const maxBodyBytes = 1 << 20

// HealthChecker verifies an upstream dependency is usable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server is the daemon's HTTP API front end.
type Server struct {
	bind      string
	logger    *slog.Logger
	svc       *interview.Service
	store     *store.Store
	objects   objectstore.Client
	llm       HealthChecker
	startedAt time.Time

	llmMu        sync.Mutex
	llmCheckedAt time.Time
	llmCached    llmStatus

	listener net.Listener
	server   *http.Server
}

// New assembles the API server. A nil config or empty bind address disables
// it and returns nil.
func New(cfg *config.Config, svc *interview.Service, st *store.Store, objects objectstore.Client, llm HealthChecker, logger *slog.Logger) *Server {
	if cfg == nil || svc == nil {
		return nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		bind:      bind,
		logger:    logging.WithComponent(logger, "api-server"),
		svc:       svc,
		store:     st,
		objects:   objects,
		llm:       llm,
		startedAt: time.Now().UTC(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("GET /api/storage/health", srv.handleStorageHealth)

	mux.HandleFunc("GET /api/rooms", srv.handleListRooms)
	mux.HandleFunc("POST /api/rooms", srv.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{id}", srv.handleGetRoom)
	mux.HandleFunc("DELETE /api/rooms/{id}", srv.handleDeleteRoom)
	mux.HandleFunc("PUT /api/rooms/{id}/resume", srv.handlePutResume)
	mux.HandleFunc("GET /api/rooms/{id}/resume", srv.handleGetResume)
	mux.HandleFunc("PUT /api/rooms/{id}/jd", srv.handlePutJD)
	mux.HandleFunc("GET /api/rooms/{id}/sessions", srv.handleListSessions)
	mux.HandleFunc("POST /api/rooms/{id}/sessions", srv.handleCreateSession)

	mux.HandleFunc("GET /api/sessions/{id}", srv.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", srv.handleDeleteSession)
	mux.HandleFunc("GET /api/sessions/{id}/rounds", srv.handleListRounds)
	mux.HandleFunc("POST /api/sessions/{id}/rounds", srv.handleGenerateRound)
	mux.HandleFunc("POST /api/sessions/{id}/rounds/{index}/complete", srv.handleCompleteRound)
	mux.HandleFunc("GET /api/sessions/{id}/rounds/{index}/analysis", srv.handleGetAnalysis)
	mux.HandleFunc("POST /api/sessions/{id}/rounds/{index}/report", srv.handleGenerateReport)
	mux.HandleFunc("GET /api/sessions/{id}/rounds/{index}/report", srv.handleGetReport)

	mux.HandleFunc("GET /api/rounds/{id}/question", srv.handleCurrentQuestion)
	mux.HandleFunc("POST /api/rounds/{id}/answers", srv.handleSaveAnswer)

	srv.server = &http.Server{
		Handler:           srv.limitBody(srv.authMiddleware(strings.TrimSpace(cfg.Paths.APIToken), mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving and shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, empty before Start.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
