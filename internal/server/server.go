// Package server implements a small form service that speaks the same HTTP
// contract the client consumes. It backs local runs and tests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/internal/metrics"
	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/model"
)

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logging.OrNop(logger)
	}
}

// WithMetrics records request metrics and mounts /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithContract routes operations from the given contract instead of the
// embedded one.
func WithContract(c *client.Contract) Option {
	return func(s *Server) {
		if c != nil {
			s.contract = c
		}
	}
}

// Server serves form structures from a loader.Source and registers users in
// a Registry.
type Server struct {
	source   loader.Source
	users    *Registry
	contract *client.Contract
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewHandler builds the chi router. Operation paths and methods come from the
// service contract.
func NewHandler(ctx context.Context, source loader.Source, users *Registry, options ...Option) (http.Handler, error) {
	if source == nil {
		return nil, errors.New("server: form source is nil")
	}
	if users == nil {
		users = NewRegistry()
	}
	s := &Server{
		source: source,
		users:  users,
		logger: logging.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.contract == nil {
		c, err := client.LoadContract(ctx, nil)
		if err != nil {
			return nil, err
		}
		s.contract = c
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	handlers := map[string]http.HandlerFunc{
		client.OperationGetForm:    s.getForm,
		client.OperationCreateUser: s.createUser,
	}
	for id, h := range handlers {
		ep, ok := s.contract.Endpoint(id)
		if !ok {
			return nil, fmt.Errorf("server: contract is missing operation %q", id)
		}
		r.Method(ep.Method, ep.Path, h)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(client.ContractDocument())
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r, nil
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	roll := strings.TrimSpace(r.URL.Query().Get("rollNumber"))
	if roll == "" {
		writeMessage(w, http.StatusBadRequest, "rollNumber is required")
		return
	}

	form, err := s.source.FetchForm(r.Context(), roll)
	switch {
	case err == nil:
	case errors.Is(err, loader.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Form not found")
		return
	default:
		s.logger.Error("fetch form failed", "roll_number", roll, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to load form")
		return
	}

	writeJSON(w, http.StatusOK, model.FormResponse{Message: "Form fetched successfully", Form: form})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		s.logger.Warn("create user: invalid request body", "error", err)
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := s.users.Create(user)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserExists):
		writeMessage(w, http.StatusConflict, "User already exists")
		return
	case errors.Is(err, ErrInvalidUser):
		writeMessage(w, http.StatusBadRequest, "Both Roll Number and Name are required.")
		return
	default:
		s.logger.Error("create user failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info("user registered", "roll_number", created.RollNumber)
	writeMessage(w, http.StatusCreated, "User created successfully")
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(started)
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, status, elapsed)
		}
		s.logger.Debug("request served",
			"method", r.Method,
			"route", route,
			"status", status,
			"elapsed", elapsed,
		)
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	logger = logging.OrNop(logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("form service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("form service shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
