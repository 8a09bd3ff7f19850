package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed openapi.yaml
var rawSpec []byte

// Spec parses the embedded OpenAPI document.
func Spec() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

// Engine defines what the HTTP server needs from the zonecheck engine.
type Engine interface {
	Check(ctx context.Context, query string) (*domain.Verdict, error)
	Components() ([]string, error)
	Component(name string) (*domain.Component, error)
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Server serves the zonecheck API.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	router  routers.Router
	metrics http.Handler
	logger  *slog.Logger
}

// HandlerOption configures the handler built by NewHandler.
type HandlerOption func(*Server)

// WithMetrics exposes h under /metrics.
func WithMetrics(h http.Handler) HandlerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the logger of the server.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine. Requests to
// documented routes are validated against the embedded OpenAPI document.
func NewHandler(engine Engine, opts ...HandlerOption) (http.Handler, error) {
	doc, err := Spec()
	if err != nil {
		return nil, err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}

	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		router:  router,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.validate)
		r.Get("/healthz", s.GetHealth)
		r.Post("/v1/query", s.CheckQuery)
		r.Get("/v1/components", s.ListComponents)
		r.Get("/v1/components/{name}", s.GetComponent)
		r.Get("/v1/events", s.SubscribeEvents)
	})
	return r, nil
}

func (s *Server) validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, params, err := s.router.FindRoute(r)
		if err != nil {
			// Undocumented routes are served as is; chi answers 404/405.
			next.ServeHTTP(w, r)
			return
		}
		err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
		})
		if err != nil {
			s.logger.Warn("request rejected", "path", r.URL.Path, "err", err)
			writeError(w, http.StatusBadRequest, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// CheckQuery handles the POST /v1/query request.
func (s *Server) CheckQuery(w http.ResponseWriter, r *http.Request) {
	var body QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	v, err := s.Engine.Check(r.Context(), body.Query)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("check failed", "query", body.Query, "err", err)
		}
		writeError(w, status, err)
		return
	}

	if payload, err := json.Marshal(v); err == nil {
		s.Streams.Broadcast(string(v.Kind), "verdict", payload)
	}
	writeJSON(w, http.StatusOK, v)
}

// ListComponents handles the GET /v1/components request.
func (s *Server) ListComponents(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.Components()
	if err != nil {
		s.logger.Error("list components failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"components": names})
}

// GetComponent handles the GET /v1/components/{name} request.
func (s *Server) GetComponent(w http.ResponseWriter, r *http.Request) {
	c, err := s.Engine.Component(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SubscribeEvents handles the GET /v1/events request (SSE). It streams
// verdicts as they are produced and a reload event whenever the components
// change. The stream ends when the client leaves or the watch closes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var reloads <-chan struct{}
	if ch, err := s.Engine.Watch(r.Context()); err == nil {
		reloads = ch
	} else {
		s.logger.Debug("SSE: component watch unavailable", "err", err)
	}

	events, cancel := s.Streams.Subscribe(r.URL.Query().Get("kind"))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-reloads:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: components changed\n\n")
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			flusher.Flush()
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrComponentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidComponent),
		errors.Is(err, domain.ErrInvalidExpression),
		errors.Is(err, domain.ErrUnknownLocation),
		errors.Is(err, domain.ErrUnknownClock),
		errors.Is(err, domain.ErrActionsNotDisjoint),
		errors.Is(err, domain.ErrOutputsNotDisjoint),
		errors.Is(err, domain.ErrConjunctionIncompatible),
		errors.Is(err, domain.ErrQuotientIncompatible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

