// ABOUTME: HTTP server exposing the JSON API, dashboard pages and /metrics
// ABOUTME: Routes use Go 1.22 method patterns; every request is tagged with a ULID
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/metrics"
	"github.com/harperreed/officecrm/viz"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Server struct {
	store       *db.Store
	templates   *template.Template
	generator   *viz.GraphGenerator
	logger      *zap.Logger
	defaultUser *uuid.UUID
	handler     http.Handler
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultUser serves requests that carry no identity as userID.
// Meant for a local single-user dashboard.
func WithDefaultUser(userID uuid.UUID) Option {
	return func(s *Server) {
		s.defaultUser = &userID
	}
}

func NewServer(store *db.Store, opts ...Option) (*Server, error) {
	funcMap := template.FuncMap{
		"label": calltypeLabel,
		"short": shortTime,
		"cell": func(counts map[string]int, calltype string) int {
			return counts[calltype]
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		store:     store,
		templates: tmpl,
		generator: viz.NewGraphGenerator(store),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.instrument(s.routes())
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.Handle("GET /api/home", s.identify(s.handleHome))
	mux.Handle("GET /api/activity", s.identify(s.handleActivity))
	mux.Handle("GET /api/graph", s.identify(s.handleGraph))

	mux.Handle("GET /api/owners", s.identify(s.handleListOwners))
	mux.Handle("POST /api/owners", s.identify(s.handleCreateOwner))
	mux.Handle("GET /api/owners/{id}", s.identify(s.handleOwnerSummary))
	mux.Handle("PATCH /api/owners/{id}", s.identify(s.handleUpdateOwner))
	mux.Handle("DELETE /api/owners/{id}", s.identify(s.handleDeleteOwner))
	mux.Handle("POST /api/owners/{id}/offices", s.identify(s.handleCreateOffice))

	mux.Handle("GET /api/offices/{id}", s.identify(s.handleOfficeSummary))
	mux.Handle("PATCH /api/offices/{id}", s.identify(s.handleUpdateOffice))
	mux.Handle("POST /api/offices/{id}/employees", s.identify(s.handleCreateEmployee))

	mux.Handle("PATCH /api/employees/{id}", s.identify(s.handleUpdateEmployee))
	mux.Handle("DELETE /api/employees/{id}", s.identify(s.handleDeleteEmployee))

	mux.Handle("POST /api/reports", s.identify(s.handleLogReport))
	mux.Handle("GET /api/reports/{id}", s.identify(s.handleGetReport))

	mux.Handle("GET /{$}", s.identify(s.handleHomePage))
	mux.Handle("GET /activity", s.identify(s.handleActivityPage))
	mux.Handle("GET /graph", s.identify(s.handleGraphPage))

	return mux
}

// ServeHTTP lets the server be mounted or driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start listens on port until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", zap.String("addr", "http://localhost"+srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DB().PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
