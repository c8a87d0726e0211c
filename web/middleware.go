// ABOUTME: Request middleware: request ids, access logging, metrics and identity
// ABOUTME: Identity comes from X-User-ID, X-User or the user query parameter
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/handlers"
	"github.com/harperreed/officecrm/logging"
	"github.com/harperreed/officecrm/metrics"
	"github.com/harperreed/officecrm/models"
)

const (
	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"
	headerUser      = "X-User"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument assigns a request id, puts a request-scoped logger in the
// context, and records the access log line and metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = ulid.Make().String()
		}
		w.Header().Set(headerRequestID, requestID)

		logger := s.logger.With(zap.String("request_id", requestID))
		r = r.WithContext(logging.WithContext(r.Context(), logger))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// The mux fills in Pattern on the request it was handed.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.ObserveRequest(r.Method, route, rec.status, elapsed)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("latency", elapsed),
		)
	})
}

type toolsKey struct{}

// identify resolves the acting user and binds a tool set to them.
func (s *Server) identify(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolveUser(r)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) || errors.Is(err, errNoIdentity) {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
				return
			}
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), toolsKey{}, handlers.NewHandlers(s.store, user.ID))
		ctx = logging.WithContext(ctx, logging.FromContext(ctx).With(zap.String("user_id", user.ID.String())))
		next(w, r.WithContext(ctx))
	})
}

var errNoIdentity = errors.New("missing user identity: set X-User-ID, X-User or ?user=")

func (s *Server) resolveUser(r *http.Request) (*models.User, error) {
	if raw := r.Header.Get(headerUserID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &models.ValidationError{Fields: []models.FieldError{{Field: headerUserID, Message: "must be a UUID"}}}
		}
		return s.store.GetUser(r.Context(), id)
	}

	name := r.Header.Get(headerUser)
	if name == "" {
		name = r.URL.Query().Get("user")
	}
	if name != "" {
		return s.store.GetUserByName(r.Context(), name)
	}

	if s.defaultUser != nil {
		return s.store.GetUser(r.Context(), *s.defaultUser)
	}
	return nil, errNoIdentity
}

func tools(r *http.Request) *handlers.Handlers {
	return r.Context().Value(toolsKey{}).(*handlers.Handlers)
}
