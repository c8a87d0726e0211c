// ABOUTME: Read-only HTML dashboard pages rendered from embedded templates
// ABOUTME: Home, activity matrix and hierarchy graph views
package web

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/goccy/go-graphviz"
	"go.uber.org/zap"

	"github.com/harperreed/officecrm/handlers"
	"github.com/harperreed/officecrm/logging"
	"github.com/harperreed/officecrm/models"
)

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	_, home, err := tools(r).HomeSummary(r.Context(), nil, handlers.HomeSummaryInput{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.render(w, r, "home.html", map[string]any{
		"Title": "Home",
		"Home":  home,
	})
}

func (s *Server) handleActivityPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := handlers.ActivityMatrixInput{Start: q.Get("start"), End: q.Get("end")}
	_, activity, err := tools(r).ActivityMatrix(r.Context(), nil, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.render(w, r, "activity.html", map[string]any{
		"Title":    "Activity",
		"Input":    in,
		"Activity": activity,
	})
}

func (s *Server) handleGraphPage(w http.ResponseWriter, r *http.Request) {
	ownerID, err := optionalID("owner_id", r.URL.Query().Get("owner_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	stats, err := s.generator.RenderHierarchyGraph(r.Context(), tools(r).UserID(), ownerID, graphviz.SVG, &buf)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.render(w, r, "graph.html", map[string]any{
		"Title": "Hierarchy",
		"Stats": stats,
		// Graphviz output is generated locally from escaped labels.
		"SVG": template.HTML(buf.String()), //nolint:gosec
	})
}

// render executes into a buffer first so a template error still yields
// a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.FromContext(r.Context()).Error("template error", zap.String("template", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func calltypeLabel(s string) string {
	return models.CallType(s).Label()
}

// shortTime reformats an RFC3339 string for display; anything else is
// returned unchanged.
func shortTime(s string) string {
	if s == "" {
		return "never"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02 15:04")
}
