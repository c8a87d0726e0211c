// ABOUTME: JSON API handlers delegating to the shared tool handlers
// ABOUTME: Maps validation errors to 400, missing entities to 404, anything else to 500
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/goccy/go-graphviz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/handlers"
	"github.com/harperreed/officecrm/logging"
	"github.com/harperreed/officecrm/models"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error  string              `json:"error"`
	Fields []models.FieldError `json:"fields,omitempty"`
}

type tool[In, Out any] func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)

// call runs a tool and writes its output with status on success.
func call[In, Out any](w http.ResponseWriter, r *http.Request, status int, fn tool[In, Out], in In) {
	_, out, err := fn(r.Context(), nil, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, db.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		logging.FromContext(r.Context()).Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// decode reads a JSON body into v. It writes the 400 itself and
// returns false on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid JSON body: %v", err)})
		return false
	}
	return true
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	call(w, r, http.StatusOK, tools(r).HomeSummary, handlers.HomeSummaryInput{})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	call(w, r, http.StatusOK, tools(r).ActivityMatrix, handlers.ActivityMatrixInput{
		Start: q.Get("start"),
		End:   q.Get("end"),
	})
}

func (s *Server) handleListOwners(w http.ResponseWriter, r *http.Request) {
	call(w, r, http.StatusOK, tools(r).ListOwners, handlers.ListOwnersInput{})
}

func (s *Server) handleCreateOwner(w http.ResponseWriter, r *http.Request) {
	var in handlers.AddOwnerInput
	if !decode(w, r, &in) {
		return
	}
	call(w, r, http.StatusCreated, tools(r).AddOwner, in)
}

func (s *Server) handleOwnerSummary(w http.ResponseWriter, r *http.Request) {
	call(w, r, http.StatusOK, tools(r).OwnerSummary, handlers.OwnerSummaryInput{OwnerID: r.PathValue("id")})
}

func (s *Server) handleUpdateOwner(w http.ResponseWriter, r *http.Request) {
	var in handlers.UpdateOwnerInput
	if !decode(w, r, &in) {
		return
	}
	in.OwnerID = r.PathValue("id")
	call(w, r, http.StatusOK, tools(r).UpdateOwner, in)
}

func (s *Server) handleDeleteOwner(w http.ResponseWriter, r *http.Request) {
	call(w, r, http.StatusOK, tools(r).DeleteOwner, handlers.DeleteOwnerInput{OwnerID: r.PathValue("id")})
}

func (s *Server) handleCreateOffice(w http.ResponseWriter, r *http.Request) {
	var in handlers.AddOfficeInput
	if !decode(w, r, &in) {
		return
	}
	in.OwnerID = r.PathValue("id")
	call(w, r, http.StatusCreated, tools(r).AddOffice, in)
}

func (s *Server) handleOfficeSummary(w http.ResponseWriter, r *http.Request) {
	call(w, r, http.StatusOK, tools(r).OfficeSummary, handlers.OfficeSummaryInput{OfficeID: r.PathValue("id")})
}

func (s *Server) handleUpdateOffice(w http.ResponseWriter, r *http.Request) {
	var in handlers.UpdateOfficeInput
	if !decode(w, r, &in) {
		return
	}
	in.OfficeID = r.PathValue("id")
	call(w, r, http.StatusOK, tools(r).UpdateOffice, in)
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in handlers.AddEmployeeInput
	if !decode(w, r, &in) {
		return
	}
	in.OfficeID = r.PathValue("id")
	call(w, r, http.StatusCreated, tools(r).AddEmployee, in)
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var in handlers.UpdateEmployeeInput
	if !decode(w, r, &in) {
		return
	}
	in.EmployeeID = r.PathValue("id")
	call(w, r, http.StatusOK, tools(r).UpdateEmployee, in)
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	call(w, r, http.StatusOK, tools(r).DeleteEmployee, handlers.DeleteEmployeeInput{EmployeeID: r.PathValue("id")})
}

func (s *Server) handleLogReport(w http.ResponseWriter, r *http.Request) {
	var in handlers.LogReportInput
	if !decode(w, r, &in) {
		return
	}
	call(w, r, http.StatusCreated, tools(r).LogReport, in)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	call(w, r, http.StatusOK, tools(r).GetReport, handlers.GetReportInput{ReportID: r.PathValue("id")})
}

var graphFormats = map[string]struct {
	format      graphviz.Format
	contentType string
}{
	"dot": {graphviz.XDOT, "text/vnd.graphviz"},
	"svg": {graphviz.SVG, "image/svg+xml"},
	"png": {graphviz.PNG, "image/png"},
}

// handleGraph renders the hierarchy graph. ?owner_id limits it to one
// owner; ?format picks dot (default), svg or png.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.ToLower(q.Get("format"))
	if name == "" {
		name = "dot"
	}
	f, ok := graphFormats[name]
	if !ok {
		writeError(w, r, &models.ValidationError{Fields: []models.FieldError{{
			Field:   "format",
			Message: fmt.Sprintf("must be dot, svg or png (got %q)", name),
		}}})
		return
	}

	ownerID, err := optionalID("owner_id", q.Get("owner_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	user := tools(r).UserID()
	var buf bytes.Buffer
	if _, err := s.generator.RenderHierarchyGraph(r.Context(), user, ownerID, f.format, &buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", f.contentType)
	_, _ = w.Write(buf.Bytes())
}

func optionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &models.ValidationError{Fields: []models.FieldError{{Field: field, Message: "must be a UUID"}}}
	}
	return &id, nil
}
