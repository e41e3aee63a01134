package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pressdeck/overview/internal/domain/content"
	"github.com/pressdeck/overview/internal/domain/overview"
	"github.com/pressdeck/overview/internal/domain/taxonomy"
)

// Server wires HTTP handlers for the overview board.
type Server struct {
	svc    *overview.Service
	logger *slog.Logger
}

// NewServer creates the HTTP router.
func NewServer(svc *overview.Service, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{svc: svc, logger: logger}

	r.Get("/overview", srv.handleOverview)
	r.Post("/preferences/columns", srv.handleColumnPrefs)
	r.Get("/health", srv.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID := query.Get("user_id")
	if userID == "" {
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}

	report, err := s.svc.Build(r.Context(), userID, overridesFromQuery(query))
	if err != nil {
		if errors.Is(err, overview.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("overview build failed", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, s.renderReport(r, report))
}

func (s *Server) handleColumnPrefs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID := query.Get("user_id")
	if userID == "" {
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}

	count, err := strconv.Atoi(query.Get("columns"))
	if err != nil {
		http.Error(w, "invalid columns", http.StatusBadRequest)
		return
	}

	if err := s.svc.SetColumnCount(r.Context(), userID, count); err != nil {
		if errors.Is(err, overview.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("saving column preference failed", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// overridesFromQuery maps request parameters to filter overrides,
// preserving the absent-versus-empty distinction: a parameter present
// with an empty value is an explicit clear.
func overridesFromQuery(query url.Values) overview.Overrides {
	var ov overview.Overrides
	if query.Has("post_status") {
		ov.Status = overview.StringOverride(query.Get("post_status"))
	}
	if query.Has("cat") {
		ov.GroupID = overview.StringOverride(query.Get("cat"))
	}
	if query.Has("author") {
		ov.AuthorID = overview.StringOverride(query.Get("author"))
	}
	if query.Has("start_date") {
		ov.StartDate = overview.StringOverride(query.Get("start_date"))
	}
	if query.Has("number_days") {
		ov.DayCount = overview.StringOverride(query.Get("number_days"))
	}
	return ov
}

type overviewResponse struct {
	Filters  overview.FilterSet    `json:"filters"`
	Window   overview.DateWindow   `json:"window"`
	Columns  []overview.ColumnSpec `json:"columns"`
	Layout   [][]string            `json:"layout"`
	Groups   []groupPayload        `json:"groups"`
	Warnings []string              `json:"warnings,omitempty"`
}

type groupPayload struct {
	Group taxonomy.Group `json:"group"`
	Rows  []rowPayload   `json:"rows"`
	Error string         `json:"error,omitempty"`
}

type rowPayload struct {
	Item    content.Item      `json:"item"`
	Cells   []string          `json:"cells"`
	Actions []overview.Action `json:"actions,omitempty"`
}

func (s *Server) renderReport(r *http.Request, report *overview.Report) overviewResponse {
	registry := s.svc.Columns()

	resp := overviewResponse{
		Filters:  report.Filters,
		Window:   report.Window,
		Columns:  report.Columns,
		Warnings: report.Warnings,
	}

	for _, column := range report.Layout.Columns {
		ids := make([]string, 0, len(column))
		for _, group := range column {
			ids = append(ids, group.ID)
		}
		resp.Layout = append(resp.Layout, ids)
	}

	for _, res := range report.Groups {
		payload := groupPayload{Group: res.Group}
		if res.Err != nil {
			payload.Error = res.Err.Error()
		}
		for _, item := range res.Items {
			payload.Rows = append(payload.Rows, rowPayload{
				Item:    item,
				Cells:   registry.Row(r.Context(), item, res.Group),
				Actions: registry.RowActions(item),
			})
		}
		resp.Groups = append(resp.Groups, payload)
	}

	return resp
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response failed", "error", err)
	}
}
