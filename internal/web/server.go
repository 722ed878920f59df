package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/conorfennell/problemlog/internal/domain"
	"github.com/conorfennell/problemlog/internal/tracker"
	"github.com/conorfennell/problemlog/internal/view"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	tracker      *tracker.Tracker
	router       *http.ServeMux
	templates    *template.Template
	logger       *slog.Logger
	dismissAfter time.Duration
}

// pageData is what the templates render.
type pageData struct {
	view.Page
	DeletePrompt string
	Difficulties []domain.Difficulty
}

// NewServer creates and configures a new server.
func NewServer(tr *tracker.Tracker, logger *slog.Logger, dismissAfter time.Duration) (*Server, error) {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if dismissAfter <= 0 {
		dismissAfter = view.DefaultDismissAfter
	}

	s := &Server{
		tracker:      tr,
		router:       http.NewServeMux(),
		templates:    tpl,
		logger:       logger,
		dismissAfter: dismissAfter,
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create sub-filesystem for static assets: %w", err)
	}
	fileServer := http.FileServer(http.FS(staticFS))

	s.router.Handle("/static/", http.StripPrefix("/static/", fileServer))
	s.router.HandleFunc("/", s.handleIndex())

	// HTMX-based routes
	s.router.HandleFunc("/board", s.handleGetBoard())
	s.router.HandleFunc("/problems", s.handlePostProblem())
	s.router.HandleFunc("/problems/", s.handleProblem())
	return nil
}

// handleIndex renders the full page.
func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.render(w, http.StatusOK, "index", nil)
	}
}

// handleGetBoard re-renders stats, reminders and the list.
func (s *Server) handleGetBoard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.render(w, http.StatusOK, "board", nil)
	}
}

// handlePostProblem adds a problem from the submitted form.
func (s *Server) handlePostProblem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}

		fields, err := fieldsFromForm(r)
		if err == nil {
			_, err = s.tracker.Add(r.Context(), fields)
		}
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				s.render(w, http.StatusUnprocessableEntity, "board", s.failure(describe(verr)))
				return
			}
			s.logger.Error("Error adding problem", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, http.StatusOK, "board", s.success(view.MsgAdded))
	}
}

// handleProblem handles DELETE /problems/{id} and POST /problems/{id}/revise.
func (s *Server) handleProblem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/problems/")
		idStr, action, _ := strings.Cut(rest, "/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid problem ID", http.StatusBadRequest)
			return
		}

		switch {
		case action == "" && r.Method == http.MethodDelete:
			s.handleDelete(w, r, id)
		case action == "revise" && r.Method == http.MethodPost:
			s.handleRevise(w, r, id)
		case action == "" || action == "revise":
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		default:
			http.NotFound(w, r)
		}
	}
}

// handleDelete removes a problem. The page confirms with the user
// before it sends the request.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, id int64) {
	deleted, err := s.tracker.Delete(r.Context(), id, tracker.Confirmed)
	if err != nil {
		s.logger.Error("Error deleting problem", "id", id, "error", err)
		http.Error(w, "Failed to delete problem", http.StatusInternalServerError)
		return
	}
	var note *view.Notification
	if deleted {
		note = s.success(view.MsgDeleted)
	}
	s.render(w, http.StatusOK, "board", note)
}

// handleRevise marks a problem as revised.
func (s *Server) handleRevise(w http.ResponseWriter, r *http.Request, id int64) {
	found, err := s.tracker.MarkRevised(r.Context(), id)
	if err != nil {
		s.logger.Error("Error marking problem revised", "id", id, "error", err)
		http.Error(w, "Failed to mark problem revised", http.StatusInternalServerError)
		return
	}
	var note *view.Notification
	if found {
		note = s.success(view.MsgRevised)
	}
	s.render(w, http.StatusOK, "board", note)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, note *view.Notification) {
	data := pageData{
		Page:         view.Build(s.tracker.Problems(), s.tracker.Today(), note),
		DeletePrompt: tracker.DeletePrompt,
		Difficulties: domain.Difficulties,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Error rendering template", "template", name, "error", err)
	}
}

func (s *Server) success(msg string) *view.Notification {
	n := view.Success(msg)
	n.DismissAfter = s.dismissAfter
	return n
}

func (s *Server) failure(msg string) *view.Notification {
	n := view.Failure(msg)
	n.DismissAfter = s.dismissAfter
	return n
}

func fieldsFromForm(r *http.Request) (domain.Fields, error) {
	fields := domain.Fields{
		Name:          r.PostFormValue("name"),
		Link:          r.PostFormValue("link"),
		Difficulty:    domain.Difficulty(r.PostFormValue("difficulty")),
		Topic:         r.PostFormValue("topic"),
		Company:       r.PostFormValue("company"),
		Notes:         r.PostFormValue("notes"),
		NeedsRevision: r.PostFormValue("needsRevision") != "",
	}
	if raw := strings.TrimSpace(r.PostFormValue("revisionDate")); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			return fields, domain.NewValidationError("revisionDate", "must be a date")
		}
		fields.RevisionDate = &d
	}
	return fields, nil
}

func describe(verr *domain.ValidationError) string {
	parts := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return "Could not add problem: " + strings.Join(parts, ", ")
}
