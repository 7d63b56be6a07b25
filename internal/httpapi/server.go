// Package httpapi serves tasks, lists and calendar views as JSON.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"taskcal/internal/repo"
	"taskcal/internal/service"
	"taskcal/internal/view"
)

const maxBodyBytes = 1 << 20

// Options configures a Server. Zero values fall back to time.Local,
// slog.Default(), time.Now and uuid.NewString.
type Options struct {
	WeekStart time.Weekday
	Location  *time.Location
	Logger    *slog.Logger
	Now       func() time.Time
	NewID     func() string
}

// Server routes API requests to a service.Service.
type Server struct {
	svc    service.Service
	opts   Options
	log    *slog.Logger
	router *mux.Router
}

// New creates a Server with all routes registered.
func New(svc service.Service, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	s := &Server{svc: svc, opts: opts, log: opts.Logger, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router.PathPrefix("/api").Subrouter()
	r.Use(s.logRequests)

	r.HandleFunc("/lists", s.getLists).Methods(http.MethodGet)
	r.HandleFunc("/lists", s.createList).Methods(http.MethodPost)
	r.HandleFunc("/lists/ensure-default", s.ensureDefaultList).Methods(http.MethodPost)
	r.HandleFunc("/lists/{id}", s.updateList).Methods(http.MethodPut)
	r.HandleFunc("/lists/{id}", s.deleteList).Methods(http.MethodDelete)

	r.HandleFunc("/tasks", s.getTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", s.createTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", s.getTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", s.updateTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id}", s.deleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/tasks/{id}/toggle", s.toggleTask).Methods(http.MethodPost)

	r.HandleFunc("/calendar/{mode}", s.calendar).Methods(http.MethodGet)
	r.HandleFunc("/agenda/{mode}", s.agenda).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.stats).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func (s *Server) stamp() string {
	return s.opts.Now().UTC().Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail maps err to a status code. Backend failures are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrDuplicateID):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "task not found")
	case repo.IsRejected(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// viewOptions reads the lists and active query parameters.
func (s *Server) viewOptions(r *http.Request) (view.Options, error) {
	opts := view.Options{WeekStart: s.opts.WeekStart, Location: s.opts.Location}
	q := r.URL.Query()
	for _, id := range strings.Split(q.Get("lists"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			opts.ListIDs = append(opts.ListIDs, id)
		}
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New("invalid active parameter")
		}
		opts.ActiveOnly = active
	}
	return opts, nil
}

// refDate reads the date query parameter, defaulting to today.
func (s *Server) refDate(r *http.Request) (time.Time, error) {
	if d := r.URL.Query().Get("date"); d != "" {
		return view.ParseDate(d)
	}
	return view.DateOf(s.opts.Now().In(s.opts.Location)), nil
}
