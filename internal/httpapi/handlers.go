package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"taskcal/internal/service"
	"taskcal/internal/view"
)

// GET /api/lists
func (s *Server) getLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.GetLists(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// POST /api/lists
func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var list service.List
	if !decode(w, r, &list) {
		return
	}
	if list.ID == "" {
		list.ID = s.opts.NewID()
	}
	list.CreatedAt = s.stamp()
	list.UpdatedAt = list.CreatedAt
	if err := s.svc.AddList(r.Context(), list); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// POST /api/lists/ensure-default
func (s *Server) ensureDefaultList(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.EnsureDefaultList(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// PUT /api/lists/{id}
func (s *Server) updateList(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	lists, err := s.svc.GetLists(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var existing *service.List
	for i := range lists {
		if lists[i].ID == id {
			existing = &lists[i]
			break
		}
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	var list service.List
	if !decode(w, r, &list) {
		return
	}
	list.ID = id
	list.CreatedAt = existing.CreatedAt
	list.UpdatedAt = s.stamp()
	if err := s.svc.UpdateList(r.Context(), list); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// DELETE /api/lists/{id}
func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteList(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/tasks?lists=&active=&completed=
func (s *Server) getTasks(w http.ResponseWriter, r *http.Request) {
	opts, err := s.viewOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tasks, err := s.svc.GetTasks(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("completed") == "true" {
		tasks = view.FilterLists(view.Completed(tasks), opts.ListIDs)
	} else {
		tasks = view.Visible(tasks, opts)
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) findTask(w http.ResponseWriter, r *http.Request) (service.Task, bool) {
	id := mux.Vars(r)["id"]
	tasks, err := s.svc.GetTasks(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return service.Task{}, false
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	writeError(w, http.StatusNotFound, "task not found")
	return service.Task{}, false
}

// GET /api/tasks/{id}
func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.findTask(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// POST /api/tasks
func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var task service.Task
	if !decode(w, r, &task) {
		return
	}
	if task.ID == "" {
		task.ID = s.opts.NewID()
	}
	if task.Status == "" {
		task.Status = service.StatusActive
	}
	task.CreatedAt = s.stamp()
	task.UpdatedAt = task.CreatedAt
	if err := s.svc.AddTask(r.Context(), task); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// PUT /api/tasks/{id}
func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.findTask(w, r)
	if !ok {
		return
	}
	var task service.Task
	if !decode(w, r, &task) {
		return
	}
	task.ID = existing.ID
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = s.stamp()
	if err := s.svc.UpdateTask(r.Context(), task); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DELETE /api/tasks/{id}
func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTask(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/tasks/{id}/toggle
func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	toggled, err := s.svc.ToggleTask(r.Context(), mux.Vars(r)["id"], s.stamp())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggled)
}

// windowRequest parses the mode path variable and the date, offset, lists
// and active parameters shared by the calendar endpoints.
func (s *Server) windowRequest(w http.ResponseWriter, r *http.Request) (view.Mode, time.Time, view.Options, []service.Task, bool) {
	mode, err := view.ParseMode(mux.Vars(r)["mode"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", time.Time{}, view.Options{}, nil, false
	}
	ref, opts, tasks, ok := s.windowQuery(w, r, mode)
	return mode, ref, opts, tasks, ok
}

func (s *Server) windowQuery(w http.ResponseWriter, r *http.Request, mode view.Mode) (time.Time, view.Options, []service.Task, bool) {
	ref, err := s.refDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, view.Options{}, nil, false
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset parameter")
			return time.Time{}, view.Options{}, nil, false
		}
		ref = view.Navigate(mode, ref, n)
	}
	opts, err := s.viewOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, view.Options{}, nil, false
	}
	tasks, err := s.svc.GetTasks(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return time.Time{}, view.Options{}, nil, false
	}
	return ref, opts, tasks, true
}

// GET /api/calendar/{mode}?date=&offset=&lists=&active=
//
// day returns one DayCell, week seven, month a Month grid.
func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	mode, ref, opts, tasks, ok := s.windowRequest(w, r)
	if !ok {
		return
	}
	now := s.opts.Now()
	switch mode {
	case view.ModeWeek:
		writeJSON(w, http.StatusOK, view.Week(tasks, ref, now, opts))
	case view.ModeMonth:
		writeJSON(w, http.StatusOK, view.MonthGrid(tasks, ref, now, opts))
	default:
		today := view.DateOf(now.In(s.opts.Location))
		writeJSON(w, http.StatusOK, view.DayCell{
			Date:    view.DateOf(ref),
			Today:   view.DateOf(ref).Equal(today),
			InMonth: true,
			Tasks:   view.Day(tasks, ref, opts),
		})
	}
}

// GET /api/agenda/{mode}?date=&offset=&lists=&active=
func (s *Server) agenda(w http.ResponseWriter, r *http.Request) {
	mode, ref, opts, tasks, ok := s.windowRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view.Agenda(tasks, mode, ref, opts))
}

type statsResponse struct {
	view.Stats
	Lists []view.ListStats `json:"lists,omitempty"`
}

// GET /api/stats?mode=&date=&offset=&lists=&byList=
//
// Without mode all tasks are counted.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	var mode view.Mode
	if m := r.URL.Query().Get("mode"); m != "" {
		var err error
		if mode, err = view.ParseMode(m); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	ref, opts, tasks, ok := s.windowQuery(w, r, mode)
	if !ok {
		return
	}

	var resp statsResponse
	if mode == "" {
		resp.Stats = view.Summarize(tasks, opts)
	} else {
		resp.Stats = view.SummarizeWindow(tasks, mode, ref, opts)
		from, to := view.Window(mode, ref, opts.WeekStart)
		tasks = view.Between(tasks, from, to, view.Options{Location: opts.Location})
	}

	if r.URL.Query().Get("byList") == "true" {
		lists, err := s.svc.GetLists(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Lists = view.SummarizeByList(tasks, lists, opts)
	}
	writeJSON(w, http.StatusOK, resp)
}
