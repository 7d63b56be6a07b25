package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcal/internal/httpapi"
	"taskcal/internal/repo"
	"taskcal/internal/service"
	"taskcal/internal/storage"
	"taskcal/internal/testutil"
	"taskcal/internal/view"
)

var fixedNow = time.Date(2025, time.September, 16, 8, 30, 0, 0, time.UTC)

func newServer(t *testing.T, svc service.Service) *httptest.Server {
	t.Helper()
	n := 0
	h := httpapi.New(svc, httpapi.Options{
		WeekStart: time.Sunday,
		Location:  time.UTC,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func newStoreServer(t *testing.T) (*httptest.Server, *repo.Store) {
	t.Helper()
	store := repo.NewStore(storage.NewMemory())
	return newServer(t, store), store
}

// slowProvider delays every Load so that overlapping requests interleave.
type slowProvider struct {
	storage.Provider
}

func (p slowProvider) Load(ctx context.Context, key string) ([]byte, bool, error) {
	time.Sleep(5 * time.Millisecond)
	return p.Provider.Load(ctx, key)
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestEnsureDefaultList(t *testing.T) {
	srv, _ := newStoreServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/lists/ensure-default", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lists := decodeBody[[]service.List](t, resp)
	require.Len(t, lists, 1)
	assert.Equal(t, repo.DefaultListID, lists[0].ID)

	resp = do(t, http.MethodGet, srv.URL+"/api/lists", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]service.List](t, resp), 1)
}

func TestCreateList(t *testing.T) {
	srv, store := newStoreServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/lists", service.List{Name: "Work", Color: "#ff0000"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	got := decodeBody[service.List](t, resp)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "2025-09-16T08:30:00Z", got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)

	lists, err := store.GetLists(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []service.List{got}, lists)
}

func TestCreateList_Rejections(t *testing.T) {
	srv, _ := newStoreServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/lists", service.List{Name: " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/lists", service.List{Name: "Work", Color: "red"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/lists", service.List{ID: "L1", Name: "Work"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/api/lists", service.List{ID: "L1", Name: "Again"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, decodeBody[map[string]string](t, resp)["error"], "duplicate")
}

func TestMalformedPayload(t *testing.T) {
	srv, _ := newStoreServer(t)

	resp, err := http.Post(srv.URL+"/api/tasks", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateAndDeleteList(t *testing.T) {
	srv, store := newStoreServer(t)
	require.NoError(t, store.AddList(t.Context(), service.List{ID: "L1", Name: "Work", CreatedAt: "2025-01-01T00:00:00Z"}))

	resp := do(t, http.MethodPut, srv.URL+"/api/lists/L1", service.List{Name: "Office", Archived: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[service.List](t, resp)
	assert.Equal(t, "L1", got.ID)
	assert.Equal(t, "Office", got.Name)
	assert.Equal(t, "2025-01-01T00:00:00Z", got.CreatedAt)
	assert.Equal(t, "2025-09-16T08:30:00Z", got.UpdatedAt)

	resp = do(t, http.MethodPut, srv.URL+"/api/lists/nope", service.List{Name: "X"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/lists/L1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	lists, err := store.GetLists(t.Context())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestTaskLifecycle(t *testing.T) {
	srv, store := newStoreServer(t)
	require.NoError(t, store.AddList(t.Context(), service.List{ID: "L1", Name: "Work"}))

	resp := do(t, http.MethodPost, srv.URL+"/api/tasks", service.Task{Title: "Report", ListID: "L1", DueTime: "2025-09-15T09:00"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[service.Task](t, resp)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, service.StatusActive, created.Status)

	resp = do(t, http.MethodGet, srv.URL+"/api/tasks/id-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decodeBody[service.Task](t, resp))

	created.Title = "Quarterly report"
	resp = do(t, http.MethodPut, srv.URL+"/api/tasks/id-1", created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Quarterly report", decodeBody[service.Task](t, resp).Title)

	resp = do(t, http.MethodPost, srv.URL+"/api/tasks/id-1/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.StatusCompleted, decodeBody[service.Task](t, resp).Status)

	resp = do(t, http.MethodGet, srv.URL+"/api/tasks?active=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]service.Task](t, resp))

	resp = do(t, http.MethodGet, srv.URL+"/api/tasks?completed=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]service.Task](t, resp), 1)

	resp = do(t, http.MethodDelete, srv.URL+"/api/tasks/id-1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	tasks, err := store.GetTasks(t.Context())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTask_NotFoundAndRejections(t *testing.T) {
	srv, _ := newStoreServer(t)

	for _, tc := range []struct {
		method, path string
		body         any
		want         int
	}{
		{http.MethodGet, "/api/tasks/missing", nil, http.StatusNotFound},
		{http.MethodPut, "/api/tasks/missing", service.Task{Title: "X"}, http.StatusNotFound},
		{http.MethodPost, "/api/tasks/missing/toggle", nil, http.StatusNotFound},
		{http.MethodPost, "/api/tasks", service.Task{Title: ""}, http.StatusBadRequest},
		{http.MethodPost, "/api/tasks", service.Task{Title: "X", DueTime: "tomorrow"}, http.StatusBadRequest},
		{http.MethodPost, "/api/tasks", service.Task{Title: "X", ListID: "ghost"}, http.StatusBadRequest},
		{http.MethodGet, "/api/tasks?active=maybe", nil, http.StatusBadRequest},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := do(t, tc.method, srv.URL+tc.path, tc.body)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestBackendErrorIs500(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.GetTasksErr = errors.New("disk on fire")
	srv := newServer(t, fake)

	resp := do(t, http.MethodGet, srv.URL+"/api/tasks", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", decodeBody[map[string]string](t, resp)["error"])
}

func seedCalendar(t *testing.T, store *repo.Store) {
	t.Helper()
	ctx := t.Context()
	require.NoError(t, store.AddList(ctx, service.List{ID: "L1", Name: "Work"}))
	require.NoError(t, store.AddList(ctx, service.List{ID: "L2", Name: "Home"}))
	for _, task := range []service.Task{
		{ID: "T1", Title: "Report", ListID: "L1", DueTime: "2025-09-15T09:00", Status: service.StatusActive},
		{ID: "T2", Title: "Groceries", ListID: "L2", DueTime: "2025-09-17", Status: service.StatusCompleted},
		{ID: "T3", Title: "Dentist", ListID: "L2", DueTime: "2025-10-02T14:00", Status: service.StatusActive},
	} {
		require.NoError(t, store.AddTask(ctx, task))
	}
}

func TestCalendarWeek(t *testing.T) {
	srv, store := newStoreServer(t)
	seedCalendar(t, store)

	resp := do(t, http.MethodGet, srv.URL+"/api/calendar/week?date=2025-09-17", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cells := decodeBody[[]view.DayCell](t, resp)
	require.Len(t, cells, 7)
	assert.Equal(t, time.Sunday, cells[0].Date.Weekday())
	assert.Equal(t, "T1", cells[1].Tasks[0].ID)
	assert.Equal(t, "T2", cells[3].Tasks[0].ID)
	assert.True(t, cells[2].Today)

	resp = do(t, http.MethodGet, srv.URL+"/api/calendar/week?date=2025-09-17&active=true", nil)
	cells = decodeBody[[]view.DayCell](t, resp)
	assert.Empty(t, cells[3].Tasks)
}

func TestCalendarDayAndMonth(t *testing.T) {
	srv, store := newStoreServer(t)
	seedCalendar(t, store)

	resp := do(t, http.MethodGet, srv.URL+"/api/calendar/day?date=2025-09-15", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cell := decodeBody[view.DayCell](t, resp)
	require.Len(t, cell.Tasks, 1)
	assert.Equal(t, "T1", cell.Tasks[0].ID)
	assert.False(t, cell.Today)

	resp = do(t, http.MethodGet, srv.URL+"/api/calendar/month?date=2025-09-01&offset=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	month := decodeBody[view.Month](t, resp)
	assert.Equal(t, time.October, month.Month)
	assert.Zero(t, len(month.Cells)%7)
}

func TestCalendarBadParams(t *testing.T) {
	srv, _ := newStoreServer(t)

	for _, path := range []string{
		"/api/calendar/year",
		"/api/calendar/week?date=15-09-2025",
		"/api/calendar/week?offset=two",
		"/api/agenda/fortnight",
		"/api/stats?mode=decade",
	} {
		resp := do(t, http.MethodGet, srv.URL+path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestAgenda(t *testing.T) {
	srv, store := newStoreServer(t)
	seedCalendar(t, store)

	resp := do(t, http.MethodGet, srv.URL+"/api/agenda/month?date=2025-09-10&lists=L2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	groups := decodeBody[[]view.DayGroup](t, resp)
	require.Len(t, groups, 1)
	assert.Equal(t, "T2", groups[0].Tasks[0].ID)
}

func TestStats(t *testing.T) {
	srv, store := newStoreServer(t)
	seedCalendar(t, store)

	type statsBody struct {
		view.Stats
		Lists []view.ListStats `json:"lists"`
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decodeBody[statsBody](t, resp)
	assert.Equal(t, view.Stats{Total: 3, Completed: 1, Pending: 2}, all.Stats)
	assert.Empty(t, all.Lists)

	resp = do(t, http.MethodGet, srv.URL+"/api/stats?mode=week&date=2025-09-17&byList=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	week := decodeBody[statsBody](t, resp)
	assert.Equal(t, view.Stats{Total: 2, Completed: 1, Pending: 1}, week.Stats)
	require.NotEmpty(t, week.Lists)
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newStoreServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = do(t, http.MethodPatch, srv.URL+"/api/tasks", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestToggleTask_ConcurrentRequests(t *testing.T) {
	store := repo.NewStore(slowProvider{storage.NewMemory()})
	srv := newServer(t, store)
	require.NoError(t, store.AddTask(context.Background(), service.Task{ID: "T1", Title: "Call", Status: service.StatusActive}))

	const n = 10
	statuses := make([]service.Status, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/tasks/T1/toggle", nil)
			if !assert.NoError(t, err) {
				return
			}
			resp, err := http.DefaultClient.Do(req)
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			var task service.Task
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
			statuses[i] = task.Status
		}()
	}
	wg.Wait()

	completed := 0
	for _, st := range statuses {
		if st == service.StatusCompleted {
			completed++
		}
	}
	assert.Equal(t, n/2, completed)

	tasks, err := store.GetTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.StatusActive, tasks[0].Status)
}

func TestToggleTask_BackendFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SeedTask(service.Task{ID: "T1", Title: "Call"})
	svc.ToggleTaskErr = errors.New("disk full")
	srv := newServer(t, svc)

	resp := do(t, http.MethodPost, srv.URL+"/api/tasks/T1/toggle", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
