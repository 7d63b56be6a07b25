package repo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcal/internal/repo"
	"taskcal/internal/service"
	"taskcal/internal/storage"
	"taskcal/internal/view"
)

func newStore(t *testing.T) (*repo.Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return repo.NewStore(mem), mem
}

func sampleTask(id string) service.Task {
	return service.Task{
		ID:          id,
		Title:       "Report " + id,
		Description: "quarterly",
		DueTime:     "2025-09-15T10:00",
		Status:      service.StatusActive,
		Priority:    service.PriorityHigh,
		Recurrence:  service.RecurrenceWeekly,
		CreatedAt:   "2025-09-01T08:00:00Z",
	}
}

func TestTasks_RoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	want := sampleTask("T1")
	require.NoError(t, s.AddTask(ctx, want))

	got, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Task{want}, got)
}

func TestLists_RoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	want := service.List{ID: "1", Name: "Work", Color: "#FF0000", Description: "Work related tasks"}
	require.NoError(t, s.AddList(ctx, want))

	got, err := s.GetLists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.List{want}, got)
}

func TestGet_EmptyStoreReturnsEmptySlices(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	lists, err := s.GetLists(ctx)
	require.NoError(t, err)
	assert.NotNil(t, lists)
	assert.Empty(t, lists)
}

func TestGet_MalformedCollectionIsEmpty(t *testing.T) {
	s, mem := newStore(t)
	mem.Put(repo.KeyTasks, `[{"id":`)
	mem.Put(repo.KeyLists, `"not a list"`)

	tasks, err := s.GetTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)

	lists, err := s.GetLists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestUpdateTask_Idempotent(t *testing.T) {
	ctx := context.Background()
	once, _ := newStore(t)
	twice, _ := newStore(t)

	for _, s := range []*repo.Store{once, twice} {
		require.NoError(t, s.AddTask(ctx, sampleTask("T1")))
		require.NoError(t, s.AddTask(ctx, sampleTask("T2")))
	}

	updated := sampleTask("T1")
	updated.Title = "New Title"
	updated.Status = service.StatusCompleted

	require.NoError(t, once.UpdateTask(ctx, updated))
	require.NoError(t, twice.UpdateTask(ctx, updated))
	require.NoError(t, twice.UpdateTask(ctx, updated))

	a, err := once.GetTasks(ctx)
	require.NoError(t, err)
	b, err := twice.GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "New Title", a[0].Title)
	assert.Equal(t, "T2", a[1].ID, "order preserved")
}

func TestUpdate_UnknownIDIsNoop(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddTask(ctx, sampleTask("T1")))
	require.NoError(t, s.AddList(ctx, service.List{ID: "L1", Name: "Work"}))

	require.NoError(t, s.UpdateTask(ctx, sampleTask("missing")))
	require.NoError(t, s.UpdateList(ctx, service.List{ID: "missing", Name: "x"}))

	tasks, _ := s.GetTasks(ctx)
	assert.Equal(t, []service.Task{sampleTask("T1")}, tasks)
	lists, _ := s.GetLists(ctx)
	assert.Equal(t, []service.List{{ID: "L1", Name: "Work"}}, lists)
}

func TestDeleteTask_Completeness(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	for _, id := range []string{"T1", "T2", "T3"} {
		require.NoError(t, s.AddTask(ctx, sampleTask(id)))
	}

	require.NoError(t, s.DeleteTask(ctx, "T2"))

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.NotEqual(t, "T2", task.ID)
	}

	require.NoError(t, s.DeleteTask(ctx, "T2"), "deleting again is a no-op")
	tasks, _ = s.GetTasks(ctx)
	assert.Len(t, tasks, 2)
}

func TestDeleteList(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddList(ctx, service.List{ID: "3", Name: "To Delete"}))
	require.NoError(t, s.DeleteList(ctx, "3"))
	require.NoError(t, s.DeleteList(ctx, "unknown"))

	lists, err := s.GetLists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestAdd_RejectsDuplicateID(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddTask(ctx, sampleTask("T1")))
	assert.ErrorIs(t, s.AddTask(ctx, sampleTask("T1")), repo.ErrDuplicateID)

	require.NoError(t, s.AddList(ctx, service.List{ID: "L1", Name: "Work"}))
	assert.ErrorIs(t, s.AddList(ctx, service.List{ID: "L1", Name: "Other"}), repo.ErrDuplicateID)

	tasks, _ := s.GetTasks(ctx)
	assert.Len(t, tasks, 1)
}

func TestAdd_Validates(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	noTitle := sampleTask("T1")
	noTitle.Title = "  "
	assert.ErrorIs(t, s.AddTask(ctx, noTitle), service.ErrMissingTitle)

	badDue := sampleTask("T1")
	badDue.DueTime = "tomorrow"
	assert.ErrorIs(t, s.AddTask(ctx, badDue), service.ErrInvalidDueTime)

	assert.ErrorIs(t, s.AddList(ctx, service.List{ID: "L1"}), service.ErrMissingName)

	tasks, _ := s.GetTasks(ctx)
	assert.Empty(t, tasks)
}

func TestStore_ListReferences(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	orphan := sampleTask("T1")
	orphan.ListID = "nope"
	assert.ErrorIs(t, s.AddTask(ctx, orphan), repo.ErrUnknownList)

	require.NoError(t, s.AddList(ctx, service.List{ID: "L1", Name: "Work"}))
	task := sampleTask("T1")
	task.ListID = "L1"
	require.NoError(t, s.AddTask(ctx, task))

	moved := task
	moved.ListID = "nope"
	assert.ErrorIs(t, s.UpdateTask(ctx, moved), repo.ErrUnknownList)

	// Deleting the list leaves the task orphaned but still updatable.
	require.NoError(t, s.DeleteList(ctx, "L1"))
	tasks, _ := s.GetTasks(ctx)
	require.Len(t, tasks, 1)
	assert.Equal(t, "L1", tasks[0].ListID)

	require.NoError(t, s.UpdateTask(ctx, tasks[0].Toggled()))
	tasks, _ = s.GetTasks(ctx)
	assert.Equal(t, service.StatusCompleted, tasks[0].Status)
}

func TestStore_CascadeListDelete(t *testing.T) {
	s, _ := newStore(t)
	s.CascadeListDelete = true
	ctx := context.Background()

	require.NoError(t, s.AddList(ctx, service.List{ID: "L1", Name: "Work"}))
	require.NoError(t, s.AddList(ctx, service.List{ID: "L2", Name: "Home"}))
	for i, list := range []string{"L1", "L2", "L1"} {
		task := sampleTask(fmt.Sprintf("T%d", i))
		task.ListID = list
		require.NoError(t, s.AddTask(ctx, task))
	}

	require.NoError(t, s.DeleteList(ctx, "L1"))

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "L2", tasks[0].ListID)
}

func TestEnsureDefaultList_Idempotent(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	first, err := s.EnsureDefaultList(ctx)
	require.NoError(t, err)
	second, err := s.EnsureDefaultList(ctx)
	require.NoError(t, err)

	assert.Equal(t, []service.List{repo.DefaultList()}, first)
	assert.Equal(t, first, second)

	stored, _ := s.GetLists(ctx)
	assert.Len(t, stored, 1)
}

func TestEnsureDefaultList_NotReseededAfterDelete(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.EnsureDefaultList(ctx)
	require.NoError(t, err)
	require.NoError(t, s.DeleteList(ctx, repo.DefaultListID))

	lists, err := s.EnsureDefaultList(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestEnsureDefaultList_ExistingListsUntouched(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddList(ctx, service.List{ID: "L1", Name: "Work"}))

	lists, err := s.EnsureDefaultList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.List{{ID: "L1", Name: "Work"}}, lists)

	// The flag is still unset, so an emptied store is seeded later.
	require.NoError(t, s.DeleteList(ctx, "L1"))
	lists, err = s.EnsureDefaultList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.List{repo.DefaultList()}, lists)
}

// slowProvider delays every Load so that unsynchronised read-modify-write
// cycles overlap.
type slowProvider struct {
	storage.Provider
	delay time.Duration
}

func (p slowProvider) Load(ctx context.Context, key string) ([]byte, bool, error) {
	time.Sleep(p.delay)
	return p.Provider.Load(ctx, key)
}

func newSlowStore() *repo.Store {
	return repo.NewStore(slowProvider{Provider: storage.NewMemory(), delay: 2 * time.Millisecond})
}

func TestToggle_SelfInverse(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddTask(ctx, sampleTask("T1")))

	for range 2 {
		tasks, err := s.GetTasks(ctx)
		require.NoError(t, err)
		require.NoError(t, s.UpdateTask(ctx, tasks[0].Toggled()))
	}

	tasks, _ := s.GetTasks(ctx)
	assert.Equal(t, service.StatusActive, tasks[0].Status)
}

func TestToggleTask(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddTask(ctx, sampleTask("T1")))

	got, err := s.ToggleTask(ctx, "T1", "2025-09-16T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, service.StatusCompleted, got.Status)
	assert.Equal(t, "2025-09-16T08:30:00Z", got.UpdatedAt)

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Task{got}, tasks)

	_, err = s.ToggleTask(ctx, "missing", "2025-09-16T08:30:00Z")
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestConcurrentTogglesAlternate(t *testing.T) {
	s := newSlowStore()
	ctx := context.Background()
	require.NoError(t, s.AddTask(ctx, sampleTask("T1")))

	const n = 10
	results := make(chan service.Status, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := s.ToggleTask(ctx, "T1", "2025-09-16T08:30:00Z")
			assert.NoError(t, err)
			results <- task.Status
		}()
	}
	wg.Wait()
	close(results)

	completed := 0
	for st := range results {
		if st == service.StatusCompleted {
			completed++
		}
	}
	assert.Equal(t, n/2, completed)

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.StatusActive, tasks[0].Status)
}

// A task added while its list is being deleted with cascade is either
// rejected or removed by the cascade; it never outlives its list.
func TestAddTaskRacingCascadeDelete(t *testing.T) {
	s := newSlowStore()
	s.CascadeListDelete = true
	ctx := context.Background()

	for i := range 10 {
		listID := fmt.Sprintf("L%d", i)
		require.NoError(t, s.AddList(ctx, service.List{ID: listID, Name: listID}))

		task := sampleTask(fmt.Sprintf("T%d", i))
		task.ListID = listID

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := s.AddTask(ctx, task); err != nil {
				assert.ErrorIs(t, err, repo.ErrUnknownList)
			}
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, s.DeleteList(ctx, listID))
		}()
		wg.Wait()
	}

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.AddTask(ctx, sampleTask(fmt.Sprintf("T%02d", i))))
		}()
	}
	wg.Wait()

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, n)
}

func TestFileBackedStorePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	p, err := storage.NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, repo.NewStore(p).AddTask(ctx, sampleTask("T1")))

	p2, err := storage.NewFile(dir)
	require.NoError(t, err)
	tasks, err := repo.NewStore(p2).GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Task{sampleTask("T1")}, tasks)
}

func TestEndToEnd_WeekThenCompletedDay(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	opts := view.Options{Location: time.UTC}

	require.NoError(t, s.AddList(ctx, service.List{ID: "L1", Name: "Work"}))
	require.NoError(t, s.AddTask(ctx, service.Task{
		ID:      "T1",
		Title:   "Report",
		DueTime: "2025-09-15T09:00",
		ListID:  "L1",
		Status:  service.StatusActive,
	}))

	ref, err := view.ParseDate("2025-09-17")
	require.NoError(t, err)
	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	week := view.InWeek(tasks, ref, opts)
	require.Len(t, week, 1)
	assert.Equal(t, "T1", week[0].ID)

	require.NoError(t, s.UpdateTask(ctx, tasks[0].Toggled()))

	day, err := view.ParseDate("2025-09-15")
	require.NoError(t, err)
	tasks, err = s.GetTasks(ctx)
	require.NoError(t, err)
	opts.ActiveOnly = true
	assert.Empty(t, view.Day(tasks, day, opts))
}
