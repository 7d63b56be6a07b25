// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"taskcal/internal/repo"
	"taskcal/internal/service"
)

// DefaultListID is the ID EnsureDefaultList seeds.
const DefaultListID = repo.DefaultListID

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	lists  []service.List
	tasks  []service.Task
	seeded bool

	// EnsureCalls counts EnsureDefaultList invocations.
	EnsureCalls int

	// Error injection for testing
	GetTasksErr    error
	AddTaskErr     error
	UpdateTaskErr  error
	ToggleTaskErr  error
	DeleteTaskErr  error
	GetListsErr    error
	AddListErr     error
	UpdateListErr  error
	DeleteListErr  error
	EnsureListsErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// SeedList adds a list directly, bypassing error injection.
func (f *FakeService) SeedList(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.List{ID: id, Name: name})
}

// SeedTask adds a task directly, bypassing error injection.
// An empty status is stored as active.
func (f *FakeService) SeedTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.Status == "" {
		task.Status = service.StatusActive
	}
	f.tasks = append(f.tasks, task)
}

// Tasks returns a snapshot of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks)
}

// Lists returns a snapshot of the stored lists.
func (f *FakeService) Lists() []service.List {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.lists)
}

// GetTasks implements service.Service.
func (f *FakeService) GetTasks(ctx context.Context) ([]service.Task, error) {
	if f.GetTasksErr != nil {
		return nil, f.GetTasksErr
	}
	return f.Tasks(), nil
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, task service.Task) error {
	if f.AddTaskErr != nil {
		return f.AddTaskErr
	}
	if err := task.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if slices.ContainsFunc(f.tasks, func(t service.Task) bool { return t.ID == task.ID }) {
		return repo.ErrDuplicateID
	}
	f.tasks = append(f.tasks, task)
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, task service.Task) error {
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	if err := task.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == task.ID {
			f.tasks[i] = task
			return nil
		}
	}
	return nil
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, id, updatedAt string) (service.Task, error) {
	if f.ToggleTaskErr != nil {
		return service.Task{}, f.ToggleTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			t = t.Toggled()
			t.UpdatedAt = updatedAt
			f.tasks[i] = t
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("%w: %s", service.ErrTaskNotFound, id)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = slices.DeleteFunc(f.tasks, func(t service.Task) bool { return t.ID == id })
	return nil
}

// GetLists implements service.Service.
func (f *FakeService) GetLists(ctx context.Context) ([]service.List, error) {
	if f.GetListsErr != nil {
		return nil, f.GetListsErr
	}
	return f.Lists(), nil
}

// AddList implements service.Service.
func (f *FakeService) AddList(ctx context.Context, list service.List) error {
	if f.AddListErr != nil {
		return f.AddListErr
	}
	if err := list.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if slices.ContainsFunc(f.lists, func(l service.List) bool { return l.ID == list.ID }) {
		return repo.ErrDuplicateID
	}
	f.lists = append(f.lists, list)
	return nil
}

// UpdateList implements service.Service.
func (f *FakeService) UpdateList(ctx context.Context, list service.List) error {
	if f.UpdateListErr != nil {
		return f.UpdateListErr
	}
	if err := list.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lists {
		if l.ID == list.ID {
			f.lists[i] = list
			return nil
		}
	}
	return nil
}

// DeleteList implements service.Service.
func (f *FakeService) DeleteList(ctx context.Context, id string) error {
	if f.DeleteListErr != nil {
		return f.DeleteListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = slices.DeleteFunc(f.lists, func(l service.List) bool { return l.ID == id })
	return nil
}

// EnsureDefaultList implements service.Service.
func (f *FakeService) EnsureDefaultList(ctx context.Context) ([]service.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EnsureCalls++
	if f.EnsureListsErr != nil {
		return nil, f.EnsureListsErr
	}
	if len(f.lists) == 0 && !f.seeded {
		f.lists = []service.List{repo.DefaultList()}
		f.seeded = true
	}
	return slices.Clone(f.lists), nil
}
