package repo

import (
	"context"
	"fmt"

	"taskcal/internal/service"
	"taskcal/internal/storage"
)

// TaskRepo stores tasks under KeyTasks.
type TaskRepo struct {
	tasks *collection[service.Task]
}

// NewTaskRepo creates a task repository over p.
func NewTaskRepo(p storage.Provider) *TaskRepo {
	return &TaskRepo{
		tasks: newCollection(p, KeyTasks, func(t service.Task) string { return t.ID }),
	}
}

// GetTasks returns all tasks, or an empty slice if none are stored.
func (r *TaskRepo) GetTasks(ctx context.Context) ([]service.Task, error) {
	return r.tasks.all(ctx)
}

// AddTask validates and appends task.
func (r *TaskRepo) AddTask(ctx context.Context, task service.Task) error {
	return r.addTask(ctx, task, nil)
}

func (r *TaskRepo) addTask(ctx context.Context, task service.Task, check func() error) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return r.tasks.add(ctx, task, check)
}

// UpdateTask replaces the stored task with the same id.
// Unknown ids are ignored.
func (r *TaskRepo) UpdateTask(ctx context.Context, task service.Task) error {
	return r.updateTask(ctx, task, nil)
}

func (r *TaskRepo) updateTask(ctx context.Context, task service.Task, check func(old service.Task) error) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return r.tasks.update(ctx, task, check)
}

// ToggleTask flips the status of the task with id and stamps UpdatedAt,
// holding the collection lock across the read and the write.
func (r *TaskRepo) ToggleTask(ctx context.Context, id, updatedAt string) (service.Task, error) {
	task, found, err := r.tasks.modify(ctx, id, func(t service.Task) (service.Task, error) {
		t = t.Toggled()
		t.UpdatedAt = updatedAt
		return t, nil
	})
	if err != nil {
		return service.Task{}, err
	}
	if !found {
		return service.Task{}, fmt.Errorf("%w: %s", service.ErrTaskNotFound, id)
	}
	return task, nil
}

// DeleteTask removes the task with id. Unknown ids are ignored.
func (r *TaskRepo) DeleteTask(ctx context.Context, id string) error {
	return r.tasks.remove(ctx, id)
}

// DeleteTasksInList removes every task whose ListID is listID and returns
// how many were removed.
func (r *TaskRepo) DeleteTasksInList(ctx context.Context, listID string) (int, error) {
	return r.tasks.removeWhere(ctx, func(t service.Task) bool { return t.ListID == listID })
}
