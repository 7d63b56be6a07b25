package repo

import (
	"context"
	"fmt"
	"log/slog"

	"taskcal/internal/service"
	"taskcal/internal/storage"
)

// Store implements service.Service over a storage provider.
// Lists and tasks live under independent keys; nothing spans both.
type Store struct {
	*ListRepo
	*TaskRepo

	// CascadeListDelete makes DeleteList also delete the list's tasks.
	// When false, tasks keep their now-orphaned ListID.
	CascadeListDelete bool

	p storage.Provider
}

var _ service.Service = (*Store)(nil)

// NewStore creates a Store over p.
func NewStore(p storage.Provider) *Store {
	return &Store{
		ListRepo: NewListRepo(p),
		TaskRepo: NewTaskRepo(p),
		p:        p,
	}
}

// Close closes the underlying provider.
func (s *Store) Close() error {
	return s.p.Close()
}

func (s *Store) checkList(ctx context.Context, listID string) error {
	if listID == "" {
		return nil
	}
	ok, err := s.HasList(ctx, listID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownList, listID)
	}
	return nil
}

// AddTask validates the task's list reference and appends it. The list is
// checked while the task collection is locked, so a cascading DeleteList
// either sees the new task or rejects it.
func (s *Store) AddTask(ctx context.Context, task service.Task) error {
	return s.TaskRepo.addTask(ctx, task, func() error {
		return s.checkList(ctx, task.ListID)
	})
}

// UpdateTask replaces the stored task. Moving a task to a list that does not
// exist is rejected; a task whose list was deleted earlier may still be
// updated without changing its ListID.
func (s *Store) UpdateTask(ctx context.Context, task service.Task) error {
	return s.TaskRepo.updateTask(ctx, task, func(old service.Task) error {
		if old.ListID == task.ListID {
			return nil
		}
		return s.checkList(ctx, task.ListID)
	})
}

// DeleteList removes the list and, with CascadeListDelete, its tasks.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	if err := s.ListRepo.DeleteList(ctx, id); err != nil {
		return err
	}
	if !s.CascadeListDelete {
		return nil
	}
	n, err := s.DeleteTasksInList(ctx, id)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "cascaded list delete", "list", id, "tasks", n)
	return nil
}
