// Package service defines the task/list data model and the backend-agnostic
// interface for task operations.
package service

import "context"

// Service defines the UI-facing task and list operations.
// Commands and HTTP handlers go through this interface; they never touch a
// storage backing directly.
//
// Update and delete of an unknown id are silent no-ops; toggle is not.
type Service interface {
	// GetTasks returns all tasks in collection order.
	GetTasks(ctx context.Context) ([]Task, error)

	// AddTask appends a task. The id is minted by the caller.
	AddTask(ctx context.Context, task Task) error

	// UpdateTask replaces the task with the same id.
	UpdateTask(ctx context.Context, task Task) error

	// ToggleTask flips the task between active and completed, stamps
	// UpdatedAt and returns the stored result. The read and the write are
	// one atomic step. Unknown ids yield ErrTaskNotFound.
	ToggleTask(ctx context.Context, id, updatedAt string) (Task, error)

	// DeleteTask removes the task with the given id.
	DeleteTask(ctx context.Context, id string) error

	// GetLists returns all lists in collection order.
	GetLists(ctx context.Context) ([]List, error)

	// AddList appends a list. The id is minted by the caller.
	AddList(ctx context.Context, list List) error

	// UpdateList replaces the list with the same id.
	UpdateList(ctx context.Context, list List) error

	// DeleteList removes the list with the given id.
	DeleteList(ctx context.Context, id string) error

	// EnsureDefaultList seeds the default list once per store and returns
	// the resulting collection.
	EnsureDefaultList(ctx context.Context) ([]List, error)
}
