package repo

import (
	"context"
	"log/slog"

	"taskcal/internal/service"
	"taskcal/internal/storage"
)

// Storage keys.
const (
	KeyTasks      = "tasks"
	KeyLists      = "lists"
	KeyListSeeded = "lists_seeded"
)

// The default list seeded for a fresh store.
const (
	DefaultListID    = "default"
	DefaultListName  = "My Tasks"
	DefaultListColor = "#0091ff"
)

// DefaultList returns the list created by EnsureDefaultList.
func DefaultList() service.List {
	return service.List{ID: DefaultListID, Name: DefaultListName, Color: DefaultListColor}
}

// ListRepo stores lists under KeyLists.
type ListRepo struct {
	p     storage.Provider
	lists *collection[service.List]
}

// NewListRepo creates a list repository over p.
func NewListRepo(p storage.Provider) *ListRepo {
	return &ListRepo{
		p:     p,
		lists: newCollection(p, KeyLists, func(l service.List) string { return l.ID }),
	}
}

// GetLists returns all lists, or an empty slice if none are stored.
func (r *ListRepo) GetLists(ctx context.Context) ([]service.List, error) {
	return r.lists.all(ctx)
}

// AddList validates and appends list.
func (r *ListRepo) AddList(ctx context.Context, list service.List) error {
	if err := list.Validate(); err != nil {
		return err
	}
	return r.lists.add(ctx, list, nil)
}

// UpdateList replaces the stored list with the same id.
// Unknown ids are ignored.
func (r *ListRepo) UpdateList(ctx context.Context, list service.List) error {
	if err := list.Validate(); err != nil {
		return err
	}
	return r.lists.update(ctx, list, nil)
}

// DeleteList removes the list with id. Unknown ids are ignored.
func (r *ListRepo) DeleteList(ctx context.Context, id string) error {
	return r.lists.remove(ctx, id)
}

// HasList reports whether a list with id exists.
func (r *ListRepo) HasList(ctx context.Context, id string) (bool, error) {
	lists, err := r.lists.all(ctx)
	if err != nil {
		return false, err
	}
	return r.lists.indexOf(lists, id) >= 0, nil
}

// EnsureDefaultList seeds the default list when no lists exist and the seed
// flag has never been set. Otherwise it returns the stored lists unchanged,
// so a user who deletes every list does not get the default back.
func (r *ListRepo) EnsureDefaultList(ctx context.Context) ([]service.List, error) {
	r.lists.mu.Lock()
	defer r.lists.mu.Unlock()

	lists, err := r.lists.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(lists) > 0 {
		return lists, nil
	}

	seeded, err := storage.Get(ctx, r.p, KeyListSeeded, false)
	if err != nil {
		return nil, err
	}
	if seeded {
		return lists, nil
	}

	lists = []service.List{DefaultList()}
	if err := storage.Set(ctx, r.p, KeyLists, lists); err != nil {
		return nil, err
	}
	if err := storage.Set(ctx, r.p, KeyListSeeded, true); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "seeded default list", "id", DefaultListID)
	return lists, nil
}
