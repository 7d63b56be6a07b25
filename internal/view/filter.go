// Package view partitions task collections for display: by list membership,
// by archive/completion state, and by calendar day, week and month.
//
// Every function is pure. Inputs are never modified and results preserve
// collection order unless a function says it sorts.
package view

import (
	"slices"
	"time"

	"taskcal/internal/service"
)

// Options controls which tasks are visible and how weeks are aligned.
type Options struct {
	// WeekStart is the first day of a week. The zero value is Sunday.
	WeekStart time.Weekday

	// Location interprets zone-less due times and converts zoned ones.
	// Nil means time.Local.
	Location *time.Location

	// ListIDs restricts tasks to these lists. Empty means all lists.
	ListIDs []string

	// ActiveOnly drops completed tasks.
	ActiveOnly bool
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func filter(tasks []service.Task, keep func(service.Task) bool) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// ExcludeArchived drops archived tasks.
func ExcludeArchived(tasks []service.Task) []service.Task {
	return filter(tasks, func(t service.Task) bool { return !t.Archived })
}

// FilterLists keeps tasks whose ListID is in ids. An empty ids keeps all tasks.
func FilterLists(tasks []service.Task, ids []string) []service.Task {
	if len(ids) == 0 {
		return filter(tasks, func(service.Task) bool { return true })
	}
	return filter(tasks, func(t service.Task) bool { return slices.Contains(ids, t.ListID) })
}

// Active drops completed tasks.
func Active(tasks []service.Task) []service.Task {
	return filter(tasks, func(t service.Task) bool { return !t.IsCompleted() })
}

// Completed keeps completed, non-archived tasks.
func Completed(tasks []service.Task) []service.Task {
	return filter(tasks, func(t service.Task) bool { return t.IsCompleted() && !t.Archived })
}

// Visible applies archive exclusion, the list filter and, if requested,
// active-only exclusion.
func Visible(tasks []service.Task, opts Options) []service.Task {
	out := FilterLists(ExcludeArchived(tasks), opts.ListIDs)
	if opts.ActiveOnly {
		out = Active(out)
	}
	return out
}

// DefaultColor is shown for tasks whose list is missing or has no color.
const DefaultColor = "#888888"

// ListColor returns the color of the list with id, or DefaultColor.
func ListColor(lists []service.List, id string) string {
	for _, l := range lists {
		if l.ID == id && l.Color != "" {
			return l.Color
		}
	}
	return DefaultColor
}

// ListName returns the name of the list with id, or "" when no such list exists.
func ListName(lists []service.List, id string) string {
	for _, l := range lists {
		if l.ID == id {
			return l.Name
		}
	}
	return ""
}
