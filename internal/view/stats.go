package view

import (
	"slices"
	"time"

	"taskcal/internal/service"
)

// Stats counts tasks by completion.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

func count(tasks []service.Task) Stats {
	var s Stats
	for _, t := range tasks {
		s.Total++
		if t.IsCompleted() {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}

// Summarize counts the visible tasks regardless of due date.
// ActiveOnly is ignored so completed tasks are counted.
func Summarize(tasks []service.Task, opts Options) Stats {
	opts.ActiveOnly = false
	return count(Visible(tasks, opts))
}

// SummarizeWindow counts the visible tasks due within mode's window around
// ref. For a month this is the month itself; padding days of the grid are
// not counted.
func SummarizeWindow(tasks []service.Task, mode Mode, ref time.Time, opts Options) Stats {
	opts.ActiveOnly = false
	from, to := Window(mode, ref, opts.WeekStart)
	return count(Between(tasks, from, to, opts))
}

// ListStats is the Stats of one list.
type ListStats struct {
	ListID string `json:"listId"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Stats
}

// SummarizeByList counts visible tasks per list, in list order. Tasks whose
// list is missing are counted in a trailing entry with an empty Name.
func SummarizeByList(tasks []service.Task, lists []service.List, opts Options) []ListStats {
	opts.ActiveOnly = false
	visible := Visible(tasks, opts)

	known := make(map[string]bool, len(lists))
	out := make([]ListStats, 0, len(lists)+1)
	for _, l := range lists {
		known[l.ID] = true
		if len(opts.ListIDs) > 0 && !slices.Contains(opts.ListIDs, l.ID) {
			continue
		}
		out = append(out, ListStats{
			ListID: l.ID,
			Name:   l.Name,
			Color:  ListColor(lists, l.ID),
			Stats:  count(FilterLists(visible, []string{l.ID})),
		})
	}

	orphans := filter(visible, func(t service.Task) bool { return !known[t.ListID] })
	if len(orphans) > 0 {
		out = append(out, ListStats{Color: DefaultColor, Stats: count(orphans)})
	}
	return out
}
