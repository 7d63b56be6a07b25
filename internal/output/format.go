// Package output provides plain-text formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"taskcal/internal/service"
	"taskcal/internal/view"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// IDWidth is the number of id characters shown. Any unique prefix
	// is accepted as a task reference.
	IDWidth = 8

	// NoTime stands in for the time of date-only tasks.
	NoTime = "--:--"

	// OrphanName labels tasks whose list no longer exists.
	OrphanName = "(no list)"
)

// ShortID returns the displayed prefix of an id.
func ShortID(id string) string {
	if len(id) <= IDWidth {
		return id
	}
	return id[:IDWidth]
}

func checkbox(t service.Task) string {
	if t.IsCompleted() {
		return "[x]"
	}
	return "[ ]"
}

// DueLabel renders a due time as "YYYY-MM-DD" or "YYYY-MM-DD HH:mm" in loc.
// Unparseable values are shown as stored.
func DueLabel(t service.Task, loc *time.Location) string {
	d, ok := view.DueDate(t, loc)
	if !ok {
		return strings.TrimSpace(t.DueTime)
	}
	label := d.Format(view.DateLayout)
	if tod := view.TimeOfDay(t, loc); tod != "" {
		label += " " + tod
	}
	return label
}

func taskLine(t service.Task, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %s %s", IDWidth, ShortID(t.ID), checkbox(t), normalizeTitle(t.Title))
	if due := DueLabel(t, loc); due != "" {
		fmt.Fprintf(&b, "  (%s)", due)
	}
	if t.Priority != service.PriorityNone {
		fmt.Fprintf(&b, "  !%s", t.Priority)
	}
	return b.String()
}

// FormatTask formats a task line.
// Format: "{ID:<8}  [ ] {TITLE}[  ({DUE})][  !{PRIORITY}]\n"
func FormatTask(w io.Writer, task service.Task, loc *time.Location) {
	fmt.Fprintln(w, taskLine(task, loc))
}

// FormatTaskIndented formats a task line inside a list section.
func FormatTaskIndented(w io.Writer, task service.Task, loc *time.Location) {
	fmt.Fprintln(w, "    "+taskLine(task, loc))
}

// FormatTaskDetail prints every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task, listName string, loc *time.Location) {
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-12s%s\n", name+":", value)
		}
	}
	field("id", task.ID)
	field("title", normalizeTitle(task.Title))
	field("status", string(task.Status))
	field("list", listName)
	field("due", DueLabel(task, loc))
	field("priority", string(task.Priority))
	field("recurrence", string(task.Recurrence))
	field("reminder", task.Reminder)
	field("description", task.Description)
	if task.Archived {
		field("archived", "yes")
	}
	field("created", task.CreatedAt)
	field("updated", task.UpdatedAt)
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, name string, isDefault bool) {
	display := normalizeListTitle(name)
	if isDefault {
		display += " [default]"
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, display)
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats a list for the lists command.
// Format: "{NAME}[ [default]][  {COLOR}]\n"
func FormatListName(w io.Writer, list service.List, isDefault bool) {
	display := normalizeListTitle(list.Name)
	if isDefault {
		display += " [default]"
	}
	if list.Color != "" {
		display += "  " + list.Color
	}
	fmt.Fprintln(w, display)
}

func dayHeader(c view.DayCell) string {
	h := c.Date.Format("Mon 2006-01-02")
	if c.Today {
		h += " (today)"
	}
	return h
}

// FormatDayItem formats a task inside a day, prefixed with its time of day.
func FormatDayItem(w io.Writer, task service.Task, loc *time.Location) {
	tod := view.TimeOfDay(task, loc)
	if tod == "" {
		tod = NoTime
	}
	fmt.Fprintf(w, "  %s  %-*s  %s %s\n", tod, IDWidth, ShortID(task.ID), checkbox(task), normalizeTitle(task.Title))
}

// FormatDay prints a day header followed by its tasks sorted by time.
func FormatDay(w io.Writer, cell view.DayCell, loc *time.Location) {
	fmt.Fprintln(w, dayHeader(cell))
	if len(cell.Tasks) == 0 {
		fmt.Fprintln(w, "  (no tasks)")
		return
	}
	for _, t := range view.SortByTime(cell.Tasks, loc) {
		FormatDayItem(w, t, loc)
	}
}

// FormatWeek prints each day of a week.
func FormatWeek(w io.Writer, cells []view.DayCell, loc *time.Location) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprintln(w)
		}
		FormatDay(w, c, loc)
	}
}

// FormatMonth prints a month grid followed by the task previews of each
// day that has tasks.
//
// Days of neighbouring months are shown in parentheses and today is marked
// with "*". Each preview names at most view.MaxPreview tasks and ends with
// "+N more" when the day has others.
func FormatMonth(w io.Writer, m view.Month) {
	fmt.Fprintf(w, "%s %d\n", m.Month, m.Year)

	rows := m.Weeks()
	if len(rows) == 0 {
		return
	}
	var header strings.Builder
	for _, c := range rows[0] {
		fmt.Fprintf(&header, "%5s", c.Date.Weekday().String()[:3])
	}
	fmt.Fprintln(w, header.String())

	for _, row := range rows {
		var line strings.Builder
		for _, c := range row {
			label := strconv.Itoa(c.Date.Day())
			if !c.InMonth {
				label = "(" + label + ")"
			}
			if c.Today {
				label += "*"
			}
			fmt.Fprintf(&line, "%5s", label)
		}
		fmt.Fprintln(w, line.String())
	}

	first := true
	for _, c := range m.Cells {
		if len(c.Tasks) == 0 {
			continue
		}
		if first {
			fmt.Fprintln(w)
			first = false
		}
		titles := make([]string, len(c.Preview))
		for i, t := range c.Preview {
			titles[i] = normalizeTitle(t.Title)
		}
		line := c.Key() + "  " + strings.Join(titles, ", ")
		if c.More > 0 {
			line += fmt.Sprintf(" +%d more", c.More)
		}
		fmt.Fprintln(w, line)
	}
}

// FormatAgenda prints tasks grouped by date.
func FormatAgenda(w io.Writer, groups []view.DayGroup, loc *time.Location) {
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, g.Date.Format("Mon 2006-01-02"))
		for _, t := range g.Tasks {
			FormatDayItem(w, t, loc)
		}
	}
}

// FormatStats prints task counts.
func FormatStats(w io.Writer, s view.Stats) {
	fmt.Fprintf(w, "%-11s%d\n", "total", s.Total)
	fmt.Fprintf(w, "%-11s%d\n", "completed", s.Completed)
	fmt.Fprintf(w, "%-11s%d\n", "pending", s.Pending)
}

// FormatListStats prints a per-list table of task counts.
func FormatListStats(w io.Writer, stats []view.ListStats) {
	fmt.Fprintf(w, "%-16s %5s %9s %7s\n", "LIST", "TOTAL", "COMPLETED", "PENDING")
	for _, s := range stats {
		name := s.Name
		if s.ListID == "" && name == "" {
			name = OrphanName
		}
		fmt.Fprintf(w, "%-16s %5d %9d %7d\n", normalizeListTitle(name), s.Total, s.Completed, s.Pending)
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeListTitle normalizes a list title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
