package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskcal/internal/service"
)

// Mode is a calendar window size.
type Mode string

const (
	ModeDay   Mode = "day"
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDay, ModeWeek, ModeMonth:
		return m, nil
	}
	return "", fmt.Errorf("invalid view mode: %q", s)
}

// MaxPreview is the number of tasks a month cell previews.
const MaxPreview = 3

// DateLayout is the layout of date keys.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t as midnight UTC.
// Dates compare with Equal and step with AddDate without DST surprises.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// DueDate returns the calendar date a task is due on.
// ok is false when the task has no due time or it does not parse.
func DueDate(t service.Task, loc *time.Location) (time.Time, bool) {
	if strings.TrimSpace(t.DueTime) == "" {
		return time.Time{}, false
	}
	due, err := service.ParseDueTime(t.DueTime, loc)
	if err != nil {
		return time.Time{}, false
	}
	return DateOf(due), true
}

// TimeOfDay returns the task's due time as zero-padded 24-hour "HH:mm".
// Date-only and unparseable due times yield "".
func TimeOfDay(t service.Task, loc *time.Location) string {
	s := strings.TrimSpace(t.DueTime)
	if len(s) <= len(DateLayout) {
		return ""
	}
	due, err := service.ParseDueTime(s, loc)
	if err != nil {
		return ""
	}
	return due.Format("15:04")
}

// SortByTime returns tasks ordered by time of day. Tasks without a time sort
// first; ties keep collection order.
func SortByTime(tasks []service.Task, loc *time.Location) []service.Task {
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return TimeOfDay(out[i], loc) < TimeOfDay(out[j], loc)
	})
	return out
}

// WeekRange returns the first and last date of the week containing ref.
func WeekRange(ref time.Time, start time.Weekday) (from, to time.Time) {
	d := DateOf(ref)
	offset := (int(d.Weekday()) - int(start) + 7) % 7
	from = d.AddDate(0, 0, -offset)
	return from, from.AddDate(0, 0, 6)
}

// MonthRange returns the first and last date of ref's month.
func MonthRange(ref time.Time) (from, to time.Time) {
	y, m, _ := ref.Date()
	from = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, -1)
}

// Window returns the inclusive date range a mode covers around ref.
func Window(mode Mode, ref time.Time, weekStart time.Weekday) (from, to time.Time) {
	switch mode {
	case ModeWeek:
		return WeekRange(ref, weekStart)
	case ModeMonth:
		return MonthRange(ref)
	default:
		d := DateOf(ref)
		return d, d
	}
}

// Navigate moves ref by delta days, weeks or months. Month steps clamp the
// day to the target month's length (Jan 31 + 1 month = Feb 28/29).
func Navigate(mode Mode, ref time.Time, delta int) time.Time {
	switch mode {
	case ModeWeek:
		return ref.AddDate(0, 0, 7*delta)
	case ModeMonth:
		y, m, d := ref.Date()
		first := time.Date(y, m+time.Month(delta), 1, 0, 0, 0, 0, ref.Location())
		last := first.AddDate(0, 1, -1).Day()
		if d > last {
			d = last
		}
		h, min, sec := ref.Clock()
		return time.Date(first.Year(), first.Month(), d, h, min, sec, ref.Nanosecond(), ref.Location())
	default:
		return ref.AddDate(0, 0, delta)
	}
}

// Between keeps visible tasks due on a date in [from, to].
// Tasks without a parseable due time are never included.
func Between(tasks []service.Task, from, to time.Time, opts Options) []service.Task {
	from, to = DateOf(from), DateOf(to)
	loc := opts.location()
	return filter(Visible(tasks, opts), func(t service.Task) bool {
		d, ok := DueDate(t, loc)
		return ok && !d.Before(from) && !d.After(to)
	})
}

// Day keeps visible tasks due on ref's date, sorted by time of day.
// Bucketing ignores the time; date-only tasks sort first.
func Day(tasks []service.Task, ref time.Time, opts Options) []service.Task {
	return SortByTime(Between(tasks, ref, ref, opts), opts.location())
}

// InWeek keeps visible tasks due within ref's week.
func InWeek(tasks []service.Task, ref time.Time, opts Options) []service.Task {
	from, to := WeekRange(ref, opts.WeekStart)
	return Between(tasks, from, to, opts)
}

// InMonth keeps visible tasks due within ref's month.
func InMonth(tasks []service.Task, ref time.Time, opts Options) []service.Task {
	from, to := MonthRange(ref)
	return Between(tasks, from, to, opts)
}

// DayCell is one day of a week or month view.
type DayCell struct {
	Date    time.Time      `json:"date"`
	Today   bool           `json:"today"`
	InMonth bool           `json:"inMonth"`
	Tasks   []service.Task `json:"tasks"`
	Preview []service.Task `json:"preview,omitempty"`
	More    int            `json:"more,omitempty"`
}

// Key returns the cell's date as YYYY-MM-DD.
func (c DayCell) Key() string {
	return c.Date.Format(DateLayout)
}

// byDate buckets visible tasks by due date, keeping collection order.
func byDate(tasks []service.Task, opts Options) map[time.Time][]service.Task {
	loc := opts.location()
	out := make(map[time.Time][]service.Task)
	for _, t := range Visible(tasks, opts) {
		d, ok := DueDate(t, loc)
		if !ok {
			continue
		}
		out[d] = append(out[d], t)
	}
	return out
}

func cells(tasks []service.Task, from, to, now time.Time, opts Options) []DayCell {
	buckets := byDate(tasks, opts)
	today := DateOf(now.In(opts.location()))
	var out []DayCell
	for d := DateOf(from); !d.After(DateOf(to)); d = d.AddDate(0, 0, 1) {
		dayTasks := buckets[d]
		if dayTasks == nil {
			dayTasks = []service.Task{}
		}
		out = append(out, DayCell{
			Date:    d,
			Today:   d.Equal(today),
			InMonth: true,
			Tasks:   dayTasks,
		})
	}
	return out
}

// Week returns the seven day cells of ref's week. now is the real current
// time and only drives the Today flag.
func Week(tasks []service.Task, ref, now time.Time, opts Options) []DayCell {
	from, to := WeekRange(ref, opts.WeekStart)
	return cells(tasks, from, to, now, opts)
}

// Month is a month view padded to whole weeks.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Cells []DayCell  `json:"cells"`
}

// Weeks splits the cells into rows of seven.
func (m Month) Weeks() [][]DayCell {
	var rows [][]DayCell
	for i := 0; i+7 <= len(m.Cells); i += 7 {
		rows = append(rows, m.Cells[i:i+7])
	}
	return rows
}

// MonthGrid builds the month view for ref. Leading and trailing days of the
// neighbouring months are included to complete the first and last weeks;
// they carry InMonth=false and only their own tasks. Each cell previews at
// most MaxPreview tasks and counts the rest in More.
func MonthGrid(tasks []service.Task, ref, now time.Time, opts Options) Month {
	first, last := MonthRange(ref)
	from, _ := WeekRange(first, opts.WeekStart)
	_, to := WeekRange(last, opts.WeekStart)

	grid := cells(tasks, from, to, now, opts)
	for i := range grid {
		c := &grid[i]
		c.InMonth = c.Date.Month() == first.Month() && c.Date.Year() == first.Year()
		c.Preview, c.More = Truncate(c.Tasks, MaxPreview)
	}
	return Month{Year: first.Year(), Month: first.Month(), Cells: grid}
}

// Truncate returns the first n tasks and how many were left out.
func Truncate(tasks []service.Task, n int) ([]service.Task, int) {
	if len(tasks) <= n {
		return tasks, 0
	}
	return tasks[:n], len(tasks) - n
}

// DayGroup is the tasks due on one date.
type DayGroup struct {
	Date  time.Time      `json:"date"`
	Tasks []service.Task `json:"tasks"`
}

// Agenda groups the visible tasks in mode's window around ref by due date.
// Groups are in date order; tasks within a group are sorted by time of day.
// Dates without tasks are omitted.
func Agenda(tasks []service.Task, mode Mode, ref time.Time, opts Options) []DayGroup {
	from, to := Window(mode, ref, opts.WeekStart)
	buckets := byDate(Between(tasks, from, to, opts), Options{Location: opts.Location})

	dates := make([]time.Time, 0, len(buckets))
	for d := range buckets {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	groups := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		groups = append(groups, DayGroup{Date: d, Tasks: SortByTime(buckets[d], opts.location())})
	}
	return groups
}
