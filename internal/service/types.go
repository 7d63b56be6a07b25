// Package service defines the task/list data model and the backend-agnostic
// interface for task operations.
package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Priority is an optional task priority.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Recurrence is stored with the task but never expanded into instances.
type Recurrence string

const (
	RecurrenceUnset   Recurrence = ""
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Validation errors. Wrapped with the offending value by Validate.
var (
	ErrMissingID        = errors.New("id required")
	ErrMissingTitle     = errors.New("title required")
	ErrMissingName      = errors.New("list name required")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidRecurring = errors.New("invalid recurrence")
	ErrInvalidDueTime   = errors.New("invalid due time")
	ErrInvalidColor     = errors.New("invalid color")
)

// ErrTaskNotFound is returned when no task has the requested id.
var ErrTaskNotFound = errors.New("task not found")

var validationErrs = []error{
	ErrMissingID, ErrMissingTitle, ErrMissingName, ErrInvalidStatus,
	ErrInvalidPriority, ErrInvalidRecurring, ErrInvalidDueTime, ErrInvalidColor,
}

// IsValidation reports whether err is one of the validation errors.
func IsValidation(err error) bool {
	for _, target := range validationErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Task represents a single task item.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueTime     string     `json:"dueTime,omitempty"` // ISO-8601 date or date-time
	ListID      string     `json:"listId,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority,omitempty"`
	Recurrence  Recurrence `json:"recurrence,omitempty"`
	Reminder    string     `json:"reminder,omitempty"`
	Archived    bool       `json:"archived,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty"`
	UpdatedAt   string     `json:"updatedAt,omitempty"`
}

// List represents a task list.
type List struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	Archived    bool   `json:"archived,omitempty"`
}

// IsCompleted reports whether the task is completed.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Toggled returns a copy of t with its status flipped.
// An empty status counts as active.
func (t Task) Toggled() Task {
	if t.IsCompleted() {
		t.Status = StatusActive
	} else {
		t.Status = StatusCompleted
	}
	return t
}

// Validate checks required fields and enum values.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrMissingTitle
	}
	switch t.Status {
	case StatusActive, StatusCompleted:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	switch t.Priority {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	switch t.Recurrence {
	case RecurrenceUnset, RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRecurring, t.Recurrence)
	}
	if t.DueTime != "" {
		if _, err := ParseDueTime(t.DueTime, time.UTC); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDueTime, t.DueTime)
		}
	}
	return nil
}

// Validate checks required list fields.
func (l List) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(l.Name) == "" {
		return ErrMissingName
	}
	if l.Color != "" && !colorRe.MatchString(l.Color) {
		return fmt.Errorf("%w: %q (want #rgb or #rrggbb)", ErrInvalidColor, l.Color)
	}
	return nil
}

// dueLayouts are tried in order; zone-less layouts are interpreted in the
// caller's location.
var dueLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01-02 15:04",
}

// ParseDueTime parses an ISO-8601 due date or date-time.
// Values carrying a zone (RFC 3339) are converted to loc; values without one
// are read as wall-clock time in loc.
func ParseDueTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due time: %q", s)
}

// ParseStatus parses a status name.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}
