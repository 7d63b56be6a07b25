package service_test

import (
	"errors"
	"testing"
	"time"

	"taskcal/internal/service"
)

func TestToggled(t *testing.T) {
	task := service.Task{ID: "1", Title: "x", Status: service.StatusActive}

	once := task.Toggled()
	if once.Status != service.StatusCompleted {
		t.Errorf("expected %q, got %q", service.StatusCompleted, once.Status)
	}
	twice := once.Toggled()
	if twice != task {
		t.Errorf("expected toggle twice to restore %+v, got %+v", task, twice)
	}
	if task.Status != service.StatusActive {
		t.Error("Toggled must not modify the receiver")
	}

	empty := service.Task{ID: "1", Title: "x"}
	if got := empty.Toggled().Status; got != service.StatusCompleted {
		t.Errorf("expected empty status to toggle to completed, got %q", got)
	}
}

func TestTaskValidate(t *testing.T) {
	valid := service.Task{ID: "1", Title: "Report", Status: service.StatusActive}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*service.Task)
		want   error
	}{
		{"missing id", func(t *service.Task) { t.ID = " " }, service.ErrMissingID},
		{"missing title", func(t *service.Task) { t.Title = "" }, service.ErrMissingTitle},
		{"bad status", func(t *service.Task) { t.Status = "done" }, service.ErrInvalidStatus},
		{"empty status", func(t *service.Task) { t.Status = "" }, service.ErrInvalidStatus},
		{"bad priority", func(t *service.Task) { t.Priority = "urgent" }, service.ErrInvalidPriority},
		{"bad recurrence", func(t *service.Task) { t.Recurrence = "yearly" }, service.ErrInvalidRecurring},
		{"bad due", func(t *service.Task) { t.DueTime = "next tuesday" }, service.ErrInvalidDueTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := valid
			tc.mutate(&task)
			if err := task.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestListValidate(t *testing.T) {
	if err := (service.List{ID: "L1", Name: "Work"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (service.List{Name: "Work"}).Validate(); !errors.Is(err, service.ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
	if err := (service.List{ID: "L1"}).Validate(); !errors.Is(err, service.ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}
	for _, color := range []string{"#fff", "#0091ff", "#FF0000"} {
		if err := (service.List{ID: "L1", Name: "Work", Color: color}).Validate(); err != nil {
			t.Errorf("color %q: unexpected error: %v", color, err)
		}
	}
	for _, color := range []string{"red", "#12345", "0091ff"} {
		if err := (service.List{ID: "L1", Name: "Work", Color: color}).Validate(); !errors.Is(err, service.ErrInvalidColor) {
			t.Errorf("color %q: expected ErrInvalidColor, got %v", color, err)
		}
	}
}

func TestIsValidation(t *testing.T) {
	err := (service.Task{ID: "1", Title: "x", Status: "bogus"}).Validate()
	if !service.IsValidation(err) {
		t.Errorf("expected %v to be a validation error", err)
	}
	if service.IsValidation(errors.New("disk full")) {
		t.Error("expected unrelated error not to be a validation error")
	}
}

func TestParseDueTime(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)

	cases := []struct {
		in   string
		loc  *time.Location
		want time.Time
	}{
		{"2025-09-15", time.UTC, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-09-15T09:00", time.UTC, time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC)},
		{"2025-09-15T09:00:30", time.UTC, time.Date(2025, 9, 15, 9, 0, 30, 0, time.UTC)},
		{"2025-09-15 09:00", berlin, time.Date(2025, 9, 15, 9, 0, 0, 0, berlin)},
		{"2025-09-15T23:30:00Z", berlin, time.Date(2025, 9, 16, 1, 30, 0, 0, berlin)},
		{" 2025-09-15 ", time.UTC, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := service.ParseDueTime(tc.in, tc.loc)
		if err != nil {
			t.Errorf("ParseDueTime(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDueTime(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}

	for _, bad := range []string{"", "tomorrow", "2025-13-01", "15/09/2025"} {
		if _, err := service.ParseDueTime(bad, time.UTC); err == nil {
			t.Errorf("ParseDueTime(%q): expected error", bad)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := service.ParseStatus(" Completed "); err != nil || s != service.StatusCompleted {
		t.Errorf("expected completed, got %q (%v)", s, err)
	}
	if _, err := service.ParseStatus("done"); !errors.Is(err, service.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}
