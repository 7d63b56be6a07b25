package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/repo"
	"taskcal/internal/service"
	"taskcal/internal/view"
)

var (
	// ErrTaskNotFound is returned when no task id starts with the reference.
	ErrTaskNotFound = service.ErrTaskNotFound

	// ErrAmbiguousTask is returned when several task ids start with the reference.
	ErrAmbiguousTask = errors.New("ambiguous task reference")

	// ErrListNotFound is returned when no list matches a name or id.
	ErrListNotFound = errors.New("list not found")

	// ErrAmbiguousList is returned when several lists share a name.
	ErrAmbiguousList = errors.New("ambiguous list name")
)

// Now returns the current time. Tests replace it.
var Now = time.Now

// NewID mints entity ids. Tests replace it.
var NewID = uuid.NewString

func stamp() string {
	return Now().UTC().Format(time.RFC3339)
}

// ResolveTask finds the task whose id equals ref or, failing that, the only
// task whose id starts with ref.
func ResolveTask(tasks []service.Task, ref string) (service.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return service.Task{}, fmt.Errorf("%w: %q", ErrTaskNotFound, ref)
	}
	var matches []service.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return service.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousTask, ref)
	}
}

// ResolveList finds a list by id, or by name (case-insensitive, trimmed).
func ResolveList(lists []service.List, name string) (service.List, error) {
	name = strings.TrimSpace(name)
	nameLower := strings.ToLower(name)

	var matches []service.List
	for _, l := range lists {
		if l.ID == name {
			return l, nil
		}
		if strings.ToLower(strings.TrimSpace(l.Name)) == nameLower {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return service.List{}, fmt.Errorf("%w: %s", ErrListNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return service.List{}, fmt.Errorf("%w: %s", ErrAmbiguousList, name)
	}
}

// resolveListIDs turns a comma-separated list of names or ids into ids.
// An empty selection yields nil, which view treats as all lists.
func resolveListIDs(lists []service.List, csv string) ([]string, error) {
	var ids []string
	for _, name := range strings.Split(csv, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		l, err := ResolveList(lists, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, l.ID)
	}
	return ids, nil
}

// taskRef returns the single positional task reference.
func taskRef(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New("task reference required")
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s", args[1])
	}
	return args[0], nil
}

// listName joins positional args into a list name.
func listName(args []string) (string, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return "", errors.New("list name required")
	}
	return name, nil
}

// invalidInput marks an error caused by the user's input.
type invalidInput struct{ err error }

func (e invalidInput) Error() string { return e.err.Error() }
func (e invalidInput) Unwrap() error { return e.err }

func userErr(err error) error {
	if err == nil {
		return nil
	}
	return invalidInput{err}
}

// fail reports err and returns the matching exit code.
func fail(errOut io.Writer, err error) int {
	var invalid invalidInput
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrAmbiguousTask),
		errors.Is(err, ErrListNotFound), errors.Is(err, ErrAmbiguousList),
		repo.IsRejected(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// usageError reports a bad argument.
func usageError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

// viewOptions builds view options from the config settings.
func viewOptions(cfg *config.Config) (view.Options, error) {
	ws, err := cfg.WeekStart()
	if err != nil {
		return view.Options{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return view.Options{}, err
	}
	return view.Options{WeekStart: ws, Location: loc}, nil
}

// window holds the flags shared by the calendar commands.
type window struct {
	date   string
	offset int
	lists  string
	active bool
}

func (w *window) register(fs *flag.FlagSet) {
	fs.StringVar(&w.date, "date", "", "")
	fs.IntVar(&w.offset, "offset", 0, "")
	fs.StringVar(&w.lists, "list", "", "")
	fs.StringVar(&w.lists, "l", "", "")
	fs.BoolVar(&w.active, "active", false, "")
}

// resolve returns the reference date, the view options and the tasks.
func (w *window) resolve(ctx context.Context, cfg *config.Config, svc service.Service, mode view.Mode) (time.Time, view.Options, []service.Task, error) {
	opts, err := viewOptions(cfg)
	if err != nil {
		return time.Time{}, opts, nil, userErr(err)
	}
	opts.ActiveOnly = w.active

	ref := view.DateOf(Now().In(opts.Location))
	if w.date != "" {
		if ref, err = view.ParseDate(w.date); err != nil {
			return time.Time{}, opts, nil, userErr(err)
		}
	}
	ref = view.Navigate(mode, ref, w.offset)

	if w.lists != "" {
		lists, err := svc.GetLists(ctx)
		if err != nil {
			return time.Time{}, opts, nil, err
		}
		if opts.ListIDs, err = resolveListIDs(lists, w.lists); err != nil {
			return time.Time{}, opts, nil, err
		}
	}

	tasks, err := svc.GetTasks(ctx)
	if err != nil {
		return time.Time{}, opts, nil, err
	}
	return ref, opts, tasks, nil
}

// optString is a string flag that records whether it was set.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}
