package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/output"
	"taskcal/internal/repo"
	"taskcal/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	listName   string
	due        string
	desc       string
	priority   string
	recurrence string
	reminder   string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskcal add [--list <name>] [--due <time>] [--desc <text>] [--priority <p>] [--recurrence <r>] <title...>"
}
func (c *AddCmd) NeedsStore() bool { return true }
func (c *AddCmd) Section() string  { return SectionTasks }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.recurrence, "recurrence", "", "")
	fs.StringVar(&c.reminder, "reminder", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return usageError(errOut, errors.New("title required"))
	}

	lists, err := svc.EnsureDefaultList(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	listID, err := c.targetList(lists)
	if err != nil {
		return fail(errOut, err)
	}

	now := stamp()
	task := service.Task{
		ID:          NewID(),
		Title:       title,
		Description: c.desc,
		DueTime:     strings.TrimSpace(c.due),
		ListID:      listID,
		Status:      service.StatusActive,
		Priority:    service.Priority(strings.ToLower(c.priority)),
		Recurrence:  service.Recurrence(strings.ToLower(c.recurrence)),
		Reminder:    c.reminder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := svc.AddTask(ctx, task); err != nil {
		return fail(errOut, err)
	}
	cfg.Log().Debug("task added", "id", task.ID, "list", listID)

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", output.ShortID(task.ID))
	}
	return exitcode.Success
}

// targetList picks the --list list, else the default list, else the first
// list. With no lists at all the task is unfiled.
func (c *AddCmd) targetList(lists []service.List) (string, error) {
	if c.listName != "" {
		l, err := ResolveList(lists, c.listName)
		if err != nil {
			return "", err
		}
		return l.ID, nil
	}
	for _, l := range lists {
		if l.ID == repo.DefaultListID {
			return l.ID, nil
		}
	}
	if len(lists) > 0 {
		return lists[0].ID, nil
	}
	return "", nil
}
