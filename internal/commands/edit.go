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
	"taskcal/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the flags given are changed.
type EditCmd struct {
	title      optString
	due        optString
	desc       optString
	listName   optString
	priority   optString
	recurrence optString
	reminder   optString
	archive    bool
	unarchive  bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskcal edit [--title <t>] [--due <time>] [--desc <text>] [--list <name>] [--priority <p>] [--recurrence <r>] [--archive|--unarchive] <ref>"
}
func (c *EditCmd) NeedsStore() bool { return true }
func (c *EditCmd) Section() string  { return SectionTasks }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.listName, "list", "")
	fs.Var(&c.listName, "l", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.recurrence, "recurrence", "")
	fs.Var(&c.reminder, "reminder", "")
	fs.BoolVar(&c.archive, "archive", false, "")
	fs.BoolVar(&c.unarchive, "unarchive", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := taskRef(args)
	if err != nil {
		return usageError(errOut, err)
	}
	if c.archive && c.unarchive {
		return usageError(errOut, errors.New("cannot use both --archive and --unarchive"))
	}

	tasks, err := svc.GetTasks(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	task, err := ResolveTask(tasks, ref)
	if err != nil {
		return fail(errOut, err)
	}

	changed := task
	if c.title.set {
		changed.Title = strings.TrimSpace(c.title.value)
	}
	if c.due.set {
		changed.DueTime = strings.TrimSpace(c.due.value)
	}
	if c.desc.set {
		changed.Description = c.desc.value
	}
	if c.priority.set {
		changed.Priority = service.Priority(strings.ToLower(c.priority.value))
	}
	if c.recurrence.set {
		changed.Recurrence = service.Recurrence(strings.ToLower(c.recurrence.value))
	}
	if c.reminder.set {
		changed.Reminder = c.reminder.value
	}
	if c.listName.set {
		changed.ListID = ""
		if strings.TrimSpace(c.listName.value) != "" {
			lists, err := svc.GetLists(ctx)
			if err != nil {
				return fail(errOut, err)
			}
			l, err := ResolveList(lists, c.listName.value)
			if err != nil {
				return fail(errOut, err)
			}
			changed.ListID = l.ID
		}
	}
	if c.archive {
		changed.Archived = true
	}
	if c.unarchive {
		changed.Archived = false
	}

	if changed == task {
		return usageError(errOut, errors.New("nothing to change"))
	}
	changed.UpdatedAt = stamp()
	if err := svc.UpdateTask(ctx, changed); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
