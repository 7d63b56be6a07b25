package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/output"
	"taskcal/internal/repo"
	"taskcal/internal/service"
	"taskcal/internal/view"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskcal` (no args) and `taskcal list`.
type ListCmd struct {
	lists string
	all   bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks grouped by list" }
func (c *ListCmd) Usage() string     { return "taskcal list [--list <names>] [--all]" }
func (c *ListCmd) NeedsStore() bool  { return true }
func (c *ListCmd) Section() string   { return SectionTasks }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.lists, "list", "", "")
	fs.StringVar(&c.lists, "l", "", "")
	fs.BoolVar(&c.all, "all", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, fmt.Errorf("unexpected argument: %s", args[0]))
	}
	opts, err := viewOptions(cfg)
	if err != nil {
		return usageError(errOut, err)
	}

	lists, err := svc.EnsureDefaultList(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	selected, err := resolveListIDs(lists, c.lists)
	if err != nil {
		return fail(errOut, err)
	}
	tasks, err := svc.GetTasks(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	if !c.all {
		tasks = view.ExcludeArchived(tasks)
	}
	tasks = view.FilterLists(tasks, selected)

	known := make(map[string]bool, len(lists))
	printed := false
	for _, list := range lists {
		known[list.ID] = true
		listTasks := view.FilterLists(tasks, []string{list.ID})
		if len(listTasks) == 0 {
			continue
		}
		output.FormatListHeader(out, list.Name, list.ID == repo.DefaultListID)
		for _, t := range listTasks {
			output.FormatTaskIndented(out, t, opts.Location)
		}
		printed = true
	}

	var orphans []service.Task
	for _, t := range tasks {
		if !known[t.ListID] {
			orphans = append(orphans, t)
		}
	}
	if len(orphans) > 0 {
		output.FormatListHeader(out, output.OrphanName, false)
		for _, t := range orphans {
			output.FormatTaskIndented(out, t, opts.Location)
		}
		printed = true
	}

	if !printed && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
