package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/service"
	"taskcal/internal/view"
)

func init() {
	Register(&RmListCmd{})
}

// RmListCmd implements the rmlist command.
type RmListCmd struct {
	force bool
}

func (c *RmListCmd) Name() string      { return "rmlist" }
func (c *RmListCmd) Aliases() []string { return nil }
func (c *RmListCmd) Synopsis() string  { return "Delete a list" }
func (c *RmListCmd) Usage() string     { return "taskcal rmlist [--force] <list-name>" }
func (c *RmListCmd) NeedsStore() bool  { return true }
func (c *RmListCmd) Section() string   { return SectionLists }

func (c *RmListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name, err := listName(args)
	if err != nil {
		return usageError(errOut, err)
	}

	lists, err := svc.GetLists(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	list, err := ResolveList(lists, name)
	if err != nil {
		return fail(errOut, err)
	}

	// Check if list has open tasks (unless --force)
	if !c.force {
		tasks, err := svc.GetTasks(ctx)
		if err != nil {
			return fail(errOut, err)
		}
		open := view.Visible(tasks, view.Options{ListIDs: []string{list.ID}, ActiveOnly: true})
		if len(open) > 0 {
			return usageError(errOut, errors.New("list not empty (use --force)"))
		}
	}

	if err := svc.DeleteList(ctx, list.ID); err != nil {
		return fail(errOut, err)
	}
	cfg.Log().Debug("list deleted", "id", list.ID, "cascade", cfg.Settings.CascadeListDelete)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
