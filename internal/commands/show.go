package commands

import (
	"context"
	"flag"
	"io"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/output"
	"taskcal/internal/service"
	"taskcal/internal/view"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Print every field of a task" }
func (c *ShowCmd) Usage() string     { return "taskcal show <ref>" }
func (c *ShowCmd) NeedsStore() bool  { return true }
func (c *ShowCmd) Section() string   { return SectionTasks }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := taskRef(args)
	if err != nil {
		return usageError(errOut, err)
	}
	opts, err := viewOptions(cfg)
	if err != nil {
		return usageError(errOut, err)
	}

	tasks, err := svc.GetTasks(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	task, err := ResolveTask(tasks, ref)
	if err != nil {
		return fail(errOut, err)
	}
	lists, err := svc.GetLists(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	name := view.ListName(lists, task.ListID)
	if name == "" && task.ListID != "" {
		name = output.OrphanName
	}
	output.FormatTaskDetail(out, task, name, opts.Location)
	return exitcode.Success
}
