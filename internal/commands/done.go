package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles, so running it on a
// completed task makes the task active again.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task between active and completed" }
func (c *DoneCmd) Usage() string     { return "taskcal done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }
func (c *DoneCmd) Section() string   { return SectionTasks }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := taskRef(args)
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

	toggled, err := svc.ToggleTask(ctx, task.ID, stamp())
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", toggled.Status)
	}
	return exitcode.Success
}
