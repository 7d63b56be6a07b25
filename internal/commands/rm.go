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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskcal rm <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }
func (c *RmCmd) Section() string   { return SectionTasks }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
