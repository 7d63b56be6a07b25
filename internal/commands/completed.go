package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/output"
	"taskcal/internal/service"
	"taskcal/internal/view"
)

func init() {
	Register(&CompletedCmd{})
}

// CompletedCmd implements the completed command.
type CompletedCmd struct{}

func (c *CompletedCmd) Name() string      { return "completed" }
func (c *CompletedCmd) Aliases() []string { return nil }
func (c *CompletedCmd) Synopsis() string  { return "List completed tasks" }
func (c *CompletedCmd) Usage() string     { return "taskcal completed" }
func (c *CompletedCmd) NeedsStore() bool  { return true }
func (c *CompletedCmd) Section() string   { return SectionTasks }

func (c *CompletedCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CompletedCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	opts, err := viewOptions(cfg)
	if err != nil {
		return usageError(errOut, err)
	}
	tasks, err := svc.GetTasks(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	done := view.Completed(tasks)
	if len(done) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no completed tasks")
		}
		return exitcode.Success
	}
	for _, t := range done {
		output.FormatTask(out, t, opts.Location)
	}
	return exitcode.Success
}
