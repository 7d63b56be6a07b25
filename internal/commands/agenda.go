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
	Register(&AgendaCmd{})
}

// AgendaCmd implements the agenda command.
type AgendaCmd struct {
	mode string
	window
}

func (c *AgendaCmd) Name() string      { return "agenda" }
func (c *AgendaCmd) Aliases() []string { return nil }
func (c *AgendaCmd) Synopsis() string  { return "List tasks by date" }
func (c *AgendaCmd) Usage() string {
	return "taskcal agenda [--mode day|week|month] [--date <YYYY-MM-DD>] [--offset <n>] [--list <names>] [--active]"
}
func (c *AgendaCmd) NeedsStore() bool { return true }
func (c *AgendaCmd) Section() string  { return SectionCalendar }

func (c *AgendaCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.mode, "mode", string(view.ModeWeek), "")
	c.window.register(fs)
}

func (c *AgendaCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	mode, err := view.ParseMode(c.mode)
	if err != nil {
		return usageError(errOut, err)
	}
	ref, opts, tasks, err := c.resolve(ctx, cfg, svc, mode)
	if err != nil {
		return fail(errOut, err)
	}

	groups := view.Agenda(tasks, mode, ref, opts)
	if len(groups) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}
	output.FormatAgenda(out, groups, opts.Location)
	return exitcode.Success
}
