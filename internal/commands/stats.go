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
	Register(&StatsCmd{})
}

// StatsCmd implements the stats command. Without --mode all tasks count.
type StatsCmd struct {
	mode   string
	byList bool
	window
}

func (c *StatsCmd) Name() string      { return "stats" }
func (c *StatsCmd) Aliases() []string { return nil }
func (c *StatsCmd) Synopsis() string  { return "Count total, completed and pending tasks" }
func (c *StatsCmd) Usage() string {
	return "taskcal stats [--mode day|week|month] [--date <YYYY-MM-DD>] [--offset <n>] [--list <names>] [--by-list]"
}
func (c *StatsCmd) NeedsStore() bool { return true }
func (c *StatsCmd) Section() string  { return SectionCalendar }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.mode, "mode", "", "")
	fs.BoolVar(&c.byList, "by-list", false, "")
	c.window.register(fs)
}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var mode view.Mode
	if c.mode != "" {
		m, err := view.ParseMode(c.mode)
		if err != nil {
			return usageError(errOut, err)
		}
		mode = m
	}
	ref, opts, tasks, err := c.resolve(ctx, cfg, svc, mode)
	if err != nil {
		return fail(errOut, err)
	}

	if mode == "" {
		output.FormatStats(out, view.Summarize(tasks, opts))
	} else {
		output.FormatStats(out, view.SummarizeWindow(tasks, mode, ref, opts))
		from, to := view.Window(mode, ref, opts.WeekStart)
		tasks = view.Between(tasks, from, to, view.Options{Location: opts.Location})
	}

	if c.byList {
		lists, err := svc.GetLists(ctx)
		if err != nil {
			return fail(errOut, err)
		}
		fmt.Fprintln(out)
		output.FormatListStats(out, view.SummarizeByList(tasks, lists, opts))
	}
	return exitcode.Success
}
