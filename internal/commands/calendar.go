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
	Register(NewCalendarCmd(view.ModeDay))
	Register(NewCalendarCmd(view.ModeWeek))
	Register(NewCalendarCmd(view.ModeMonth))
}

// CalendarCmd implements the day, week and month commands.
type CalendarCmd struct {
	mode view.Mode
	window
}

// NewCalendarCmd returns the calendar command for mode.
func NewCalendarCmd(mode view.Mode) *CalendarCmd {
	return &CalendarCmd{mode: mode}
}

func (c *CalendarCmd) Name() string      { return string(c.mode) }
func (c *CalendarCmd) Aliases() []string { return nil }
func (c *CalendarCmd) Synopsis() string  { return fmt.Sprintf("Show the %s calendar", c.mode) }
func (c *CalendarCmd) Usage() string {
	return fmt.Sprintf("taskcal %s [--date <YYYY-MM-DD>] [--offset <n>] [--list <names>] [--active]", c.mode)
}
func (c *CalendarCmd) NeedsStore() bool { return true }
func (c *CalendarCmd) Section() string  { return SectionCalendar }

func (c *CalendarCmd) RegisterFlags(fs *flag.FlagSet) {
	c.window.register(fs)
}

func (c *CalendarCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, fmt.Errorf("unexpected argument: %s", args[0]))
	}
	ref, opts, tasks, err := c.resolve(ctx, cfg, svc, c.mode)
	if err != nil {
		return fail(errOut, err)
	}
	now := Now()

	switch c.mode {
	case view.ModeWeek:
		output.FormatWeek(out, view.Week(tasks, ref, now, opts), opts.Location)
	case view.ModeMonth:
		output.FormatMonth(out, view.MonthGrid(tasks, ref, now, opts))
	default:
		today := view.DateOf(now.In(opts.Location))
		cell := view.DayCell{
			Date:    view.DateOf(ref),
			Today:   view.DateOf(ref).Equal(today),
			InMonth: true,
			Tasks:   view.Day(tasks, ref, opts),
		}
		output.FormatDay(out, cell, opts.Location)
	}
	return exitcode.Success
}
