package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/service"
	"taskcal/internal/view"
)

func init() {
	Register(&DemoCmd{})
}

var demoTitles = []string{
	"Buy groceries", "Study Go", "Gym workout", "Team meeting",
	"Doctor appointment", "Finish project report", "Read a book", "Laundry",
	"Call mom", "Plan trip", "Pay bills", "Water plants",
	"Clean room", "Watch tutorial", "Write blog post", "Practice guitar",
	"Dinner with friends", "Morning run", "Shopping", "Car maintenance",
	"Update resume", "Play games", "Cook dinner", "Organize desk",
}

var demoDescriptions = []string{
	"High priority task",
	"Quick reminder",
	"Don't forget this one",
	"Try to finish today",
	"Move if busy",
}

var (
	demoPriorities  = []service.Priority{service.PriorityLow, service.PriorityMedium, service.PriorityHigh}
	demoRecurrences = []service.Recurrence{service.RecurrenceNone, service.RecurrenceDaily, service.RecurrenceWeekly, service.RecurrenceMonthly}
)

// DemoCmd implements the demo command.
type DemoCmd struct {
	count    int
	seed     uint64
	listName string
}

func (c *DemoCmd) Name() string      { return "demo" }
func (c *DemoCmd) Aliases() []string { return nil }
func (c *DemoCmd) Synopsis() string  { return "Add random tasks for the current month" }
func (c *DemoCmd) Usage() string     { return "taskcal demo [--count <n>] [--seed <n>] [--list <name>]" }
func (c *DemoCmd) NeedsStore() bool  { return true }
func (c *DemoCmd) Section() string   { return SectionData }

func (c *DemoCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.count, "count", 24, "")
	fs.Uint64Var(&c.seed, "seed", 0, "")
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *DemoCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.count < 1 {
		return usageError(errOut, errors.New("count must be positive"))
	}
	opts, err := viewOptions(cfg)
	if err != nil {
		return usageError(errOut, err)
	}

	lists, err := svc.EnsureDefaultList(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	listID, err := (&AddCmd{listName: c.listName}).targetList(lists)
	if err != nil {
		return fail(errOut, err)
	}

	seed := c.seed
	if seed == 0 {
		seed = uint64(Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))

	for i, task := range demoTasks(rng, c.count, Now().In(opts.Location), listID) {
		if err := svc.AddTask(ctx, task); err != nil {
			fmt.Fprintf(errOut, "error: added %d of %d tasks\n", i, c.count)
			return fail(errOut, err)
		}
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %d tasks\n", c.count)
	}
	return exitcode.Success
}

// demoTasks generates n active tasks due at random quarter hours within
// now's month.
func demoTasks(rng *rand.Rand, n int, now time.Time, listID string) []service.Task {
	first, last := view.MonthRange(now)
	days := last.Day()
	created := stamp()

	tasks := make([]service.Task, 0, n)
	for i := range n {
		due := first.AddDate(0, 0, rng.IntN(days))
		due = due.Add(time.Duration(rng.IntN(24))*time.Hour + time.Duration(15*rng.IntN(4))*time.Minute)
		tasks = append(tasks, service.Task{
			ID:          NewID(),
			Title:       demoTitles[i%len(demoTitles)],
			Description: demoDescriptions[rng.IntN(len(demoDescriptions))],
			DueTime:     due.Format("2006-01-02T15:04"),
			ListID:      listID,
			Status:      service.StatusActive,
			Priority:    demoPriorities[rng.IntN(len(demoPriorities))],
			Recurrence:  demoRecurrences[rng.IntN(len(demoRecurrences))],
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}
	return tasks
}
