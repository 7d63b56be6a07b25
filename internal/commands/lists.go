package commands

import (
	"context"
	"flag"
	"io"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/output"
	"taskcal/internal/repo"
	"taskcal/internal/service"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct {
	all bool
}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print all lists" }
func (c *ListsCmd) Usage() string     { return "taskcal lists [--all]" }
func (c *ListsCmd) NeedsStore() bool  { return true }
func (c *ListsCmd) Section() string   { return SectionLists }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.all, "all", false, "")
}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	lists, err := svc.EnsureDefaultList(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	for _, list := range lists {
		if list.Archived && !c.all {
			continue
		}
		output.FormatListName(out, list, list.ID == repo.DefaultListID)
	}

	return exitcode.Success
}
