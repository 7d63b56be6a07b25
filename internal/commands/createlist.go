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
	Register(&CreateListCmd{})
}

// CreateListCmd implements the createlist command.
type CreateListCmd struct {
	color string
	desc  string
}

func (c *CreateListCmd) Name() string      { return "createlist" }
func (c *CreateListCmd) Aliases() []string { return []string{"addlist"} }
func (c *CreateListCmd) Synopsis() string  { return "Create a new list" }
func (c *CreateListCmd) Usage() string {
	return "taskcal createlist [--color <#rrggbb>] [--desc <text>] <list-name>"
}
func (c *CreateListCmd) NeedsStore() bool { return true }
func (c *CreateListCmd) Section() string  { return SectionLists }

func (c *CreateListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.color, "color", "", "")
	fs.StringVar(&c.desc, "desc", "", "")
}

func (c *CreateListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name, err := listName(args)
	if err != nil {
		return usageError(errOut, err)
	}

	lists, err := svc.GetLists(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := ResolveList(lists, name); err == nil {
		fmt.Fprintf(errOut, "error: list already exists: %s\n", name)
		return exitcode.UserError
	}

	now := stamp()
	list := service.List{
		ID:          NewID(),
		Name:        name,
		Color:       c.color,
		Description: c.desc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := svc.AddList(ctx, list); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
