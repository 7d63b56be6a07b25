package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/service"
)

func init() {
	Register(&EditListCmd{})
}

// EditListCmd implements the editlist command.
type EditListCmd struct {
	name      optString
	color     optString
	desc      optString
	archive   bool
	unarchive bool
}

func (c *EditListCmd) Name() string      { return "editlist" }
func (c *EditListCmd) Aliases() []string { return nil }
func (c *EditListCmd) Synopsis() string  { return "Rename or recolor a list" }
func (c *EditListCmd) Usage() string {
	return "taskcal editlist [--name <new-name>] [--color <#rrggbb>] [--desc <text>] [--archive|--unarchive] <list-name>"
}
func (c *EditListCmd) NeedsStore() bool { return true }
func (c *EditListCmd) Section() string  { return SectionLists }

func (c *EditListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.name, "name", "")
	fs.Var(&c.color, "color", "")
	fs.Var(&c.desc, "desc", "")
	fs.BoolVar(&c.archive, "archive", false, "")
	fs.BoolVar(&c.unarchive, "unarchive", false, "")
}

func (c *EditListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name, err := listName(args)
	if err != nil {
		return usageError(errOut, err)
	}
	if c.archive && c.unarchive {
		return usageError(errOut, errors.New("cannot use both --archive and --unarchive"))
	}

	lists, err := svc.GetLists(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	list, err := ResolveList(lists, name)
	if err != nil {
		return fail(errOut, err)
	}

	changed := list
	if c.name.set {
		newName := strings.TrimSpace(c.name.value)
		if other, err := ResolveList(lists, newName); err == nil && other.ID != list.ID {
			fmt.Fprintf(errOut, "error: list already exists: %s\n", newName)
			return exitcode.UserError
		}
		changed.Name = newName
	}
	if c.color.set {
		changed.Color = c.color.value
	}
	if c.desc.set {
		changed.Description = c.desc.value
	}
	if c.archive {
		changed.Archived = true
	}
	if c.unarchive {
		changed.Archived = false
	}

	if changed == list {
		return usageError(errOut, errors.New("nothing to change"))
	}
	changed.UpdatedAt = stamp()
	if err := svc.UpdateList(ctx, changed); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
