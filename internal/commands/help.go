package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/service"
	"taskcal/internal/storage"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskcal help [<command>]" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "Usage:\n  %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(out, "Aliases: %s\n", strings.Join(aliases, ", "))
		}
		return exitcode.Success
	}

	fmt.Fprint(out, "Usage:\n  taskcal <command> [common flags] [flags] [args]\n")
	for _, sec := range DefaultRegistry.Sections() {
		fmt.Fprintf(out, "\n%s:\n", sec.Title)
		for _, cmd := range sec.Commands {
			fmt.Fprintf(out, "  %-12s%s\n", cmd.Name(), cmd.Synopsis())
		}
	}
	fmt.Fprintf(out, commonFlagsText, strings.Join(storage.Backends(), ", "))
	return exitcode.Success
}

const commonFlagsText = `
Common flags:
  --config <dir>     Override config directory
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
  --backend <name>   Storage backend (%s)

With no command, taskcal runs list. Run 'taskcal help <command>' for details.
`
