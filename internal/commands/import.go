package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskcal/internal/backend/googletasks"
	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/repo"
	"taskcal/internal/service"
)

func init() {
	Register(&ImportCmd{})
}

// ImportSource supplies remote lists and tasks.
type ImportSource interface {
	Lists(ctx context.Context) ([]service.List, error)
	Tasks(ctx context.Context, listID string) ([]service.Task, error)
}

// NewImportSource opens the import source. Tests replace it.
var NewImportSource = func(ctx context.Context, cfg *config.Config) (ImportSource, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("%w: oauth_client.json not found in %s", googletasks.ErrAuth, cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("%w: not logged in", googletasks.ErrAuth)
	}
	return googletasks.New(ctx, cfg)
}

// ImportCmd implements the import command. It copies remote lists and
// tasks into the store once; ids already present locally are skipped.
type ImportCmd struct{}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Copy Google Tasks lists and tasks into the store" }
func (c *ImportCmd) Usage() string     { return "taskcal import" }
func (c *ImportCmd) NeedsStore() bool  { return true }
func (c *ImportCmd) Section() string   { return SectionData }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	src, err := NewImportSource(ctx, cfg)
	if err != nil {
		return importFail(errOut, err)
	}

	remoteLists, err := src.Lists(ctx)
	if err != nil {
		return importFail(errOut, err)
	}

	var lists, tasks, skipped int
	for _, l := range remoteLists {
		switch err := svc.AddList(ctx, l); {
		case err == nil:
			lists++
		case errors.Is(err, repo.ErrDuplicateID):
			skipped++
		default:
			return fail(errOut, err)
		}

		remoteTasks, err := src.Tasks(ctx, l.ID)
		if err != nil {
			return importFail(errOut, err)
		}
		for _, t := range remoteTasks {
			if t.CreatedAt == "" {
				t.CreatedAt = stamp()
			}
			switch err := svc.AddTask(ctx, t); {
			case err == nil:
				tasks++
			case errors.Is(err, repo.ErrDuplicateID):
				skipped++
			default:
				return fail(errOut, err)
			}
		}
		cfg.Log().Debug("imported list", "id", l.ID, "tasks", len(remoteTasks))
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "imported %d lists, %d tasks (%d skipped)\n", lists, tasks, skipped)
	}
	return exitcode.Success
}

func importFail(errOut io.Writer, err error) int {
	if errors.Is(err, googletasks.ErrAuth) {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
