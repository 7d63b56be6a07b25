package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"taskcal/internal/config"
	"taskcal/internal/exitcode"
	"taskcal/internal/httpapi"
	"taskcal/internal/service"
)

const shutdownTimeout = 5 * time.Second

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the JSON API" }
func (c *ServeCmd) Usage() string     { return "taskcal serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsStore() bool  { return true }
func (c *ServeCmd) Section() string   { return SectionData }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "127.0.0.1:8080", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	opts, err := viewOptions(cfg)
	if err != nil {
		return usageError(errOut, err)
	}

	listener, err := net.Listen("tcp", c.addr)
	if err != nil {
		return usageError(errOut, fmt.Errorf("could not listen on %s: %v", c.addr, err))
	}

	api := httpapi.New(svc, httpapi.Options{
		WeekStart: opts.WeekStart,
		Location:  opts.Location,
		Logger:    cfg.Log(),
		Now:       Now,
		NewID:     NewID,
	})
	server := &http.Server{
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on http://%s\n", listener.Addr())
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(errOut, "error: shutdown: %v\n", err)
			return exitcode.BackendError
		}
	}
	return exitcode.Success
}
