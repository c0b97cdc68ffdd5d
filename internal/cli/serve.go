package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/staticmodel/internal/api"
	"github.com/roach88/staticmodel/internal/loader"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr  string
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve <dataset>...",
		Short: "Serve datasets over a read-only HTTP API",
		Long: `Load datasets and serve them as JSON over HTTP until interrupted.

With --watch, a dataset file is reloaded whenever it changes. A file that
fails to reload keeps its previous records.

Routes:
  GET /types
  GET /types/{type}/records?attr=value
  GET /types/{type}/records/{key}
  GET /types/{type}/first?attr=value
  GET /types/{type}/pluck/{attr}`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "reload datasets when their files change")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	reg, err := loadRegistry(ctx, formatter, files)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.ListenAndServe(gctx, opts.Addr, api.NewRouter(reg))
	})
	if opts.Watch {
		g.Go(func() error {
			err := loader.Watch(gctx, reg, files, func(path string, err error) {
				if err != nil {
					formatter.VerboseLog("Reload of %s failed: %v", path, err)
					return
				}
				formatter.VerboseLog("Reloaded %s", path)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	formatter.VerboseLog("Serving %d file(s) on %s", len(files), opts.Addr)

	if err := g.Wait(); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	return nil
}
