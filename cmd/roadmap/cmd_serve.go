package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/HendryAvila/roadmap-status/internal/server"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/HendryAvila/roadmap-status/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) serveCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the status document over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			defer srv.Close()

			a.logger.Info("serving", zap.String("document", a.cfg.Document), zap.Bool("watch", follow))
			return srv.Serve(ctx, server.ServeOptions{
				In:    cmd.InOrStdin(),
				Out:   cmd.OutOrStdout(),
				Watch: follow,
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "drop cached reads when the document changes on disk")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-validate the document whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			check := func(ctx context.Context) {
				a.checkDocument(ctx, out, cmd.ErrOrStderr())
			}

			check(ctx)
			w := watch.New(a.cfg.Document, check, a.logger)
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// checkDocument validates the document once and reports the outcome. A
// failure is printed, not returned: watch keeps running.
func (a *app) checkDocument(ctx context.Context, out, errOut io.Writer) {
	_, err := status.NewFileStore(a.cfg.Document).Load(ctx)
	if err != nil {
		a.logger.Warn("status document invalid", zap.String("document", a.cfg.Document), zap.Error(err))
		a.printError(errOut, err)
		return
	}
	a.logger.Debug("status document valid", zap.String("document", a.cfg.Document))
	fmt.Fprintf(out, "%s is valid\n", a.docName())
}
