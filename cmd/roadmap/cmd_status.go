package main

import (
	"fmt"

	roadmap "github.com/HendryAvila/roadmap-status"
	"github.com/HendryAvila/roadmap-status/internal/bump"
	"github.com/HendryAvila/roadmap-status/internal/history"
	"github.com/HendryAvila/roadmap-status/internal/report"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the status document against its schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := status.NewFileStore(a.cfg.Document)
			if _, err := store.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", a.docName())
			return nil
		},
	}
}

func (a *app) bumpCmd() *cobra.Command {
	var flags *bump.Flags

	cmd := &cobra.Command{
		Use:   "bump",
		Short: "Apply edits to the status document",
		Long: `Applies every requested edit to an in-memory copy of the document, in a
fixed order: --overall, then --phase, then --findings.*, then --set, each in
the order given. The whole document is re-validated before anything is
written; on failure the file is left byte-for-byte unchanged.`,
		Example: `  roadmap bump --overall 64 --set meta.lastUpdated=auto
  roadmap bump --phase devnet:complete --phase testnet:in_progress
  roadmap bump --findings.high 0 --findings.medium 3 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := flags.Plan(cmd.Flags())
			if err != nil {
				return err
			}
			if plan.Empty() {
				return &bump.ArgError{Msg: "no changes requested"}
			}
			opts := flags.Options()

			runner := bump.NewRunner(status.NewFileStore(a.cfg.Document), a.logger)
			if !opts.DryRun {
				if hs := a.openHistory(); hs != nil {
					defer hs.Close()
					runner.SetRecorder(hs)
				}
			}

			res, err := runner.Run(cmd.Context(), plan, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.DryRun {
				_, err := out.Write(res.Encoded)
				return err
			}
			fmt.Fprintf(out, "Updated %s: %s\n", a.docName(), plan.Summary())
			return nil
		},
	}

	flags = bump.BindFlags(cmd.Flags())
	return cmd
}

// openHistory opens the revision history for recording. History is best
// effort: when it is disabled or cannot be opened the caller runs without it.
func (a *app) openHistory() *history.Store {
	if !a.cfg.History.Enabled {
		return nil
	}
	hs, err := history.Open(a.cfg.History.Path)
	if err != nil {
		a.logger.Warn("history disabled", zap.Error(err))
		return nil
	}
	return hs
}

func (a *app) renderCmd() *cobra.Command {
	var (
		markdown bool
		embedded bool
		width    int
		style    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the status report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var src status.Source = status.FileSource{Path: a.cfg.Document}
			if embedded {
				src = status.BytesSource{Label: "embedded " + status.DefaultFile, Data: roadmap.StatusJSON}
			}
			doc, err := status.NewLoader(src).Load(cmd.Context())
			if err != nil {
				return err
			}
			renderer, err := report.NewRenderer()
			if err != nil {
				return err
			}

			var out string
			if markdown {
				out, err = renderer.Markdown(doc)
			} else {
				out, err = renderer.Terminal(doc, report.TerminalOptions{Width: width, Style: style})
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "print raw Markdown instead of styled terminal output")
	cmd.Flags().BoolVar(&embedded, "embedded", false, "render the document built into the binary instead of the one on disk")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width for terminal output")
	cmd.Flags().StringVar(&style, "style", "", "glamour style: dark, light, notty (default: detect)")
	return cmd
}
