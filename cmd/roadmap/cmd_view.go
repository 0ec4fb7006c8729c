package main

import (
	"context"
	"fmt"
	"io"

	"github.com/HendryAvila/roadmap-status/internal/gate"
	"github.com/HendryAvila/roadmap-status/internal/logging"
	"github.com/HendryAvila/roadmap-status/internal/report"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/HendryAvila/roadmap-status/internal/tui"
	"github.com/HendryAvila/roadmap-status/internal/watch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (a *app) viewCmd() *cobra.Command {
	var (
		reducedMotion bool
		follow        bool
		style         string
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the status report in the terminal",
		Long: `Opens the report in a scrollable terminal viewer under an animated
starfield. Scrolling speeds the stars up in the direction of travel. Press m
to toggle reduced motion, r to reload and q to quit.

When gate.sha256 is configured the viewer asks for the password first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.viewerOptions(cmd.Flags().Changed("reduced-motion"), reducedMotion, style)
			if err != nil {
				return err
			}

			// The viewer owns the terminal; diagnostics would corrupt the screen.
			logger, err := logging.NewWriter(io.Discard, a.cfg.Log)
			if err != nil {
				return err
			}

			model := tui.New(opts)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)

			if follow {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				w := watch.New(a.cfg.Document, func(context.Context) {
					p.Send(tui.ReloadMsg{})
				}, logger)
				w.Start(ctx)
				defer w.Stop()
			}

			final, err := p.Run()
			if m, ok := final.(tui.Model); ok {
				m.Close()
			}
			if err != nil {
				return fmt.Errorf("running viewer: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "start with a static starfield (overrides config)")
	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "reload when the document changes on disk")
	cmd.Flags().StringVar(&style, "style", "", "glamour style: dark, light, notty (default: detect)")
	return cmd
}

// viewerOptions assembles the viewer from config. The reduced-motion flag
// wins over config when it was given.
func (a *app) viewerOptions(flagSet, reducedMotion bool, style string) (tui.Options, error) {
	renderer, err := report.NewRenderer()
	if err != nil {
		return tui.Options{}, err
	}

	opts := tui.Options{
		Loader:        status.NewLoader(status.FileSource{Path: a.cfg.Document}),
		Renderer:      renderer,
		ReducedMotion: a.cfg.Starfield.ReducedMotion,
		FPS:           a.cfg.Starfield.FPS,
		Style:         style,
	}
	if flagSet {
		opts.ReducedMotion = reducedMotion
	}

	if a.cfg.Gate.SHA256 != "" {
		g, err := gate.New(a.cfg.Gate.SHA256, a.cfg.Gate.MaxAttempts)
		if err != nil {
			return tui.Options{}, fmt.Errorf("gate: %w", err)
		}
		opts.Gate = g
	}
	return opts, nil
}
