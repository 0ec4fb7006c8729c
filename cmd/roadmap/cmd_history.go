package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/HendryAvila/roadmap-status/internal/history"
	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded revisions of the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hs, err := a.historyStore()
			if err != nil {
				return err
			}
			defer hs.Close()

			revs, err := hs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(revs) == 0 {
				fmt.Fprintln(out, "No revisions recorded yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "REVISION\tRECORDED\tOVERALL\tCHANGE")
			for _, rev := range revs {
				fmt.Fprintf(tw, "%s\t%s\t%g%%\t%s\n",
					rev.ID[:8], rev.CreatedAt.Format(time.RFC3339), rev.OverallPct, rev.Summary)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			total, err := hs.Count(cmd.Context())
			if err != nil {
				return err
			}
			if total > len(revs) {
				fmt.Fprintf(out, "\nShowing %d of %d revisions; use --limit to see more.\n", len(revs), total)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "maximum revisions to list")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a recorded revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hs, err := a.historyStore()
			if err != nil {
				return err
			}
			defer hs.Close()

			rev, err := hs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "revision %s\nrecorded %s\nchange   %s\nsha256   %s\n\n",
				rev.ID, rev.CreatedAt.Format(time.RFC3339), rev.Summary, rev.SHA256)
			_, err = out.Write(rev.Document)
			return err
		},
	})

	return cmd
}

func (a *app) historyStore() (*history.Store, error) {
	if !a.cfg.History.Enabled {
		return nil, errors.New("history is disabled (history.enabled: false)")
	}
	return history.Open(a.cfg.History.Path)
}
