package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/HendryAvila/roadmap-status/internal/bump"
	"github.com/HendryAvila/roadmap-status/internal/gate"
	"github.com/HendryAvila/roadmap-status/internal/server"
	"github.com/spf13/cobra"
)

func (a *app) gateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Manage the viewer password gate",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "hash [password]",
		Short: "Print the gate.sha256 value for a password",
		Long: `Prints the hex SHA-256 digest to put under gate.sha256 in .roadmap.yaml.
Without an argument the password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return &bump.ArgError{Msg: "no password given"}
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return &bump.ArgError{Msg: "password must not be empty"}
			}
			fmt.Fprintln(cmd.OutOrStdout(), gate.Hash(password))
			return nil
		},
	})

	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "roadmap %s\n", server.Version)
		},
	}
}
