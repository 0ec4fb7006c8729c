// Command roadmap maintains the network status document (status.json):
// validate it, apply edits through the bump pipeline, render the report,
// browse it in the terminal and expose it over MCP.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/HendryAvila/roadmap-status/internal/bump"
	"github.com/HendryAvila/roadmap-status/internal/config"
	"github.com/HendryAvila/roadmap-status/internal/logging"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the global flags and what PersistentPreRunE resolves from
// them.
type app struct {
	configPath string
	document   string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "roadmap",
		Short: "Maintain the road-to-mainnet status document",
		Long: `roadmap keeps status.json, the single source of truth behind the
road-to-mainnet site, valid and up to date.

Every edit goes through the same pipeline: load, validate, patch in memory,
re-validate the whole document, and only then write. A failed edit never
touches the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: .roadmap.yaml found upward from the working directory)")
	pf.StringVarP(&a.document, "document", "d", "", "status document path (overrides config)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	// Flag syntax errors are argument errors like any other malformed input.
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &bump.ArgError{Msg: err.Error()}
	})

	root.AddCommand(
		a.validateCmd(),
		a.bumpCmd(),
		a.renderCmd(),
		a.viewCmd(),
		a.serveCmd(),
		a.watchCmd(),
		a.historyCmd(),
		a.gateCmd(),
		a.versionCmd(),
	)
	return root
}

// setup resolves configuration and the logger.
func (a *app) setup() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	cfg, err := config.Load(wd, a.configPath)
	if err != nil {
		return err
	}
	if a.document != "" {
		doc, err := filepath.Abs(a.document)
		if err != nil {
			return fmt.Errorf("resolving document path: %w", err)
		}
		cfg.Document = doc
	}

	logger, err := logging.New(cfg.Log, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// docName is how messages refer to the document.
func (a *app) docName() string {
	if a.cfg.Document == "" {
		return status.DefaultFile
	}
	return filepath.Base(a.cfg.Document)
}

// printError writes err for the operator. Validation failures carry the
// full violation list.
func (a *app) printError(w io.Writer, err error) {
	var verr *status.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(w, "%s validation failed\n", a.docName())
		issues, mErr := json.MarshalIndent(verr.Issues, "", "  ")
		if mErr != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(w, "%s\n", issues)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		a.printError(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
