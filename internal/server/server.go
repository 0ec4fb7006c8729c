// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the concrete document store,
// loader, history and renderer and injects them into the tools, prompts and
// resources. No business logic lives here, only wiring.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/HendryAvila/roadmap-status/internal/bump"
	"github.com/HendryAvila/roadmap-status/internal/config"
	"github.com/HendryAvila/roadmap-status/internal/history"
	"github.com/HendryAvila/roadmap-status/internal/prompts"
	"github.com/HendryAvila/roadmap-status/internal/report"
	"github.com/HendryAvila/roadmap-status/internal/resources"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/HendryAvila/roadmap-status/internal/tools"
	"github.com/HendryAvila/roadmap-status/internal/watch"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Server is the MCP server together with the dependencies it owns.
type Server struct {
	mcp     *server.MCPServer
	cfg     config.Config
	loader  *status.Loader
	history *history.Store
	logger  *zap.Logger
}

// New creates and configures the MCP server with all tools, prompts and
// resources registered. This is the single place where all dependencies
// are resolved.
//
// History is optional: if it is disabled or fails to open, the server runs
// without the status_history tool and bumps are not recorded.
// Close must be called on shutdown.
func New(cfg config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Create shared dependencies ---

	store := status.NewFileStore(cfg.Document)
	loader := status.NewLoader(status.FileSource{Path: cfg.Document})

	renderer, err := report.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating report renderer: %w", err)
	}

	runner := bump.NewRunner(store, logger)

	srv := &Server{cfg: cfg, loader: loader, logger: logger}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"roadmap",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)
	srv.mcp = s

	// --- Register tools ---

	getTool := tools.NewGetTool(loader, renderer)
	s.AddTool(getTool.Definition(), getTool.Handle)

	validateTool := tools.NewValidateTool(store)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	bumpTool := tools.NewBumpTool(runner, loader)
	s.AddTool(bumpTool.Definition(), bumpTool.Handle)

	// --- History ---
	//
	// History is an independent subsystem: if it fails to open, the
	// document tools keep working. We log a warning and skip it.

	if cfg.History.Enabled {
		hs, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("history disabled", zap.Error(err))
		} else {
			srv.history = hs
			runner.SetRecorder(hs)
			historyTool := tools.NewHistoryTool(hs)
			s.AddTool(historyTool.Definition(), historyTool.Handle)
		}
	}

	// --- Register prompts ---

	summaryPrompt := prompts.NewSummaryPrompt()
	s.AddPrompt(summaryPrompt.Definition(), summaryPrompt.Handle)

	updatePrompt := prompts.NewUpdatePrompt()
	s.AddPrompt(updatePrompt.Definition(), updatePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(loader, renderer)
	s.AddResource(resourceHandler.DocumentResource(), resourceHandler.HandleDocument)
	s.AddResource(resourceHandler.ReportResource(), resourceHandler.HandleReport)

	return srv, nil
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Loader returns the memoized document loader shared by all handlers.
func (s *Server) Loader() *status.Loader { return s.loader }

// Close releases the history database, if open.
func (s *Server) Close() {
	if s.history == nil {
		return
	}
	if err := s.history.Close(); err != nil {
		s.logger.Warn("history store close", zap.Error(err))
	}
	s.history = nil
}

// ServeOptions controls Serve.
type ServeOptions struct {
	In  io.Reader
	Out io.Writer
	// Watch drops the loader cache whenever the document changes on disk.
	Watch bool
}

// Serve runs the stdio transport until ctx is cancelled or the input ends.
func (s *Server) Serve(ctx context.Context, opts ServeOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		stdio := server.NewStdioServer(s.mcp)
		err := stdio.Listen(gctx, opts.In, opts.Out)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if opts.Watch {
		w := watch.New(s.cfg.Document, func(ctx context.Context) {
			s.loader.Reset()
			s.logger.Info("status document changed, cache reset", zap.String("document", s.cfg.Document))
		}, s.logger)
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	return g.Wait()
}

// serverInstructions returns the system instructions that tell the AI how
// to use the server.
func serverInstructions() string {
	return `This server manages the network status document (status.json) that drives the public road-to-mainnet site.

## Reading
- status_get returns a Markdown report (format='markdown') or the raw document (format='json').
- The resources status://document and status://report expose the same data.

## Editing
- Use status_bump for every change. Never write status.json by hand.
- Edits apply in a fixed order: overall, phases, findings, set.
- The file is only written when the whole edited document is valid. On failure nothing changes and every violated field is listed.
- Preview with dry_run=true first, then apply. Add set=['meta.lastUpdated=auto'] when recording real progress.
- 'set' assigns strings only. Use 'overall' and 'findings' for numbers.

## Checking
- status_validate re-reads the file from disk and lists schema violations.
- status_history lists previous revisions when history is enabled.`
}
