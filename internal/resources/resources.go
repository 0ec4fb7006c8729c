// Package resources implements MCP resource handlers for the status
// document.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (status://...) following MCP conventions.
package resources

import (
	"context"
	"fmt"

	"github.com/HendryAvila/roadmap-status/internal/report"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	DocumentURI = "status://document"
	ReportURI   = "status://report"
)

// Handler serves the status resources from a memoized loader.
type Handler struct {
	loader   *status.Loader
	renderer *report.Renderer
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(loader *status.Loader, renderer *report.Renderer) *Handler {
	return &Handler{loader: loader, renderer: renderer}
}

// DocumentResource returns the MCP resource definition for the raw document.
func (h *Handler) DocumentResource() mcp.Resource {
	return mcp.NewResource(
		DocumentURI,
		"Status Document",
		mcp.WithResourceDescription("The validated status.json: phases, security findings, roadmap and links"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleDocument returns the validated document as JSON.
func (h *Handler) HandleDocument(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc, err := h.loader.Load(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := status.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding status document: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// ReportResource returns the MCP resource definition for the Markdown report.
func (h *Handler) ReportResource() mcp.Resource {
	return mcp.NewResource(
		ReportURI,
		"Status Report",
		mcp.WithResourceDescription("The status document rendered as a Markdown report"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleReport returns the Markdown report.
func (h *Handler) HandleReport(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc, err := h.loader.Load(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	md, err := h.renderer.Markdown(doc)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     md,
		},
	}, nil
}
