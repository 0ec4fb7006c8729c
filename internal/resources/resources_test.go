package resources

import (
	"context"
	"strings"
	"testing"

	roadmap "github.com/HendryAvila/roadmap-status"
	"github.com/HendryAvila/roadmap-status/internal/report"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/mark3labs/mcp-go/mcp"
)

func newHandler(t *testing.T, data []byte) *Handler {
	t.Helper()
	renderer, err := report.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	return NewHandler(status.NewLoader(status.BytesSource{Label: "embedded", Data: data}), renderer)
}

func readRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func text(t *testing.T, contents []mcp.ResourceContents) (string, string) {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T, want TextResourceContents", contents[0])
	}
	return tc.MIMEType, tc.Text
}

func TestHandleDocument(t *testing.T) {
	h := newHandler(t, roadmap.StatusJSON)

	contents, err := h.HandleDocument(context.Background(), readRequest(DocumentURI))
	if err != nil {
		t.Fatalf("HandleDocument: %v", err)
	}
	mime, body := text(t, contents)
	if mime != "application/json" {
		t.Errorf("MIMEType = %s", mime)
	}
	if body != string(roadmap.StatusJSON) {
		t.Errorf("body should be the encoded document, got:\n%s", body)
	}
}

func TestHandleDocument_Invalid(t *testing.T) {
	h := newHandler(t, []byte(`{"phases": []}`))

	contents, err := h.HandleDocument(context.Background(), readRequest(DocumentURI))
	if err != nil {
		t.Fatalf("HandleDocument: %v", err)
	}
	mime, body := text(t, contents)
	if mime != "text/plain" || !strings.HasPrefix(body, "Error: ") {
		t.Errorf("expected error resource, got %s %q", mime, body)
	}
}

func TestHandleReport(t *testing.T) {
	h := newHandler(t, roadmap.StatusJSON)

	contents, err := h.HandleReport(context.Background(), readRequest(ReportURI))
	if err != nil {
		t.Fatalf("HandleReport: %v", err)
	}
	mime, body := text(t, contents)
	if mime != "text/markdown" {
		t.Errorf("MIMEType = %s", mime)
	}
	if !strings.Contains(body, "# Road to Mainnet") {
		t.Errorf("report missing heading:\n%s", body)
	}
}

func TestResourceDefinitions(t *testing.T) {
	h := newHandler(t, roadmap.StatusJSON)
	if h.DocumentResource().URI != DocumentURI {
		t.Errorf("DocumentResource URI = %s", h.DocumentResource().URI)
	}
	if h.ReportResource().URI != ReportURI {
		t.Errorf("ReportResource URI = %s", h.ReportResource().URI)
	}
}
