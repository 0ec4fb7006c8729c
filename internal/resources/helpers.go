package resources

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// errorResource returns a resource with an error message. A broken document
// is reported to the host as content rather than failing the read.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
