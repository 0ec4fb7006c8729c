package status

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/roadmap-status/internal/tree"
	"github.com/tidwall/jsonc"
)

// ParseTree turns raw document bytes into a generic tree. Hand-edited
// documents may carry // comments and trailing commas; both are stripped
// before parsing.
func ParseTree(data []byte) (*tree.Value, error) {
	t, err := tree.Parse(jsonc.ToJSON(data))
	if err != nil {
		return nil, fmt.Errorf("parsing status document: %w", err)
	}
	return t, nil
}

// Decode parses and validates raw document bytes.
func Decode(data []byte) (*Document, error) {
	t, err := ParseTree(data)
	if err != nil {
		return nil, err
	}
	return Validate(t)
}

// Encode serializes a document the way it is stored on disk: 2-space
// indentation, fields in schema order, terminated by a newline.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding status document: %w", err)
	}
	return buf.Bytes(), nil
}

// Tree converts the typed document into a generic tree so that it can be
// patched by path and validated again.
func (d *Document) Tree() (*tree.Value, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding status document: %w", err)
	}
	return tree.Parse(data)
}
