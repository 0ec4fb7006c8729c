// Package tools implements the MCP tool handlers over the status document.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition() for registration and Handle() with
// mcp-go's CallToolRequest signature. Bad input is reported as a tool error
// result; a Go error is returned only for failures of the server itself.
package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request. JSON numbers
// arrive as float64; present is false when the key is missing and err is
// set when the value is not a whole number.
func intArg(req mcp.CallToolRequest, key string) (n int, present bool, err error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	v, ok := raw.(float64)
	if !ok || v != float64(int(v)) {
		return 0, true, fmt.Errorf("'%s' must be an integer", key)
	}
	return int(v), true, nil
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// stringsArg extracts an array of strings. A single string is accepted as a
// one-element list.
func stringsArg(req mcp.CallToolRequest, key string) ([]string, error) {
	switch v := req.GetArguments()[key].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("'%s[%d]' must be a string", key, i)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("'%s' must be an array of strings", key)
	}
}

// objectArg extracts a JSON object argument.
func objectArg(req mcp.CallToolRequest, key string) (map[string]any, error) {
	switch v := req.GetArguments()[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("'%s' must be an object", key)
	}
}
