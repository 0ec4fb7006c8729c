package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// PathError reports a dotted path that cannot be resolved or assigned.
type PathError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: segment %q: %s", e.Path, e.Segment, e.Reason)
}

// SplitPath splits a dotted path into its segments. Empty segments
// ("a..b", ".a", "a.") are rejected.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, &PathError{Path: path, Reason: "empty path"}
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, &PathError{Path: path, Reason: "empty segment"}
		}
	}
	return segments, nil
}

// Get resolves a dotted path. Numeric segments index into arrays.
func (v *Value) Get(path string) (*Value, bool) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, false
	}
	current := v
	for _, seg := range segments {
		switch current.Kind() {
		case KindObject:
			next, ok := current.fields[seg]
			if !ok {
				return nil, false
			}
			current = next
		case KindArray:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return nil, false
			}
			next, ok := current.Index(idx)
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// Set assigns val at a dotted path, creating missing intermediate objects
// along the way. A numeric segment equal to the array length appends a new
// object when more segments follow; any other index past the end, or
// descending into a scalar, is an error.
func (v *Value) Set(path string, val *Value) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}
	return v.set(path, segments, val)
}

func (v *Value) set(path string, segments []string, val *Value) error {
	head := segments[0]
	last := len(segments) == 1

	switch v.Kind() {
	case KindObject:
		if last {
			v.SetField(head, val)
			return nil
		}
		child, ok := v.fields[head]
		if !ok {
			child = Object()
			v.SetField(head, child)
		}
		return child.set(path, segments[1:], val)

	case KindArray:
		idx, err := strconv.Atoi(head)
		if err != nil {
			return &PathError{Path: path, Segment: head, Reason: "array index must be an integer"}
		}
		if idx == len(v.items) && !last {
			v.items = append(v.items, Object())
		}
		if idx < 0 || idx >= len(v.items) {
			return &PathError{Path: path, Segment: head, Reason: fmt.Sprintf("index out of range [0,%d)", len(v.items))}
		}
		if last {
			v.items[idx] = val
			return nil
		}
		return v.items[idx].set(path, segments[1:], val)

	default:
		return &PathError{Path: path, Segment: head, Reason: fmt.Sprintf("cannot descend into %s", v.Kind())}
	}
}
