// Package bump applies batches of edits to the status document without ever
// leaving an invalid document on disk.
//
// A Plan is parsed up front (argument errors happen before any file I/O),
// applied to an in-memory tree of the loaded document, validated as a
// whole and only then written back.
package bump

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/HendryAvila/roadmap-status/internal/status"
)

// AutoTimestamp is the --set value that resolves to the current time when
// assigned to meta.lastUpdated.
const AutoTimestamp = "auto"

// LastUpdatedPath is the dotted path of the document timestamp.
const LastUpdatedPath = "meta.lastUpdated"

// --- Errors ---

// ArgError reports malformed tool input: bad flag syntax, a missing
// operand or a non-numeric value.
type ArgError struct {
	Msg string
}

func (e *ArgError) Error() string { return e.Msg }

func argErrorf(format string, args ...any) error {
	return &ArgError{Msg: fmt.Sprintf(format, args...)}
}

// LookupError reports a phase key that matches no phase in the document.
type LookupError struct {
	Key status.PhaseKey
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("phase not found: %s", e.Key)
}

// --- Plan ---

// PhaseUpdate sets one phase's status by key.
type PhaseUpdate struct {
	Key    status.PhaseKey
	Status status.PhaseStatus
}

// FindingUpdate overwrites one publicFindings count.
type FindingUpdate struct {
	Severity status.Severity
	Value    int
}

// SetOp assigns a string value at a dotted path.
type SetOp struct {
	Path  string
	Value string
}

// Plan is one batch of edits. Apply runs the categories in a fixed order:
// overall, phases, findings, sets; each category keeps argument order.
type Plan struct {
	Overall  *int
	Phases   []PhaseUpdate
	Findings []FindingUpdate
	Sets     []SetOp
}

// Empty reports whether the plan has no edits.
func (p Plan) Empty() bool {
	return p.Overall == nil && len(p.Phases) == 0 && len(p.Findings) == 0 && len(p.Sets) == 0
}

// Summary describes the plan in flag syntax, for logs and history.
func (p Plan) Summary() string {
	var parts []string
	if p.Overall != nil {
		parts = append(parts, fmt.Sprintf("--overall %d", *p.Overall))
	}
	for _, u := range p.Phases {
		parts = append(parts, fmt.Sprintf("--phase %s:%s", u.Key, u.Status))
	}
	for _, u := range p.Findings {
		parts = append(parts, fmt.Sprintf("--findings.%s %d", u.Severity, u.Value))
	}
	for _, s := range p.Sets {
		parts = append(parts, fmt.Sprintf("--set %s=%s", s.Path, s.Value))
	}
	if len(parts) == 0 {
		return "(no changes)"
	}
	return strings.Join(parts, " ")
}

// --- Operand parsers ---

// ParsePhase parses a "key:status" operand.
func ParsePhase(payload string) (PhaseUpdate, error) {
	if payload == "" {
		return PhaseUpdate{}, argErrorf("missing value for --phase. Use --phase devnet:in_progress")
	}
	key, st, ok := strings.Cut(payload, ":")
	if !ok || key == "" || st == "" {
		return PhaseUpdate{}, argErrorf("invalid --phase payload: %s", payload)
	}
	if strings.Contains(st, ":") {
		return PhaseUpdate{}, argErrorf("invalid --phase payload: %s (expected exactly one ':' between key and status)", payload)
	}
	return PhaseUpdate{Key: status.PhaseKey(key), Status: status.PhaseStatus(st)}, nil
}

// ParseSet parses a "dotted.path=value" operand. The value may itself
// contain '='; an empty value is allowed.
func ParseSet(payload string) (SetOp, error) {
	if payload == "" {
		return SetOp{}, argErrorf("missing value for --set. Use --set meta.lastUpdated=auto")
	}
	path, value, ok := strings.Cut(payload, "=")
	if !ok || path == "" {
		return SetOp{}, argErrorf("invalid --set payload: %s", payload)
	}
	return SetOp{Path: path, Value: value}, nil
}

// ParseSeverity validates a --findings.<name> suffix.
func ParseSeverity(name string) (status.Severity, error) {
	for _, s := range status.Severities {
		if string(s) == name {
			return s, nil
		}
	}
	return "", argErrorf("unknown findings field %q: must be one of: high, medium, low, info", name)
}

// ParseInt parses an integer operand for the named flag.
func ParseInt(flag, payload string) (int, error) {
	if payload == "" {
		return 0, argErrorf("missing value for %s", flag)
	}
	n, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return 0, argErrorf("invalid %s value: %s", flag, payload)
	}
	return n, nil
}
