package bump

import (
	"fmt"
	"strconv"
	"time"

	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/HendryAvila/roadmap-status/internal/tree"
)

// timestampLayout matches the millisecond UTC form the site has always
// written ("2025-12-03T16:00:00.000Z").
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Apply runs plan against doc and returns the validated result. doc itself
// is never modified: edits go to a tree copy that is validated as a whole.
// Phase keys are resolved before any edit is made.
func Apply(doc *status.Document, plan Plan, now time.Time) (*status.Document, error) {
	phaseIndex := make([]int, len(plan.Phases))
	for i, u := range plan.Phases {
		idx := -1
		for j, p := range doc.Phases {
			if p.Key == u.Key {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, &LookupError{Key: u.Key}
		}
		phaseIndex[i] = idx
	}

	t, err := doc.Tree()
	if err != nil {
		return nil, err
	}

	if plan.Overall != nil {
		if err := t.Set("meta.overallTrajectoryPct", tree.Int(int64(*plan.Overall))); err != nil {
			return nil, err
		}
	}

	for i, u := range plan.Phases {
		path := "phases." + strconv.Itoa(phaseIndex[i]) + ".status"
		if err := t.Set(path, tree.String(string(u.Status))); err != nil {
			return nil, err
		}
	}

	for _, u := range plan.Findings {
		path := "security.publicFindings." + string(u.Severity)
		if err := t.Set(path, tree.Int(int64(u.Value))); err != nil {
			return nil, err
		}
	}

	for _, op := range plan.Sets {
		value := op.Value
		if op.Path == LastUpdatedPath && value == AutoTimestamp {
			value = now.UTC().Format(timestampLayout)
		}
		if err := t.Set(op.Path, tree.String(value)); err != nil {
			return nil, fmt.Errorf("--set %s: %w", op.Path, err)
		}
	}

	return status.Validate(t)
}
