package status

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/HendryAvila/roadmap-status/internal/tree"
)

// PhaseCount is the exact number of phases a document must carry.
const PhaseCount = 3

// Issue is one violated constraint, addressed by dotted path
// ("phases.1.status", "security.publicFindings.high").
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports every constraint a document violates.
type ValidationError struct {
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("status document invalid: %s: %s", e.Issues[0].Path, e.Issues[0].Message)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "status document invalid (%d issues):", len(e.Issues))
	for _, is := range e.Issues {
		fmt.Fprintf(&b, "\n  - %s: %s", is.Path, is.Message)
	}
	return b.String()
}

// Validate checks a generic tree against the full document schema and
// returns the typed document. Every violation is collected; nothing is
// returned unless the whole tree is well-formed.
func Validate(raw *tree.Value) (*Document, error) {
	c := &checker{}
	doc := c.document(raw)
	if len(c.issues) > 0 {
		return nil, &ValidationError{Issues: c.issues}
	}
	return doc, nil
}

// ValidateDocument re-checks a typed document, e.g. after it was edited
// in memory.
func ValidateDocument(doc *Document) error {
	t, err := doc.Tree()
	if err != nil {
		return err
	}
	_, err = Validate(t)
	return err
}

// ParseTimestamp accepts the ISO-8601 shapes found in status documents:
// full RFC 3339 timestamps, timestamps without a zone, and bare dates.
func ParseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// --- checker ---

type checker struct {
	issues []Issue
}

func (c *checker) fail(path, format string, args ...any) {
	c.issues = append(c.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func join(path, seg string) string {
	if path == "" {
		return seg
	}
	return path + "." + seg
}

// object asserts v is an object and returns it, recording an issue otherwise.
func (c *checker) object(path string, v *tree.Value) (*tree.Value, bool) {
	if v.Kind() != tree.KindObject {
		c.fail(displayPath(path), "expected object, received %s", v.Kind())
		return nil, false
	}
	return v, true
}

// field fetches a required member of obj.
func (c *checker) field(obj *tree.Value, path, key string) (*tree.Value, bool) {
	v, ok := obj.Field(key)
	if !ok {
		c.fail(join(path, key), "required")
		return nil, false
	}
	return v, true
}

func (c *checker) nonEmptyString(obj *tree.Value, path, key string) string {
	v, ok := c.field(obj, path, key)
	if !ok {
		return ""
	}
	return c.nonEmptyValue(join(path, key), v)
}

func (c *checker) nonEmptyValue(path string, v *tree.Value) string {
	s, ok := v.Str()
	if !ok {
		c.fail(path, "expected string, received %s", v.Kind())
		return ""
	}
	if s == "" {
		c.fail(path, "must contain at least 1 character")
	}
	return s
}

func (c *checker) enum(obj *tree.Value, path, key string, allowed []string) string {
	v, ok := c.field(obj, path, key)
	if !ok {
		return ""
	}
	p := join(path, key)
	s, ok := v.Str()
	if !ok {
		c.fail(p, "expected string, received %s", v.Kind())
		return ""
	}
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	c.fail(p, "invalid value %q: expected one of %s", s, strings.Join(allowed, " | "))
	return s
}

func (c *checker) nonNegativeInt(obj *tree.Value, path, key string) int {
	v, ok := c.field(obj, path, key)
	if !ok {
		return 0
	}
	p := join(path, key)
	if v.Kind() != tree.KindNumber {
		c.fail(p, "expected number, received %s", v.Kind())
		return 0
	}
	n, ok := v.Integer()
	switch {
	case ok:
	case !v.InRange():
		c.fail(p, "number is out of range")
		return 0
	case isWhole(v):
		c.fail(p, "integer is too large")
		return 0
	default:
		c.fail(p, "expected integer, received fractional number")
		return 0
	}
	if n < 0 {
		c.fail(p, "must be greater than or equal to 0")
	}
	return int(n)
}

// isWhole reports whether a finite number has no fractional part.
func isWhole(v *tree.Value) bool {
	f, ok := v.Float64()
	return ok && math.Trunc(f) == f
}

func (c *checker) document(raw *tree.Value) *Document {
	root, ok := c.object("", raw)
	if !ok {
		return nil
	}

	doc := &Document{}
	c.meta(root, &doc.Meta)
	doc.Phases = c.phases(root)
	c.security(root, &doc.Security)
	doc.Roadmap = c.roadmap(root)
	c.links(root, &doc.Links)
	return doc
}

func (c *checker) meta(root *tree.Value, m *Meta) {
	v, ok := c.field(root, "", "meta")
	if !ok {
		return
	}
	obj, ok := c.object("meta", v)
	if !ok {
		return
	}

	if lu, ok := c.field(obj, "meta", "lastUpdated"); ok {
		s, isStr := lu.Str()
		switch {
		case !isStr:
			c.fail("meta.lastUpdated", "expected string, received %s", lu.Kind())
		default:
			if _, err := ParseTimestamp(s); err != nil {
				c.fail("meta.lastUpdated", "lastUpdated must be a valid ISO-8601 timestamp")
			}
			m.LastUpdated = s
		}
	}

	if pct, ok := c.field(obj, "meta", "overallTrajectoryPct"); ok {
		f, isNum := pct.Float64()
		switch {
		case pct.Kind() != tree.KindNumber:
			c.fail("meta.overallTrajectoryPct", "expected number, received %s", pct.Kind())
		case !isNum:
			c.fail("meta.overallTrajectoryPct", "number is out of range")
		case f < 0:
			c.fail("meta.overallTrajectoryPct", "must be greater than or equal to 0")
		case f > 100:
			c.fail("meta.overallTrajectoryPct", "must be less than or equal to 100")
		}
		m.OverallTrajectoryPct = f
	}
}

func (c *checker) phases(root *tree.Value) []Phase {
	v, ok := c.field(root, "", "phases")
	if !ok {
		return nil
	}
	if v.Kind() != tree.KindArray {
		c.fail("phases", "expected array, received %s", v.Kind())
		return nil
	}
	if v.Len() != PhaseCount {
		c.fail("phases", "must contain exactly %d elements, received %d", PhaseCount, v.Len())
	}

	keys := make([]string, len(PhaseKeys))
	for i, k := range PhaseKeys {
		keys[i] = string(k)
	}
	statuses := []string{string(PhaseInProgress), string(PhaseUpcoming), string(PhaseComplete)}

	phases := make([]Phase, 0, v.Len())
	for i, item := range v.Items() {
		path := "phases." + strconv.Itoa(i)
		obj, ok := c.object(path, item)
		if !ok {
			continue
		}
		phases = append(phases, Phase{
			Key:     PhaseKey(c.enum(obj, path, "key", keys)),
			Title:   c.nonEmptyString(obj, path, "title"),
			Status:  PhaseStatus(c.enum(obj, path, "status", statuses)),
			Summary: c.nonEmptyString(obj, path, "summary"),
		})
	}
	return phases
}

func (c *checker) security(root *tree.Value, s *Security) {
	v, ok := c.field(root, "", "security")
	if !ok {
		return
	}
	obj, ok := c.object("security", v)
	if !ok {
		return
	}

	if notes, ok := c.field(obj, "security", "notes"); ok {
		switch {
		case notes.Kind() != tree.KindArray:
			c.fail("security.notes", "expected array, received %s", notes.Kind())
		case notes.Len() == 0:
			c.fail("security.notes", "must contain at least 1 element")
		default:
			for i, n := range notes.Items() {
				s.Notes = append(s.Notes, c.nonEmptyValue("security.notes."+strconv.Itoa(i), n))
			}
		}
	}

	s.PublicFindings = c.severityCounts(obj, "security", "publicFindings")
	s.AfterPriorityFixes = c.severityCounts(obj, "security", "afterPriorityFixes")
}

func (c *checker) severityCounts(parent *tree.Value, path, key string) SeverityCounts {
	var counts SeverityCounts
	v, ok := c.field(parent, path, key)
	if !ok {
		return counts
	}
	p := join(path, key)
	obj, ok := c.object(p, v)
	if !ok {
		return counts
	}
	for _, sev := range Severities {
		_ = counts.Set(sev, c.nonNegativeInt(obj, p, string(sev)))
	}
	return counts
}

func (c *checker) roadmap(root *tree.Value) []RoadmapItem {
	v, ok := c.field(root, "", "roadmap")
	if !ok {
		return nil
	}
	if v.Kind() != tree.KindArray {
		c.fail("roadmap", "expected array, received %s", v.Kind())
		return nil
	}

	states := []string{
		string(RoadmapInProgress), string(RoadmapUpNext),
		string(RoadmapPlanned), string(RoadmapComplete),
	}

	items := make([]RoadmapItem, 0, v.Len())
	for i, item := range v.Items() {
		path := "roadmap." + strconv.Itoa(i)
		obj, ok := c.object(path, item)
		if !ok {
			continue
		}
		items = append(items, RoadmapItem{
			Title: c.nonEmptyString(obj, path, "title"),
			State: RoadmapState(c.enum(obj, path, "state", states)),
		})
	}
	return items
}

func (c *checker) links(root *tree.Value, l *Links) {
	v, ok := c.field(root, "", "links")
	if !ok {
		return
	}
	obj, ok := c.object("links", v)
	if !ok {
		return
	}
	l.GovernanceForum = c.nonEmptyString(obj, "links", "governanceForum")
	l.TechnicalDocs = c.nonEmptyString(obj, "links", "technicalDocs")
	l.AuditReports = c.nonEmptyString(obj, "links", "auditReports")
}

// displayPath names the document root in issues.
func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
