// Package status defines the status document that drives the roadmap site:
// network phases, security-audit findings, the road-to-mainnet timeline and
// the outbound links. It owns the document's schema, its validation and the
// memoized loader that hands a validated instance to consumers.
//
// The document is only ever accepted whole. Validate either returns a fully
// typed Document or a *ValidationError listing every violated constraint.
package status

import "fmt"

// --- Phase key enum ---

// PhaseKey identifies one of the three network rollout phases.
type PhaseKey string

const (
	PhaseDevnet  PhaseKey = "devnet"
	PhaseTestnet PhaseKey = "testnet"
	PhaseMainnet PhaseKey = "mainnet"
)

// PhaseKeys lists the phase keys in rollout order.
var PhaseKeys = []PhaseKey{PhaseDevnet, PhaseTestnet, PhaseMainnet}

var validPhaseKeys = map[PhaseKey]bool{
	PhaseDevnet:  true,
	PhaseTestnet: true,
	PhaseMainnet: true,
}

// ValidatePhaseKey returns an error if the key is not recognized.
func ValidatePhaseKey(k PhaseKey) error {
	if !validPhaseKeys[k] {
		return fmt.Errorf("invalid phase key %q: must be one of: devnet, testnet, mainnet", k)
	}
	return nil
}

// --- Phase status enum ---

// PhaseStatus is the progress marker of a phase.
type PhaseStatus string

const (
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseUpcoming   PhaseStatus = "upcoming"
	PhaseComplete   PhaseStatus = "complete"
)

var validPhaseStatuses = map[PhaseStatus]bool{
	PhaseInProgress: true,
	PhaseUpcoming:   true,
	PhaseComplete:   true,
}

// ValidatePhaseStatus returns an error if the status is not recognized.
func ValidatePhaseStatus(s PhaseStatus) error {
	if !validPhaseStatuses[s] {
		return fmt.Errorf("invalid phase status %q: must be one of: in_progress, upcoming, complete", s)
	}
	return nil
}

// --- Roadmap state enum ---

// RoadmapState is the progress marker of a road-to-mainnet milestone.
type RoadmapState string

const (
	RoadmapInProgress RoadmapState = "in_progress"
	RoadmapUpNext     RoadmapState = "up_next"
	RoadmapPlanned    RoadmapState = "planned"
	RoadmapComplete   RoadmapState = "complete"
)

var validRoadmapStates = map[RoadmapState]bool{
	RoadmapInProgress: true,
	RoadmapUpNext:     true,
	RoadmapPlanned:    true,
	RoadmapComplete:   true,
}

// ValidateRoadmapState returns an error if the state is not recognized.
func ValidateRoadmapState(s RoadmapState) error {
	if !validRoadmapStates[s] {
		return fmt.Errorf("invalid roadmap state %q: must be one of: in_progress, up_next, planned, complete", s)
	}
	return nil
}

// --- Severity names ---

// Severity names the four fields of a SeverityCounts record.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

// Severities lists severity names from most to least severe.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// --- Core data structures ---

// Document is the root of status.json. Field order here is the order the
// document is written back in.
type Document struct {
	Meta     Meta          `json:"meta"`
	Phases   []Phase       `json:"phases"`
	Security Security      `json:"security"`
	Roadmap  []RoadmapItem `json:"roadmap"`
	Links    Links         `json:"links"`
}

// Meta carries document-wide bookkeeping.
type Meta struct {
	LastUpdated          string  `json:"lastUpdated"`
	OverallTrajectoryPct float64 `json:"overallTrajectoryPct"`
}

// Phase is one network rollout stage.
type Phase struct {
	Key     PhaseKey    `json:"key"`
	Title   string      `json:"title"`
	Status  PhaseStatus `json:"status"`
	Summary string      `json:"summary"`
}

// Security summarizes the audit state.
type Security struct {
	Notes              []string       `json:"notes"`
	PublicFindings     SeverityCounts `json:"publicFindings"`
	AfterPriorityFixes SeverityCounts `json:"afterPriorityFixes"`
}

// SeverityCounts tallies findings by severity.
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Info   int `json:"info"`
}

// RoadmapItem is one milestone of the road-to-mainnet timeline.
type RoadmapItem struct {
	Title string       `json:"title"`
	State RoadmapState `json:"state"`
}

// Links are the outbound references shown on the site.
type Links struct {
	GovernanceForum string `json:"governanceForum"`
	TechnicalDocs   string `json:"technicalDocs"`
	AuditReports    string `json:"auditReports"`
}

// Phase returns the phase with the given key, or nil.
func (d *Document) Phase(key PhaseKey) *Phase {
	for i := range d.Phases {
		if d.Phases[i].Key == key {
			return &d.Phases[i]
		}
	}
	return nil
}

// Get returns the count for a severity.
func (c SeverityCounts) Get(s Severity) int {
	switch s {
	case SeverityHigh:
		return c.High
	case SeverityMedium:
		return c.Medium
	case SeverityLow:
		return c.Low
	case SeverityInfo:
		return c.Info
	}
	return 0
}

// Set overwrites the count for a severity. Unknown severities are an error.
func (c *SeverityCounts) Set(s Severity, n int) error {
	switch s {
	case SeverityHigh:
		c.High = n
	case SeverityMedium:
		c.Medium = n
	case SeverityLow:
		c.Low = n
	case SeverityInfo:
		c.Info = n
	default:
		return fmt.Errorf("unknown severity %q: must be one of: high, medium, low, info", s)
	}
	return nil
}

// Total returns the sum of all severities.
func (c SeverityCounts) Total() int {
	return c.High + c.Medium + c.Low + c.Info
}
