package bump

import (
	"errors"
	"io"

	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/spf13/pflag"
)

// Flags binds the bump flag surface onto a pflag.FlagSet:
//
//	--overall <int>
//	--phase <key>:<status>        (repeatable)
//	--findings.<severity> <int>   (high, medium, low, info)
//	--set <dotted.path>=<value>   (repeatable)
//	--dry-run
type Flags struct {
	overall  int
	phases   []string
	findings map[status.Severity]*int
	sets     []string
	dryRun   bool
}

// BindFlags registers the bump flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{findings: make(map[status.Severity]*int, len(status.Severities))}

	fs.IntVar(&f.overall, "overall", 0, "set meta.overallTrajectoryPct")
	fs.StringArrayVar(&f.phases, "phase", nil, "update one phase status as key:status (repeatable)")
	for _, sev := range status.Severities {
		v := new(int)
		f.findings[sev] = v
		fs.IntVar(v, "findings."+string(sev), 0, "overwrite security.publicFindings."+string(sev))
	}
	fs.StringArrayVar(&f.sets, "set", nil, "assign a string at dotted.path=value (repeatable); meta.lastUpdated=auto stamps the current time")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the patched document instead of writing it")

	return f
}

// Options are execution switches that are not edits.
type Options struct {
	DryRun bool
}

// Plan builds the edit plan from the parsed flags.
func (f *Flags) Plan(fs *pflag.FlagSet) (Plan, error) {
	var p Plan

	if fs.Changed("overall") {
		v := f.overall
		p.Overall = &v
	}
	for _, raw := range f.phases {
		u, err := ParsePhase(raw)
		if err != nil {
			return Plan{}, err
		}
		p.Phases = append(p.Phases, u)
	}
	for _, sev := range status.Severities {
		if fs.Changed("findings." + string(sev)) {
			p.Findings = append(p.Findings, FindingUpdate{Severity: sev, Value: *f.findings[sev]})
		}
	}
	for _, raw := range f.sets {
		op, err := ParseSet(raw)
		if err != nil {
			return Plan{}, err
		}
		p.Sets = append(p.Sets, op)
	}

	return p, nil
}

// Options returns the non-edit switches.
func (f *Flags) Options() Options {
	return Options{DryRun: f.dryRun}
}

// ParseArgs parses a bump argument vector. Every failure is an *ArgError.
func ParseArgs(argv []string) (Plan, Options, error) {
	fs := pflag.NewFlagSet("bump", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := BindFlags(fs)

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Plan{}, Options{}, &ArgError{Msg: "help requested"}
		}
		return Plan{}, Options{}, &ArgError{Msg: err.Error()}
	}
	if fs.NArg() > 0 {
		return Plan{}, Options{}, argErrorf("unknown argument: %s", fs.Arg(0))
	}

	p, err := f.Plan(fs)
	if err != nil {
		return Plan{}, Options{}, err
	}
	return p, f.Options(), nil
}
