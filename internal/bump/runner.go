package bump

import (
	"context"
	"sync"
	"time"

	"github.com/HendryAvila/roadmap-status/internal/status"
	"go.uber.org/zap"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Recorder keeps a trail of successful bumps. It is optional.
type Recorder interface {
	Record(ctx context.Context, doc *status.Document, summary string) error
}

// Result describes a finished bump.
type Result struct {
	Document *status.Document
	// Encoded is the document exactly as written (or as it would be
	// written on a dry run).
	Encoded []byte
	Written bool
}

// Runner executes plans against a document store: load, apply, validate,
// write. Any failure leaves the store untouched. Runs on one Runner are
// serialized so concurrent callers never overwrite each other's edits.
type Runner struct {
	mu       sync.Mutex
	store    status.Store
	recorder Recorder
	logger   *zap.Logger
}

// NewRunner creates a Runner. logger may be nil.
func NewRunner(store status.Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: store, logger: logger}
}

// SetRecorder wires an optional history recorder. Recording is best
// effort: a failure is logged and does not fail the bump.
func (r *Runner) SetRecorder(rec Recorder) {
	r.recorder = rec
}

// Path is the location of the document the runner edits.
func (r *Runner) Path() string {
	return r.store.Path()
}

// Run applies plan to the stored document.
func (r *Runner) Run(ctx context.Context, plan Plan, opts Options) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	patched, err := Apply(current, plan, timeNow())
	if err != nil {
		r.logger.Debug("bump rejected",
			zap.String("document", r.store.Path()),
			zap.String("plan", plan.Summary()),
			zap.Error(err),
		)
		return nil, err
	}

	encoded, err := status.Encode(patched)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		return &Result{Document: patched, Encoded: encoded}, nil
	}

	if err := r.store.Save(ctx, patched); err != nil {
		return nil, err
	}
	r.logger.Info("status document updated",
		zap.String("document", r.store.Path()),
		zap.String("plan", plan.Summary()),
	)

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, patched, plan.Summary()); err != nil {
			r.logger.Warn("recording history failed", zap.Error(err))
		}
	}

	return &Result{Document: patched, Encoded: encoded, Written: true}, nil
}
