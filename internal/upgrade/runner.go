package upgrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	pathpkg "path"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"upgrade_diff/internal/diff"
	"upgrade_diff/internal/reconcile"
	"upgrade_diff/internal/source"
)

// Phase is the state of a Runner.
type Phase int

const (
	PhaseIndexing Phase = iota
	PhaseReconciling
	PhaseEmitting
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIndexing:
		return "indexing"
	case PhaseReconciling:
		return "reconciling"
	case PhaseEmitting:
		return "emitting"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Logger is the structured logger a Runner writes to.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, err error, fields map[string]any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]any)        {}
func (nopLogger) Info(string, map[string]any)         {}
func (nopLogger) Warn(string, map[string]any)         {}
func (nopLogger) Error(string, error, map[string]any) {}

// Tree is the working tree: it is enumerated, read, and receives the patches.
type Tree interface {
	// Root is the prefix shared by every location Walk returns.
	Root() string
	Walk() ([]string, error)
	Open(location string) (io.ReadCloser, error)
	Rel(location string) (string, error)
	WriteFile(rel string, data []byte) (string, error)
}

// Options configures a Runner.
type Options struct {
	Roots       []reconcile.Root
	Filter      reconcile.Filter
	Context     int
	EOL         string
	OutputDir   string
	Workers     int
	FailFast    bool
	MaxFileSize int64
}

// Runner reconciles a working tree against a baseline and writes patches.
type Runner struct {
	baseline source.Baseline
	tree     Tree
	opts     Options
	log      Logger
	reporter Reporter

	// baseMu serializes baseline reads; archive and repository handles are not safe for concurrent use.
	baseMu sync.Mutex
}

// New returns a Runner. A nil logger or reporter discards what it would receive.
func New(baseline source.Baseline, tree Tree, opts Options, log Logger, reporter Reporter) *Runner {
	if opts.EOL == "" {
		opts.EOL = diff.DefaultEOL
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if log == nil {
		log = nopLogger{}
	}
	if reporter == nil {
		reporter = ReporterFunc(func(Outcome) {})
	}
	return &Runner{baseline: baseline, tree: tree, opts: opts, log: log, reporter: reporter}
}

// Run performs one full reconciliation. The returned error joins every entry failure; it is also non-nil
// when a side could not be enumerated or ctx was cancelled.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), Phase: PhaseIndexing}
	r.enter(&summary, PhaseIndexing)

	baseline, working, err := r.index()
	if err != nil {
		r.log.Error("indexing failed", err, map[string]any{"run": summary.RunID})
		r.enter(&summary, PhaseDone)
		return summary, err
	}

	r.enter(&summary, PhaseReconciling)
	entries := reconcile.Reconcile(baseline, working, r.filter())
	summary.Entries = len(entries)
	r.log.Info("reconciled", map[string]any{
		"run":      summary.RunID,
		"baseline": baseline.Len(),
		"working":  working.Len(),
		"entries":  len(entries),
	})

	r.enter(&summary, PhaseEmitting)
	var outcomes []Outcome
	if r.opts.Workers > 1 && len(entries) > 1 {
		outcomes = r.emitParallel(ctx, entries)
	} else {
		outcomes = r.emitSequential(ctx, entries)
	}

	var errs []error
	for _, o := range outcomes {
		summary.add(o)
		if o.Kind == OutcomeFailed {
			errs = append(errs, o.Err)
		}
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	r.enter(&summary, PhaseDone)
	r.log.Info("run complete", map[string]any{
		"run":       summary.RunID,
		"new":       summary.New,
		"unchanged": summary.Unchanged,
		"written":   summary.Written,
		"failed":    summary.Failed,
	})
	return summary, errors.Join(errs...)
}

func (r *Runner) enter(summary *Summary, phase Phase) {
	summary.Phase = phase
	r.log.Debug("phase", map[string]any{"run": summary.RunID, "phase": phase.String()})
}

// index enumerates both sides completely before either index is used.
func (r *Runner) index() (*reconcile.Index, *reconcile.Index, error) {
	names, err := r.baseline.Names()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: baseline: %w", ErrSourceUnreadable, err)
	}
	locations, err := r.tree.Walk()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: working tree: %w", ErrSourceUnreadable, err)
	}
	baseline := reconcile.BuildIndex(r.opts.Roots, reconcile.BaselineSide, names)
	working := reconcile.BuildIndex(r.opts.Roots, reconcile.WorkingSide, locations)
	for _, idx := range []*reconcile.Index{baseline, working} {
		r.log.Debug("indexed", map[string]any{"side": idx.Side().String(), "keys": idx.Len()})
	}
	return baseline, working, nil
}

// filter returns the configured filter, with the output directory excluded relative to the working root.
func (r *Runner) filter() reconcile.Filter {
	f := r.opts.Filter
	f.Root = r.tree.Root()
	if r.opts.OutputDir != "" {
		f.OutputDir = pathpkg.Clean(filepath.ToSlash(r.opts.OutputDir))
	}
	return f
}

func (r *Runner) emitSequential(ctx context.Context, entries []reconcile.Entry) []Outcome {
	outcomes := make([]Outcome, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		o := r.emit(entry)
		r.publish(o)
		outcomes = append(outcomes, o)
		if o.Kind == OutcomeFailed && r.opts.FailFast {
			r.log.Warn("stopping after first failure", map[string]any{"remaining": len(entries) - len(outcomes)})
			break
		}
	}
	return outcomes
}

// emitParallel processes entries on up to Workers goroutines. Outcomes are published in entry order once all
// workers finish.
func (r *Runner) emitParallel(ctx context.Context, entries []reconcile.Entry) []Outcome {
	outcomes := make([]Outcome, len(entries))
	for i, entry := range entries {
		outcomes[i] = Outcome{Kind: OutcomeSkipped, Entry: entry}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			o := r.emit(entry)
			outcomes[i] = o
			if o.Kind == OutcomeFailed && r.opts.FailFast {
				return o.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Warn("stopping after first failure", map[string]any{"error": err.Error()})
	}

	done := outcomes[:0]
	for _, o := range outcomes {
		if o.Kind == OutcomeSkipped {
			continue
		}
		r.publish(o)
		done = append(done, o)
	}
	return done
}

func (r *Runner) publish(o Outcome) {
	fields := map[string]any{"key": o.Entry.Key.String(), "outcome": o.Kind.String()}
	switch o.Kind {
	case OutcomeFailed:
		r.log.Error("entry skipped", o.Err, fields)
	case OutcomeWritten:
		fields["destination"] = o.Destination
		r.log.Info("patch written", fields)
	default:
		r.log.Debug("entry processed", fields)
	}
	r.reporter.Report(o)
}

// emit reads, diffs and writes one entry. It touches no state shared with other entries.
func (r *Runner) emit(entry reconcile.Entry) Outcome {
	base, ok := entry.Baseline()
	if !ok {
		return Outcome{Kind: OutcomeNew, Entry: entry}
	}

	fail := func(kind, err error) Outcome {
		return Outcome{Kind: OutcomeFailed, Entry: entry, Err: &EntryError{Key: entry.Key, Kind: kind, Err: err}}
	}

	r.baseMu.Lock()
	baseText, err := source.ReadText(r.baseline, base, r.opts.MaxFileSize)
	r.baseMu.Unlock()
	if err != nil {
		return fail(ErrEntryUnreadable, err)
	}
	workText, err := source.ReadText(r.tree, entry.Working, r.opts.MaxFileSize)
	if err != nil {
		return fail(ErrEntryUnreadable, err)
	}

	a := diff.Split(baseText, r.opts.EOL)
	b := diff.Split(workText, r.opts.EOL)
	patch, changed := diff.NewPatch(base, entry.Working, a, b, r.opts.Context)
	if !changed {
		return Outcome{Kind: OutcomeUnchanged, Entry: entry}
	}
	patch.EOL = r.opts.EOL

	rel, err := r.tree.Rel(entry.Working)
	if err != nil {
		return fail(ErrDestinationUnwritable, err)
	}
	destination, err := r.tree.WriteFile(PatchPath(r.opts.OutputDir, rel), []byte(patch.String()))
	if err != nil {
		return fail(ErrDestinationUnwritable, err)
	}
	return Outcome{Kind: OutcomeWritten, Entry: entry, Destination: destination, Patch: patch}
}

// PatchPath returns where the patch for the working file at rel is written, relative to the working tree.
func PatchPath(outputDir, rel string) string {
	return pathpkg.Join(outputDir, rel) + ".patch"
}
