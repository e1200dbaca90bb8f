package upgrade

import (
	"fmt"

	"upgrade_diff/internal/diff"
	"upgrade_diff/internal/reconcile"
)

// OutcomeKind is what happened to one entry.
type OutcomeKind int

const (
	OutcomeNew OutcomeKind = iota
	OutcomeUnchanged
	OutcomeWritten
	OutcomeFailed
	// OutcomeSkipped marks entries never processed because the run stopped early.
	OutcomeSkipped
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNew:
		return "new"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeWritten:
		return "written"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the result of emitting one entry.
type Outcome struct {
	Kind        OutcomeKind
	Entry       reconcile.Entry
	Destination string     // set for OutcomeWritten
	Patch       diff.Patch // set for OutcomeWritten
	Err         error      // set for OutcomeFailed
}

// String returns the status line for the outcome.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeNew:
		return "new file: " + o.Entry.Key.String()
	case OutcomeUnchanged:
		return "no differences: " + o.Entry.Key.String()
	case OutcomeWritten:
		return "patch written: " + o.Destination
	case OutcomeFailed:
		return fmt.Sprintf("failed: %s: %v", o.Entry.Key, o.Err)
	default:
		return "skipped: " + o.Entry.Key.String()
	}
}

// Reporter receives one outcome per processed entry, in entry order, from the goroutine calling Run.
type Reporter interface {
	Report(Outcome)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Outcome)

// Report calls f(o).
func (f ReporterFunc) Report(o Outcome) { f(o) }

// Summary counts the outcomes of a run.
type Summary struct {
	RunID     string
	Phase     Phase
	Entries   int
	New       int
	Unchanged int
	Written   int
	Failed    int
	Added     int
	Removed   int
}

func (s *Summary) add(o Outcome) {
	switch o.Kind {
	case OutcomeNew:
		s.New++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeWritten:
		s.Written++
		added, removed := o.Patch.Stats()
		s.Added += added
		s.Removed += removed
	case OutcomeFailed:
		s.Failed++
	}
}
