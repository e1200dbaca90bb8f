package reconcile

import (
	"regexp"
	"strings"
)

// Filter decides which working locations are reconciliation candidates.
type Filter struct {
	Scope   *regexp.Regexp // matched against the full location; nil accepts all
	Exclude *regexp.Regexp // matched against the root-relative path; nil excludes none

	// Root is the location prefix of the working tree. Exclusions apply below it only.
	Root string
	// OutputDir is the root-relative subtree patches are written to; nothing inside it is a candidate.
	OutputDir string
}

// Accepts reports whether location is in scope and outside the output and excluded subtrees.
func (f Filter) Accepts(location string) bool {
	if f.Scope != nil && !f.Scope.MatchString(location) {
		return false
	}
	rel := f.rel(location)
	if f.OutputDir != "" && (rel == f.OutputDir || strings.HasPrefix(rel, f.OutputDir+"/")) {
		return false
	}
	if f.Exclude != nil && f.Exclude.MatchString(rel) {
		return false
	}
	return true
}

// rel returns location relative to Root, or location itself when it lies outside Root.
func (f Filter) rel(location string) string {
	if f.Root == "" {
		return location
	}
	if rel, ok := strings.CutPrefix(location, strings.TrimSuffix(f.Root, "/")+"/"); ok {
		return rel
	}
	return location
}

// Entry pairs a working file with its baseline counterpart, if it has one.
type Entry struct {
	Key      Key
	Working  string
	baseline string
	modified bool
}

// NewEntry returns an entry for a working file with no baseline counterpart.
func NewEntry(key Key, working string) Entry {
	return Entry{Key: key, Working: working}
}

// ModifiedEntry returns an entry for a working file whose counterpart lives at baseline.
func ModifiedEntry(key Key, baseline, working string) Entry {
	return Entry{Key: key, Working: working, baseline: baseline, modified: true}
}

// Baseline returns the baseline location. ok is false for new files.
func (e Entry) Baseline() (location string, ok bool) {
	return e.baseline, e.modified
}

// IsNew reports whether the working file has no baseline counterpart.
func (e Entry) IsNew() bool {
	return !e.modified
}

// Reconcile walks working in scan order and pairs every location the filter accepts with the baseline
// location recorded under the same key.
func Reconcile(baseline, working *Index, filter Filter) []Entry {
	var entries []Entry
	for _, found := range working.Scanned() {
		if !filter.Accepts(found.Location) {
			continue
		}
		if base, ok := baseline.Lookup(found.Key); ok {
			entries = append(entries, ModifiedEntry(found.Key, base, found.Location))
		} else {
			entries = append(entries, NewEntry(found.Key, found.Location))
		}
	}
	return entries
}
