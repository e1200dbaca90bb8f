// Package upgrade drives a reconciliation run.
//
// A Runner moves through four phases:
//
//	Indexing -> Reconciling -> Emitting -> Done
//
// Indexing enumerates the baseline and the working tree and indexes both with the same root table; a side
// that cannot be enumerated ends the run with ErrSourceUnreadable. Reconciling pairs in-scope working files
// with baseline files. Emitting handles every entry independently: new files and unchanged files are
// reported, changed files get a unified diff written to <output dir>/<working path>.patch in the working
// tree. Entries that cannot be read or written are reported and skipped unless FailFast is set.
package upgrade
