// Package reconcile pairs working-tree files with their baseline counterparts.
//
// Both sides are indexed with the same table of named roots. A Root names a source tree and gives the path
// fragment that marks it on each side (for example "portal-impl/src/" in the baseline archive and
// "ext-impl/src/" in the working tree). The part of a location after the first occurrence of that fragment
// is the source key shared by both sides.
//
// Indexes are built once, never mutated afterwards, and hold no I/O state.
package reconcile
