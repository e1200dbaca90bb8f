// Package diff computes line-level edit scripts and renders them as unified diffs.
//
// The pipeline is:
//
//	a := diff.Split(oldText, "\n")
//	b := diff.Split(newText, "\n")
//	script := diff.Compute(a, b)
//	hunks := diff.Group(script, 3)
//	patch := diff.Patch{SourceLabel: "old", TargetLabel: "new", Source: a, Target: b, Hunks: hunks}
//	fmt.Print(patch.String())
//
// Invariants:
//   - Every index of a and every index of b appears in exactly one Edit of the script.
//   - Within each run of changes, deletions precede insertions.
//   - Hunks never overlap and appear in ascending source order; the gaps between them are identical lines.
package diff
