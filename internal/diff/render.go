package diff

import (
	"fmt"
	"io"
	"strings"
)

// Patch is a renderable unified diff document.
type Patch struct {
	SourceLabel string
	TargetLabel string
	Source      []string // lines referenced by Edit.Src
	Target      []string // lines referenced by Edit.Dst
	Hunks       []Hunk
	EOL         string // terminator written after every line; DefaultEOL when empty
}

// NewPatch diffs source against target and groups the result with context lines. The returned bool is
// false when the sequences are identical; the patch then has no hunks.
func NewPatch(sourceLabel, targetLabel string, source, target []string, context int) (Patch, bool) {
	p := Patch{SourceLabel: sourceLabel, TargetLabel: targetLabel, Source: source, Target: target}
	if Same(source, target) {
		return p, false
	}
	p.Hunks = Group(Compute(source, target), context)
	return p, len(p.Hunks) > 0
}

// Render writes the patch in unified diff format to w.
func (p Patch) Render(w io.Writer) error {
	_, err := io.WriteString(w, p.String())
	return err
}

// String returns the patch in unified diff format. The output depends only on the patch contents.
func (p Patch) String() string {
	eol := p.EOL
	if eol == "" {
		eol = DefaultEOL
	}

	var sb strings.Builder
	sb.WriteString("--- " + p.SourceLabel + eol)
	sb.WriteString("+++ " + p.TargetLabel + eol)
	for _, h := range p.Hunks {
		sb.WriteString(h.Header())
		sb.WriteString(eol)
		for _, e := range h.Edits {
			sb.WriteByte(e.Op.Prefix())
			if e.Op == OpInsert {
				sb.WriteString(p.Target[e.Dst])
			} else {
				sb.WriteString(p.Source[e.Src])
			}
			sb.WriteString(eol)
		}
	}
	return sb.String()
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk. Starts are 1-based; an empty span reports the line
// preceding it, so an insertion at the top of a file reads "-0,0".
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", rangeStart(h.SrcStart, h.SrcCount), h.SrcCount, rangeStart(h.DstStart, h.DstCount), h.DstCount)
}

func rangeStart(start, count int) int {
	if count == 0 {
		return start
	}
	return start + 1
}

// Stats returns the number of inserted and deleted lines across all hunks.
func (p Patch) Stats() (added int, removed int) {
	for _, h := range p.Hunks {
		a, r := h.Stats()
		added += a
		removed += r
	}
	return added, removed
}
