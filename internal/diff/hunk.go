package diff

// DefaultContext is the conventional number of unchanged lines shown around each change.
const DefaultContext = 3

// Hunk is a contiguous slice of an edit script with up to N lines of context on each side.
//
// SrcStart and DstStart are 0-based offsets of the first line the hunk covers in each sequence; when a span
// is empty they are the number of lines preceding it.
type Hunk struct {
	SrcStart int
	SrcCount int
	DstStart int
	DstCount int
	Edits    []Edit
}

// Group splits script into hunks carrying context lines of unchanged context. A run of equal edits between
// two changes longer than 2*context separates hunks; leading and trailing runs are cut to context lines.
// A script without changes yields no hunks.
func Group(script Script, context int) []Hunk {
	context = max(0, context)

	// srcPos[i] and dstPos[i] are the number of source/target lines consumed before script[i].
	srcPos := make([]int, len(script)+1)
	dstPos := make([]int, len(script)+1)
	for i, e := range script {
		srcPos[i+1], dstPos[i+1] = srcPos[i], dstPos[i]
		if e.Op != OpInsert {
			srcPos[i+1]++
		}
		if e.Op != OpDelete {
			dstPos[i+1]++
		}
	}

	var hunks []Hunk
	i := 0
	for i < len(script) {
		for i < len(script) && script[i].Op == OpEqual {
			i++
		}
		if i == len(script) {
			break
		}

		start := max(0, i-context)
		end := i
		for {
			for end < len(script) && script[end].Op != OpEqual {
				end++
			}
			next := end
			for next < len(script) && script[next].Op == OpEqual {
				next++
			}
			if next == len(script) || next-end > 2*context {
				break
			}
			end = next
		}
		stop := min(end+context, len(script))

		hunks = append(hunks, Hunk{
			SrcStart: srcPos[start],
			SrcCount: srcPos[stop] - srcPos[start],
			DstStart: dstPos[start],
			DstCount: dstPos[stop] - dstPos[start],
			Edits:    script[start:stop:stop],
		})
		i = stop
	}

	return hunks
}

// Stats returns the number of inserted and deleted lines in the hunk.
func (h Hunk) Stats() (added int, removed int) {
	return Script(h.Edits).Stats()
}
