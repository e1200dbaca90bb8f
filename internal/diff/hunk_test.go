package diff

import (
	"math/rand"
	"slices"
	"testing"
)

func TestGroup(t *testing.T) {
	letters := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	replaced := func(at ...int) []string {
		out := slices.Clone(letters)
		for _, i := range at {
			out[i] = "X" + out[i]
		}
		return out
	}

	tests := []struct {
		name    string
		a       []string
		b       []string
		context int
		headers []string
	}{
		{
			name:    "no changes",
			a:       letters,
			b:       letters,
			context: 3,
			headers: nil,
		},
		{
			name:    "single replace with one line of context",
			a:       []string{"a", "b", "c"},
			b:       []string{"a", "x", "c"},
			context: 1,
			headers: []string{"@@ -1,3 +1,3 @@"},
		},
		{
			name:    "leading context truncated",
			a:       letters,
			b:       replaced(9),
			context: 3,
			headers: []string{"@@ -7,4 +7,4 @@"},
		},
		{
			name:    "gap of exactly 2N stays in one hunk",
			a:       letters,
			b:       replaced(1, 4),
			context: 1,
			headers: []string{"@@ -1,6 +1,6 @@"},
		},
		{
			name:    "gap longer than 2N splits",
			a:       letters,
			b:       replaced(1, 8),
			context: 1,
			headers: []string{"@@ -1,3 +1,3 @@", "@@ -8,3 +8,3 @@"},
		},
		{
			name:    "zero context",
			a:       letters,
			b:       replaced(1, 3),
			context: 0,
			headers: []string{"@@ -2,1 +2,1 @@", "@@ -4,1 +4,1 @@"},
		},
		{
			name:    "insert into empty",
			a:       []string{},
			b:       []string{"new"},
			context: 3,
			headers: []string{"@@ -0,0 +1,1 @@"},
		},
		{
			name:    "delete everything",
			a:       []string{"a", "b"},
			b:       []string{},
			context: 3,
			headers: []string{"@@ -1,2 +0,0 @@"},
		},
		{
			name:    "pure insert after first line",
			a:       []string{"a"},
			b:       []string{"a", "b"},
			context: 0,
			headers: []string{"@@ -1,0 +2,1 @@"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hunks := Group(Compute(tt.a, tt.b), tt.context)
			var headers []string
			for _, h := range hunks {
				headers = append(headers, h.Header())
			}
			if !slices.Equal(headers, tt.headers) {
				t.Fatalf("headers = %q, want %q", headers, tt.headers)
			}
		})
	}
}

func TestGroupReconstructsBothSides(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for iter := 0; iter < 300; iter++ {
		a := randomLines(rng, rng.Intn(40))
		b := mutate(rng, a)
		context := rng.Intn(4)

		hunks := Group(Compute(a, b), context)
		gotA, gotB := reconstruct(t, hunks, a, b)
		if !slices.Equal(gotA, a) {
			t.Fatalf("source reconstruction = %q, want %q", gotA, a)
		}
		if !slices.Equal(gotB, b) {
			t.Fatalf("target reconstruction = %q, want %q", gotB, b)
		}
	}
}

// reconstruct rebuilds both sequences from hunks, filling the gaps between them with the identical lines
// they imply.
func reconstruct(t *testing.T, hunks []Hunk, a, b []string) ([]string, []string) {
	t.Helper()
	var outA, outB []string
	srcCursor, dstCursor := 0, 0
	for _, h := range hunks {
		if h.SrcStart < srcCursor || h.DstStart < dstCursor {
			t.Fatalf("hunk %s overlaps previous hunk", h.Header())
		}
		if h.SrcStart-srcCursor != h.DstStart-dstCursor {
			t.Fatalf("gap before %s differs between sides", h.Header())
		}
		outA = append(outA, a[srcCursor:h.SrcStart]...)
		outB = append(outB, a[srcCursor:h.SrcStart]...)

		var srcCount, dstCount int
		for _, e := range h.Edits {
			switch e.Op {
			case OpEqual:
				outA = append(outA, a[e.Src])
				outB = append(outB, a[e.Src])
				srcCount++
				dstCount++
			case OpDelete:
				outA = append(outA, a[e.Src])
				srcCount++
			case OpInsert:
				outB = append(outB, b[e.Dst])
				dstCount++
			}
		}
		if srcCount != h.SrcCount || dstCount != h.DstCount {
			t.Fatalf("hunk %s counts (%d, %d) do not match edits", h.Header(), srcCount, dstCount)
		}
		srcCursor = h.SrcStart + h.SrcCount
		dstCursor = h.DstStart + h.DstCount
	}
	if len(a)-srcCursor != len(b)-dstCursor {
		t.Fatalf("trailing gap differs between sides")
	}
	outA = append(outA, a[srcCursor:]...)
	outB = append(outB, a[srcCursor:]...)
	return outA, outB
}
