package diff

import "fmt"

// Op is the kind of an Edit.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

// String returns the string representation of the op.
func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Prefix returns the unified diff marker for the op.
func (o Op) Prefix() byte {
	switch o {
	case OpDelete:
		return '-'
	case OpInsert:
		return '+'
	default:
		return ' '
	}
}

// Edit is one step of an edit script. Src is the index into the source sequence (-1 for inserts) and Dst
// is the index into the target sequence (-1 for deletes).
type Edit struct {
	Op  Op
	Src int
	Dst int
}

// Equal returns an Edit keeping source line src as target line dst.
func Equal(src, dst int) Edit { return Edit{Op: OpEqual, Src: src, Dst: dst} }

// Delete returns an Edit removing source line src.
func Delete(src int) Edit { return Edit{Op: OpDelete, Src: src, Dst: -1} }

// Insert returns an Edit adding target line dst.
func Insert(dst int) Edit { return Edit{Op: OpInsert, Src: -1, Dst: dst} }

func (e Edit) String() string {
	switch e.Op {
	case OpEqual:
		return fmt.Sprintf("Equal(%d,%d)", e.Src, e.Dst)
	case OpDelete:
		return fmt.Sprintf("Delete(%d)", e.Src)
	case OpInsert:
		return fmt.Sprintf("Insert(%d)", e.Dst)
	default:
		return "Unknown"
	}
}

// Script is an ordered edit script from a source sequence to a target sequence.
type Script []Edit

// HasChanges reports whether the script contains any delete or insert.
func (s Script) HasChanges() bool {
	for _, e := range s {
		if e.Op != OpEqual {
			return true
		}
	}
	return false
}

// Stats returns the number of inserted and deleted lines.
func (s Script) Stats() (added int, removed int) {
	for _, e := range s {
		switch e.Op {
		case OpInsert:
			added++
		case OpDelete:
			removed++
		}
	}
	return added, removed
}

// Apply rebuilds the target sequence from source using the script. target supplies the content of
// inserted lines.
func (s Script) Apply(source, target []string) []string {
	out := make([]string, 0, len(target))
	for _, e := range s {
		switch e.Op {
		case OpEqual:
			out = append(out, source[e.Src])
		case OpInsert:
			out = append(out, target[e.Dst])
		}
	}
	return out
}

// Invert returns the script that turns the target back into the source. Deletions still precede insertions
// within each change run.
func (s Script) Invert() Script {
	out := make(Script, 0, len(s))
	for _, e := range s {
		switch e.Op {
		case OpEqual:
			out = append(out, Equal(e.Dst, e.Src))
		case OpDelete:
			out = append(out, Insert(e.Src))
		case OpInsert:
			out = append(out, Delete(e.Dst))
		}
	}
	return canonicalize(out)
}
