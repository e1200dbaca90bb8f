package diff

import "slices"

// Same reports whether a and b hold identical lines. It is the fast path for "no differences".
func Same(a, b []string) bool {
	return slices.Equal(a, b)
}

// Compute returns a shortest edit script from a to b: the number of deletes plus inserts is
// len(a)+len(b)-2*LCS(a,b). Common prefix and suffix lines are peeled off before the Myers search runs on
// the remainder, so large near-identical inputs stay cheap. Among minimal scripts, deletions are placed
// before insertions within every change run.
func Compute(a, b []string) Script {
	script := make(Script, 0, max(len(a), len(b)))
	if Same(a, b) {
		for i := range a {
			script = append(script, Equal(i, i))
		}
		return script
	}

	prefix := commonPrefix(a, b)
	suffix := commonSuffix(a[prefix:], b[prefix:])

	for i := 0; i < prefix; i++ {
		script = append(script, Equal(i, i))
	}

	midA := a[prefix : len(a)-suffix]
	midB := b[prefix : len(b)-suffix]
	for _, e := range myers(midA, midB) {
		switch e.Op {
		case OpEqual:
			script = append(script, Equal(e.Src+prefix, e.Dst+prefix))
		case OpDelete:
			script = append(script, Delete(e.Src+prefix))
		case OpInsert:
			script = append(script, Insert(e.Dst+prefix))
		}
	}

	for i := 0; i < suffix; i++ {
		script = append(script, Equal(len(a)-suffix+i, len(b)-suffix+i))
	}

	return canonicalize(script)
}

func commonPrefix(a, b []string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func commonSuffix(a, b []string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[len(a)-1-i] != b[len(b)-1-i] {
			return i
		}
	}
	return n
}

// myers runs the greedy forward search over diagonals k = x - y. trace[d] holds the furthest x reached on
// each diagonal -d..d after d edits, indexed by k+d.
func myers(a, b []string) Script {
	n, m := len(a), len(b)
	switch {
	case n == 0:
		script := make(Script, 0, m)
		for j := 0; j < m; j++ {
			script = append(script, Insert(j))
		}
		return script
	case m == 0:
		script := make(Script, 0, n)
		for i := 0; i < n; i++ {
			script = append(script, Delete(i))
		}
		return script
	}

	limit := n + m
	v := make([]int, 2*limit+2)
	var trace [][]int

search:
	for d := 0; d <= limit; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[limit+k-1] < v[limit+k+1]) {
				x = v[limit+k+1]
			} else {
				x = v[limit+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[limit+k] = x
			if x >= n && y >= m {
				trace = append(trace, slices.Clone(v[limit-d:limit+d+1]))
				break search
			}
		}
		trace = append(trace, slices.Clone(v[limit-d:limit+d+1]))
	}

	return backtrack(a, b, trace)
}

func backtrack(a, b []string, trace [][]int) Script {
	x, y := len(a), len(b)
	reversed := make(Script, 0, x+y)

	for d := len(trace) - 1; d > 0; d-- {
		prev := trace[d-1]
		k := x - y

		var prevK int
		if k == -d || (k != d && prev[k-1+d-1] < prev[k+1+d-1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := prev[prevK+d-1]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			reversed = append(reversed, Equal(x, y))
		}
		if x == prevX {
			y--
			reversed = append(reversed, Insert(y))
		} else {
			x--
			reversed = append(reversed, Delete(x))
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		reversed = append(reversed, Equal(x, y))
	}

	slices.Reverse(reversed)
	return reversed
}

// canonicalize reorders every maximal run of non-equal edits so deletions come first. Relative order among
// deletions and among insertions is preserved, so the script stays valid and minimal.
func canonicalize(script Script) Script {
	for i := 0; i < len(script); {
		if script[i].Op == OpEqual {
			i++
			continue
		}
		j := i
		for j < len(script) && script[j].Op != OpEqual {
			j++
		}
		slices.SortStableFunc(script[i:j], func(p, q Edit) int {
			return opRank(p.Op) - opRank(q.Op)
		})
		i = j
	}
	return script
}

func opRank(op Op) int {
	if op == OpDelete {
		return 0
	}
	return 1
}
