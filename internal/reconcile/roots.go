package reconcile

import "strings"

// Root is a named source root and its marker fragment on each side.
type Root struct {
	Name     string
	Baseline string
	Working  string
}

// Side selects which marker of a Root is matched.
type Side int

const (
	BaselineSide Side = iota
	WorkingSide
)

func (s Side) String() string {
	if s == WorkingSide {
		return "working"
	}
	return "baseline"
}

func (r Root) prefix(side Side) string {
	if side == WorkingSide {
		return r.Working
	}
	return r.Baseline
}

// Key is the root-relative path used to correlate a working file with its baseline counterpart.
type Key struct {
	Root string
	Path string
}

func (k Key) String() string {
	return k.Root + ":" + k.Path
}

// match returns the key of location under the first root (in table order) whose marker it contains. Roots
// with an empty marker never match.
func match(roots []Root, side Side, location string) (Key, bool) {
	for _, root := range roots {
		prefix := root.prefix(side)
		if prefix == "" {
			continue
		}
		idx := strings.Index(location, prefix)
		if idx == -1 {
			continue
		}
		return Key{Root: root.Name, Path: location[idx+len(prefix):]}, true
	}
	return Key{}, false
}

// DefaultRoots returns the six portal source roots and the extension-plugin directories that shadow them.
func DefaultRoots() []Root {
	return []Root{
		{Name: "impl", Baseline: "portal-impl/src/", Working: "ext-impl/src/"},
		{Name: "service", Baseline: "portal-service/src/", Working: "ext-service/src/"},
		{Name: "web", Baseline: "portal-web/docroot/", Working: "ext-web/docroot/"},
		{Name: "util-bridges", Baseline: "util-bridges/src/", Working: "ext-util-bridges/src/"},
		{Name: "util-java", Baseline: "util-java/src/", Working: "ext-util-java/src/"},
		{Name: "util-taglib", Baseline: "util-taglib/src/", Working: "ext-util-taglib/src/"},
	}
}
