package reconcile

// Index maps (root, key) to the location a scan found it at. Every matched location is kept in scan order,
// so a side may hold several locations for one key (two plugins overriding the same file).
type Index struct {
	side      Side
	locations map[Key]string
	scanned   []Located
}

// Located is a location and the key it was indexed under.
type Located struct {
	Key      Key
	Location string
}

// BuildIndex indexes every location that contains one of the roots' markers for side. Locations matching
// no root are skipped. When two locations share a key, Lookup returns the later one.
func BuildIndex(roots []Root, side Side, locations []string) *Index {
	idx := &Index{
		side:      side,
		locations: make(map[Key]string),
	}
	for _, location := range locations {
		key, ok := match(roots, side, location)
		if !ok {
			continue
		}
		idx.locations[key] = location
		idx.scanned = append(idx.scanned, Located{Key: key, Location: location})
	}
	return idx
}

// Side returns the side the index was built for.
func (idx *Index) Side() Side {
	return idx.side
}

// Lookup returns the location recorded for key.
func (idx *Index) Lookup(key Key) (string, bool) {
	location, ok := idx.locations[key]
	return location, ok
}

// Len returns the number of distinct keys in the index.
func (idx *Index) Len() int {
	return len(idx.locations)
}

// Scanned returns every indexed location in scan order.
func (idx *Index) Scanned() []Located {
	out := make([]Located, len(idx.scanned))
	copy(out, idx.scanned)
	return out
}
