package ufokit

// Kerning maps a (first, second) glyph or group name pair to an
// adjustment in font units. Externally it nests second names under
// first names, both levels sorted.
type Kerning map[string]map[string]float64

// Get returns the adjustment for a pair, or 0 if none is set.
func (k Kerning) Get(first, second string) float64 {
	return k[first][second]
}

// Lookup returns the adjustment for a pair and whether it is set.
func (k Kerning) Lookup(first, second string) (float64, bool) {
	v, ok := k[first][second]
	return v, ok
}

// Set records an adjustment for a pair, creating the inner map as needed.
func (k Kerning) Set(first, second string, value float64) {
	inner := k[first]
	if inner == nil {
		inner = make(map[string]float64)
		k[first] = inner
	}
	inner[second] = value
}

// Delete removes a pair; an emptied inner map is removed too.
func (k Kerning) Delete(first, second string) {
	inner, ok := k[first]
	if !ok {
		return
	}
	delete(inner, second)
	if len(inner) == 0 {
		delete(k, first)
	}
}

// Copy returns a deep copy.
func (k Kerning) Copy() Kerning {
	if k == nil {
		return nil
	}
	out := make(Kerning, len(k))
	for first, inner := range k {
		m := make(map[string]float64, len(inner))
		for second, v := range inner {
			m[second] = v
		}
		out[first] = m
	}
	return out
}

// Groups maps a group name to its member glyph names.
type Groups map[string][]string

// Copy returns a deep copy.
func (g Groups) Copy() Groups {
	if g == nil {
		return nil
	}
	out := make(Groups, len(g))
	for name, members := range g {
		out[name] = append([]string(nil), members...)
	}
	return out
}
