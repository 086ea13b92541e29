package ufokit

import (
	"bytes"
	"encoding/json"
	"sort"
)

// A serializable tree is the contract surface between the structuring
// engine and every format adapter. Tree values are one of:
//
//   - nil
//   - bool, int64, float64, string
//   - []byte (only when the converter allows raw bytes)
//   - []any (ordered sequence)
//   - *Dict (string-keyed mapping, insertion order preserved)

// Dict is a string-keyed mapping that preserves insertion order, so that
// repeated destructuring of an unchanged entity yields identical output.
type Dict struct {
	keys   []string
	values map[string]any
}

func NewDict() *Dict {
	return &Dict{values: make(map[string]any)}
}

// Set inserts or replaces a key. A replaced key keeps its original position.
func (d *Dict) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

func (d *Dict) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

func (d *Dict) Contains(key string) bool {
	_, ok := d.values[key]
	return ok
}

func (d *Dict) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order. The slice is shared; do not
// modify it.
func (d *Dict) Keys() []string { return d.keys }

// MarshalJSON writes the dict as a JSON object with keys in insertion
// order.
func (d *Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// dictFromSortedMap builds a Dict from a Go map with keys sorted, giving
// dynamic maps a deterministic external order.
func dictFromSortedKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}

// treeEqual compares two trees structurally. Numeric kinds must match
// exactly; this is used by tests and by omit-if-default checks on trees.
func treeEqual(a, b any) bool {
	switch av := a.(type) {
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.keys {
			if bv.keys[i] != k {
				return false
			}
			if !treeEqual(av.values[k], bv.values[k]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !treeEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	default:
		return a == b
	}
}
