package ufokit

import (
	"fmt"
	"sort"
)

// Lib maps string keys to arbitrary plist-style data: nil, bool, int64,
// float64, string, []byte, []any, map[string]any or nested Lib. Byte
// values anywhere inside a lib round-trip through text formats via the
// binary-data envelope.
type Lib map[string]any

// Copy returns a deep copy.
func (l Lib) Copy() Lib {
	if l == nil {
		return nil
	}
	out := make(Lib, len(l))
	for k, v := range l {
		out[k] = copyLibValue(v)
	}
	return out
}

func copyLibValue(v any) any {
	switch v := v.(type) {
	case []byte:
		return append([]byte(nil), v...)
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = copyLibValue(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, el := range v {
			out[k] = copyLibValue(el)
		}
		return out
	case Lib:
		return v.Copy()
	default:
		return v
	}
}

// MarshalTree emits the lib with keys sorted, encoding byte values per
// the converter's leaf rules at any nesting depth.
func (l Lib) MarshalTree(c *Converter) (any, error) {
	return marshalLibMap(c, map[string]any(l), "")
}

func marshalLibMap(c *Converter, m map[string]any, path string) (any, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	d := NewDict()
	for _, k := range keys {
		node, err := marshalLibValue(c, m[k], path+"."+k)
		if err != nil {
			return nil, err
		}
		d.Set(k, node)
	}
	return d, nil
}

func marshalLibValue(c *Converter, v any, path string) (any, error) {
	switch v := v.(type) {
	case nil, bool, int64, float64, string:
		return v, nil
	case int:
		return int64(v), nil
	case []byte:
		return c.EncodeBytes(v), nil
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			node, err := marshalLibValue(c, el, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil
	case map[string]any:
		return marshalLibMap(c, v, path)
	case Lib:
		return marshalLibMap(c, map[string]any(v), path)
	default:
		return nil, unsupportedType(path, v)
	}
}

// UnmarshalTree rebuilds the lib, decoding binary-data envelopes back
// into byte values at any nesting depth.
func (l *Lib) UnmarshalTree(c *Converter, tree any) error {
	d, ok := tree.(*Dict)
	if !ok {
		return typeMismatch("", "mapping", tree)
	}
	out := make(Lib, d.Len())
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		el, err := unmarshalLibValue(c, v, "."+k)
		if err != nil {
			return err
		}
		out[k] = el
	}
	*l = out
	return nil
}

func unmarshalLibValue(c *Converter, tree any, path string) (any, error) {
	switch v := tree.(type) {
	case nil, bool, int64, float64, string:
		return v, nil
	case []byte:
		return append([]byte(nil), v...), nil
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			node, err := unmarshalLibValue(c, el, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil
	case *Dict:
		if isDataEnvelope(v) {
			return c.decodeBytes(v, path)
		}
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			el, _ := v.Get(k)
			node, err := unmarshalLibValue(c, el, path+"."+k)
			if err != nil {
				return nil, err
			}
			out[k] = node
		}
		return out, nil
	default:
		return nil, typeMismatch(path, "plist value", tree)
	}
}
