package ufokit

import "fmt"

// Transform is a 2D affine transformation in the usual font order:
// xScale, xyScale, yxScale, yScale, xOffset, yOffset.
type Transform [6]float64

// Identity is the default transformation.
var Identity = Transform{1, 0, 0, 1, 0, 0}

func (t Transform) IsIdentity() bool { return t.orIdentity() == Identity }

// orIdentity maps the zero Transform to Identity. The zero value is what
// a struct literal gets when it skips the transformation field; it never
// means "collapse everything to the origin".
func (t Transform) orIdentity() Transform {
	if t == (Transform{}) {
		return Identity
	}
	return t
}

// Transforms always serialize as a fixed-length numeric sequence, never as
// a field map.
func (t Transform) MarshalTree(c *Converter) (any, error) {
	t = t.orIdentity()
	out := make([]any, len(t))
	for i, v := range t {
		out[i] = v
	}
	return out, nil
}

func (t *Transform) UnmarshalTree(c *Converter, tree any) error {
	seq, ok := tree.([]any)
	if !ok || len(seq) != len(t) {
		return typeMismatch("", fmt.Sprintf("sequence of %d numbers", len(t)), tree)
	}
	for i, el := range seq {
		switch n := el.(type) {
		case float64:
			t[i] = n
		case int64:
			t[i] = float64(n)
		default:
			return typeMismatch(fmt.Sprintf("[%d]", i), "number", el)
		}
	}
	return nil
}
