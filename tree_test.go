package ufokit

import "testing"

func TestDictOrder(t *testing.T) {
	d := NewDict()
	d.Set("b", 1)
	d.Set("a", 2)
	d.Set("c", 3)
	deepEqual(t, d.Keys(), []string{"b", "a", "c"})

	// Replacing keeps the original position.
	d.Set("a", 42)
	deepEqual(t, d.Keys(), []string{"b", "a", "c"})
	v, present := d.Get("a")
	eq(t, present, true)
	eq(t, v.(int), 42)
	eq(t, d.Len(), 3)
}

func TestDictMarshalJSON(t *testing.T) {
	d := NewDict()
	d.Set("z", int64(1))
	d.Set("a", "two")
	inner := NewDict()
	inner.Set("k", true)
	d.Set("m", inner)
	data, err := d.MarshalJSON()
	ok(t, err)
	eq(t, string(data), `{"z":1,"a":"two","m":{"k":true}}`)
}

func TestTreeEqual(t *testing.T) {
	a := NewDict()
	a.Set("x", int64(1))
	b := NewDict()
	b.Set("x", int64(1))
	eq(t, treeEqual(a, b), true)

	// Same entries, different order: not equal.
	c := NewDict()
	c.Set("y", int64(2))
	c.Set("x", int64(1))
	d := NewDict()
	d.Set("x", int64(1))
	d.Set("y", int64(2))
	eq(t, treeEqual(c, d), false)

	// Numeric kinds must match exactly.
	eq(t, treeEqual(int64(1), float64(1)), false)
	eq(t, treeEqual([]any{"a"}, []any{"a"}), true)
	eq(t, treeEqual([]byte("ab"), []byte("ab")), true)
	eq(t, treeEqual([]byte("ab"), "ab"), false)
}
