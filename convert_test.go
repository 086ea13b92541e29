package ufokit

import (
	"errors"
	"testing"
)

func dict(pairs ...any) *Dict {
	d := NewDict()
	for i := 0; i < len(pairs); i += 2 {
		d.Set(pairs[i].(string), pairs[i+1])
	}
	return d
}

func TestDestructureShapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		out  any
	}{
		{"anchor defaults", &Anchor{}, dict("x", 0.0, "y", 0.0)},
		{"anchor", &Anchor{X: 1, Y: 2, Name: "top"}, dict("x", 1.0, "y", 2.0, "name", "top")},
		{"point", &Point{X: 1, Y: 2, Type: "line"}, dict("x", 1.0, "y", 2.0, "type", "line")},
		{"point smooth", &Point{Type: "curve", Smooth: true},
			dict("x", 0.0, "y", 0.0, "type", "curve", "smooth", true)},
		{"component identity omitted", &Component{BaseGlyph: "a"}, dict("baseGlyph", "a")},
		{"component offset", &Component{BaseGlyph: "a", Transformation: Transform{1, 0, 0, 1, 10, 0}},
			dict("baseGlyph", "a", "transformation", []any{1.0, 0.0, 0.0, 1.0, 10.0, 0.0})},
		{"guideline", &Guideline{Y: Float(500), Name: "x-height"},
			dict("y", 500.0, "name", "x-height")},
		{"empty glyph", NewGlyph("a"), dict("name", "a")},
		{"glyph with unicodes", &Glyph{Name: "a", Width: 250, Unicodes: []int{97}, Image: NewImage()},
			dict("name", "a", "width", 250.0, "unicodes", []any{int64(97)})},
		{"kerning", Kerning{"a": {"b": -10}}, dict("a", dict("b", -10.0))},
		{"groups", Groups{"LOWERCASE": {"a"}}, dict("LOWERCASE", []any{"a"})},
		{"features", Features{Text: "languagesystem DFLT dflt;"}, "languagesystem DFLT dflt;"},
		{"info", &Info{FamilyName: "Test", VersionMajor: Int(2), UnitsPerEm: Float(1000),
			Guidelines: []Guideline{{Y: Float(500), Name: "x-height"}},
			OpenTypeGaspRangeRecords: []GaspRangeRecord{
				{RangeMaxPPEM: 18, RangeGaspBehavior: []GaspBehavior{GaspSymmetricSmoothing}},
			},
			OpenTypeOS2WidthClass: widthClass(NormalWidth)},
			dict("familyName", "Test", "versionMajor", int64(2), "unitsPerEm", 1000.0,
				"guidelines", []any{dict("y", 500.0, "name", "x-height")},
				"openTypeGaspRangeRecords", []any{dict("rangeMaxPPEM", int64(18), "rangeGaspBehavior", []any{int64(3)})},
				"openTypeOS2WidthClass", int64(5))},
		{"empty layer", NewLayer(""), dict("name", "public.default")},
		{"empty layer set", NewLayerSet(), dict("layers", []any{dict("name", "public.default")})},
		{"empty font", NewFont(), dict("layers", []any{dict("name", "public.default")})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := JSONConverter.Destructure(tt.in)
			ok(t, err)
			treesEqual(t, tree, tt.out)
		})
	}
}

func widthClass(w WidthClass) *WidthClass { return &w }

func TestZeroTransformReadsAsIdentity(t *testing.T) {
	eq(t, Transform{}.IsIdentity(), true)

	lit, err := JSONConverter.Destructure(&Component{BaseGlyph: "a"})
	ok(t, err)
	made, err := JSONConverter.Destructure(&Component{BaseGlyph: "a", Transformation: Identity})
	ok(t, err)
	treesEqual(t, lit, made)
	treesEqual(t, lit, dict("baseGlyph", "a"))

	// Same for a glyph literal that skips the image field entirely.
	tree, err := JSONConverter.Destructure(&Glyph{Name: "x"})
	ok(t, err)
	treesEqual(t, tree, dict("name", "x"))
}

func TestDestructureLayerWithContent(t *testing.T) {
	l := NewLayer("foreground")
	_, err := l.NewGlyph("a")
	ok(t, err)
	_, err = l.NewGlyph("b")
	ok(t, err)
	l.Color = "1,0,1,1"
	l.Lib = Lib{"foobar": 0.1}
	tree, err := JSONConverter.Destructure(l)
	ok(t, err)
	treesEqual(t, tree, dict(
		"name", "foreground",
		"glyphs", []any{dict("name", "a"), dict("name", "b")},
		"color", "1,0,1,1",
		"lib", dict("foobar", 0.1),
	))
}

func TestDestructureFontWithContent(t *testing.T) {
	f := NewFont()
	_, err := f.NewGlyph("a")
	ok(t, err)
	f.Info.FamilyName = "Test"
	f.Features.Text = "languagesystem DFLT dflt;"
	f.Groups["LOWERCASE"] = []string{"a"}
	f.Kerning.Set("a", "a", 10)
	f.Lib["foo"] = "bar"
	f.Data.Set("baz", []byte{0})
	f.Images.Set("foobarbaz", []byte{0})

	tree, err := JSONConverter.Destructure(f)
	ok(t, err)
	envelope := dict("type", "data", "data", "00", "encoding", "base85")
	treesEqual(t, tree, dict(
		"layers", []any{dict("name", "public.default", "glyphs", []any{dict("name", "a")})},
		"info", dict("familyName", "Test"),
		"features", "languagesystem DFLT dflt;",
		"groups", dict("LOWERCASE", []any{"a"}),
		"kerning", dict("a", dict("a", 10.0)),
		"lib", dict("foo", "bar"),
		"data", dict("baz", envelope),
		"images", dict("foobarbaz", envelope),
	))
}

func TestDestructureNonDefaultLayerSet(t *testing.T) {
	ls := NewLayerSet()
	ok(t, ls.RenameLayer(DefaultLayerName, "foreground", false))
	_, err := ls.NewLayer("background")
	ok(t, err)
	tree, err := JSONConverter.Destructure(ls)
	ok(t, err)
	treesEqual(t, tree, dict(
		"layers", []any{dict("name", "foreground"), dict("name", "background")},
		"defaultLayerName", "foreground",
	))
}

func TestStructureRoundTrip(t *testing.T) {
	g := NewGlyph("a")
	g.Width = 250
	g.Unicodes = []int{97}
	g.Anchors = []Anchor{{X: 1, Y: 2, Name: "top"}}
	g.Contours = []Contour{{Points: []Point{
		{X: 0, Y: 0, Type: "move"},
		{X: 10, Y: 10, Type: "line"},
	}}}
	g.Components = []Component{NewComponent("b")}
	g.Lib = Lib{"key": int64(7)}

	tree, err := JSONConverter.Destructure(g)
	ok(t, err)
	back := NewGlyph("")
	ok(t, JSONConverter.Structure(tree, back))
	deepEqual(t, back, g)
}

func TestStructureDefaults(t *testing.T) {
	var c Component
	ok(t, JSONConverter.Structure(dict("baseGlyph", "a"), &c))
	eq(t, c.BaseGlyph, "a")
	eq(t, c.Transformation, Identity)
}

func TestStructureNumberPolicy(t *testing.T) {
	var a Anchor
	// Integral input into float fields.
	ok(t, JSONConverter.Structure(dict("x", int64(1), "y", int64(2)), &a))
	eq(t, a.X, 1.0)
	eq(t, a.Y, 2.0)

	var g Glyph
	// Integral float input into int fields.
	ok(t, JSONConverter.Structure(dict("name", "a", "unicodes", []any{97.0}), &g))
	deepEqual(t, g.Unicodes, []int{97})
	if err := JSONConverter.Structure(dict("name", "a", "unicodes", []any{97.5}), &g); err == nil {
		t.Errorf("expected error for fractional code point")
	}
}

func TestStructureMissingRequired(t *testing.T) {
	var a Anchor
	err := JSONConverter.Structure(dict("x", 1.0), &a)
	var missing *MissingRequiredFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, wanted MissingRequiredFieldError", err)
	}
	eq(t, missing.Field, "y")
}

func TestStructureUnknownKeys(t *testing.T) {
	var a Anchor
	err := JSONConverter.Structure(dict("x", 1.0, "y", 2.0, "bogus", true), &a)
	var unexpected *UnexpectedFieldError
	if !errors.As(err, &unexpected) {
		t.Fatalf("err = %v, wanted UnexpectedFieldError", err)
	}
	eq(t, unexpected.Field, "bogus")

	permissive := NewConverter(ConverterOptions{OmitDefaults: true, AllowExtraKeys: true})
	ok(t, permissive.Structure(dict("x", 1.0, "y", 2.0, "bogus", true), &a))
	eq(t, a.X, 1.0)
}

func TestStructureTypeMismatchPath(t *testing.T) {
	var g Glyph
	err := JSONConverter.Structure(dict("name", "a", "anchors", []any{dict("x", "nope", "y", 2.0)}), &g)
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, wanted TypeMismatchError", err)
	}
	eq(t, mismatch.Path, ".anchors[0].x")
}

func TestBytesEnvelope(t *testing.T) {
	// Textual leaf: base85 envelope.
	node := JSONConverter.EncodeBytes([]byte("bar"))
	treesEqual(t, node, dict("type", "data", "data", "VqtO", "encoding", "base85"))
	decoded, err := JSONConverter.DecodeBytes(node)
	ok(t, err)
	deepEqual(t, decoded, []byte("bar"))

	// Binary leaf: raw bytes.
	node = BinaryConverter.EncodeBytes([]byte("bar"))
	deepEqual(t, node.([]byte), []byte("bar"))

	// Either converter accepts either leaf form.
	decoded, err = BinaryConverter.DecodeBytes(dict("type", "data", "data", "VqtO", "encoding", "base85"))
	ok(t, err)
	deepEqual(t, decoded, []byte("bar"))
	decoded, err = JSONConverter.DecodeBytes([]byte("raw"))
	ok(t, err)
	deepEqual(t, decoded, []byte("raw"))
}

func TestLibNestedBytes(t *testing.T) {
	lib := Lib{
		"blob":   []byte{0, 1, 2},
		"nested": map[string]any{"inner": []byte("bar")},
		"seq":    []any{[]byte("a")},
	}
	tree, err := lib.MarshalTree(JSONConverter)
	ok(t, err)
	var back Lib
	ok(t, back.UnmarshalTree(JSONConverter, tree))
	deepEqual(t, back, lib)
}

func TestDestructureUnregisteredType(t *testing.T) {
	type stranger struct{ A int }
	_, err := JSONConverter.Destructure(stranger{})
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, wanted UnsupportedTypeError", err)
	}
}
