package ufokit

import (
	"errors"
	"testing"
)

func buildTestFont(t testing.TB) *Font {
	t.Helper()
	f := NewFont()
	g, err := f.NewGlyph("a")
	ok(t, err)
	g.Width = 250
	g.Unicodes = []int{97}
	g.Anchors = []Anchor{{X: 125, Y: 500, Name: "top"}}
	g.Contours = []Contour{{Points: []Point{
		{X: 0, Y: 0, Type: "line"},
		{X: 250, Y: 0, Type: "line"},
		{X: 125, Y: 500, Type: "line"},
	}}}
	_, err = f.NewGlyph("b")
	ok(t, err)

	bg, err := f.Layers.NewLayer("background")
	ok(t, err)
	_, err = bg.NewGlyph("a")
	ok(t, err)
	bg.Color = "0,0,1,1"

	f.Info.FamilyName = "Test"
	f.Info.UnitsPerEm = Float(1000)
	f.Features.Text = "languagesystem DFLT dflt;"
	f.Groups["LOWERCASE"] = []string{"a", "b"}
	f.Kerning.Set("a", "b", -15)
	f.Lib["com.example.tool"] = "v1"
	f.Data.Set("com.example/meta.bin", []byte{0, 1, 2, 255})
	f.Images.Set("bg.png", []byte("not really a png"))
	return f
}

func TestFontStoreRoundTrip(t *testing.T) {
	f := buildTestFont(t)
	store := NewMemStore()
	ok(t, f.Write(store, true))

	back, err := ReadFont(store, true)
	ok(t, err)
	eq(t, back.Lazy(), true)

	equal, err := f.Equal(back)
	ok(t, err)
	eq(t, equal, true)
	eq(t, back.Lazy(), false) // equality materializes everything
}

func TestFontEagerRead(t *testing.T) {
	f := buildTestFont(t)
	store := NewMemStore()
	ok(t, f.Write(store, true))

	back, err := ReadFont(store, false)
	ok(t, err)
	eq(t, back.Lazy(), false)
	g, err := back.Glyph("a")
	ok(t, err)
	eq(t, g.Width, 250.0)
}

func TestFontInPlaceSave(t *testing.T) {
	f := buildTestFont(t)
	store := NewMemStore()
	ok(t, f.Write(store, true))

	// Reopen lazily, mutate, save in place without touching glyph "b".
	work, err := ReadFont(store, true)
	ok(t, err)
	g, err := work.Glyph("a")
	ok(t, err)
	g.Width = 300
	ok(t, work.DeleteGlyph("b"))
	ok(t, work.Data.Delete("com.example/meta.bin"))
	ok(t, work.Layers.DeleteLayer("background"))
	ok(t, work.Write(store, false))

	back, err := ReadFont(store, false)
	ok(t, err)
	g, err = back.Glyph("a")
	ok(t, err)
	eq(t, g.Width, 300.0)
	eq(t, back.ContainsGlyph("b"), false)
	eq(t, back.Data.Contains("com.example/meta.bin"), false)
	eq(t, back.Layers.Contains("background"), false)
	eq(t, back.Images.Contains("bg.png"), true)
}

func TestFontCopyIndependence(t *testing.T) {
	f := buildTestFont(t)
	store := NewMemStore()
	ok(t, f.Write(store, true))
	orig, err := ReadFont(store, true)
	ok(t, err)

	cp, err := orig.Copy()
	ok(t, err)
	eq(t, cp.Lazy(), false)

	g, err := cp.Glyph("a")
	ok(t, err)
	g.Width = 1
	cp.Kerning.Set("x", "y", 5)
	cp.Lib["new"] = true
	cp.Data.Set("extra", []byte("x"))

	og, err := orig.Glyph("a")
	ok(t, err)
	eq(t, og.Width, 250.0)
	_, present := orig.Kerning.Lookup("x", "y")
	eq(t, present, false)
	eq(t, orig.Lib["new"] == nil, true)
	eq(t, orig.Data.Contains("extra"), false)

	equal, err := orig.Equal(f)
	ok(t, err)
	eq(t, equal, true)
}

func TestFontTreeRoundTrip(t *testing.T) {
	f := buildTestFont(t)
	tree, err := JSONConverter.Destructure(f)
	ok(t, err)
	back := NewFont()
	ok(t, back.UnmarshalTree(JSONConverter, tree))
	equal, err := f.Equal(back)
	ok(t, err)
	eq(t, equal, true)
}

func TestFontUnmarshalStrictExtras(t *testing.T) {
	f := NewFont()
	err := f.UnmarshalTree(JSONConverter, dict("bogus", true))
	var unexpected *UnexpectedFieldError
	if !errors.As(err, &unexpected) {
		t.Fatalf("err = %v, wanted UnexpectedFieldError", err)
	}
	permissive := NewConverter(ConverterOptions{OmitDefaults: true, AllowExtraKeys: true})
	ok(t, f.UnmarshalTree(permissive, dict("bogus", true)))
	eq(t, f.Layers.DefaultLayerName(), DefaultLayerName)
}

func TestFontGlyphOrder(t *testing.T) {
	f := NewFont()
	deepEqual(t, f.GlyphOrder(), nil)
	f.SetGlyphOrder([]string{"b", "a"})
	deepEqual(t, f.GlyphOrder(), []string{"b", "a"})
	f.SetGlyphOrder(nil)
	deepEqual(t, f.GlyphOrder(), nil)
	eq(t, f.Lib[glyphOrderKey] == nil, true)
}

func TestGlyphLibAccessors(t *testing.T) {
	g := NewGlyph("a")
	eq(t, g.MarkColor(), "")
	g.SetMarkColor("1,0,0,1")
	eq(t, g.MarkColor(), "1,0,0,1")
	g.SetMarkColor("")
	eq(t, len(g.Lib), 0)

	_, set := g.VerticalOrigin()
	eq(t, set, false)
	g.SetVerticalOrigin(800)
	v, set := g.VerticalOrigin()
	eq(t, set, true)
	eq(t, v, 800.0)
	g.ClearVerticalOrigin()
	_, set = g.VerticalOrigin()
	eq(t, set, false)
}

func TestGlyphMoveAndUnicode(t *testing.T) {
	g := NewGlyph("a")
	g.Contours = []Contour{{Points: []Point{{X: 1, Y: 2, Type: "line"}}}}
	g.Components = []Component{NewComponent("b")}
	g.Anchors = []Anchor{{X: 5, Y: 6}}
	g.Move(10, 20)
	eq(t, g.Contours[0].Points[0].X, 11.0)
	eq(t, g.Components[0].Transformation[4], 10.0)
	eq(t, g.Anchors[0].Y, 26.0)

	g.SetUnicode(97)
	g.SetUnicode(98)
	deepEqual(t, g.Unicodes, []int{98, 97})
	eq(t, g.Unicode(), 98)
	g.SetUnicode(97)
	deepEqual(t, g.Unicodes, []int{97, 98})
}

func TestStructureErrorPathsInNestedLayers(t *testing.T) {
	tree := dict("layers", []any{
		dict("name", "public.default"),
		dict("name", "background", "bogus", int64(1)),
	})
	var f Font
	err := JSONConverter.Structure(tree, &f)
	var unexpected *UnexpectedFieldError
	if !errors.As(err, &unexpected) {
		t.Fatalf("err = %v, wanted UnexpectedFieldError", err)
	}
	eq(t, unexpected.Field, "bogus")
	eq(t, unexpected.Path, ".layers[1]")

	tree = dict("layers", []any{
		dict("name", "public.default", "glyphs", []any{
			dict("name", "a", "anchors", []any{dict("name", "top", "x", "oops", "y", int64(0))}),
		}),
	})
	var f2 Font
	err = JSONConverter.Structure(tree, &f2)
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, wanted TypeMismatchError", err)
	}
	eq(t, mismatch.Path, ".layers[0].glyphs[0].anchors[0].x")

	tree = dict("info", dict("familyName", int64(1)))
	var f3 Font
	err = JSONConverter.Structure(tree, &f3)
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, wanted TypeMismatchError", err)
	}
	eq(t, mismatch.Path, ".info.familyName")
}
