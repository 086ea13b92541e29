package ufokit

import "testing"

func TestGuidelineValidate(t *testing.T) {
	if err := (&Guideline{}).Validate(); err == nil {
		t.Errorf("expected error for empty guideline")
	}
	ok(t, (&Guideline{X: Float(10)}).Validate())
	if err := (&Guideline{X: Float(1), Angle: Float(45)}).Validate(); err == nil {
		t.Errorf("expected error for angle without y")
	}
	ok(t, (&Guideline{X: Float(1), Y: Float(2), Angle: Float(45)}).Validate())
	if err := (&Guideline{X: Float(1), Y: Float(2), Angle: Float(361)}).Validate(); err == nil {
		t.Errorf("expected error for out-of-range angle")
	}
}

func TestTransformCodec(t *testing.T) {
	eq(t, Identity.IsIdentity(), true)
	tr := Transform{2, 0, 0, 2, 5, -5}
	tree, err := tr.MarshalTree(JSONConverter)
	ok(t, err)
	deepEqual(t, tree.([]any), []any{2.0, 0.0, 0.0, 2.0, 5.0, -5.0})

	var back Transform
	ok(t, back.UnmarshalTree(JSONConverter, []any{int64(2), 0.0, 0.0, 2.0, 5.0, -5.0}))
	eq(t, back, tr)

	if err := back.UnmarshalTree(JSONConverter, []any{1.0}); err == nil {
		t.Errorf("expected error for short sequence")
	}
}

func TestFeaturesCodec(t *testing.T) {
	tree, err := Features{Text: "feature liga;"}.MarshalTree(JSONConverter)
	ok(t, err)
	eq(t, tree.(string), "feature liga;")

	var f Features
	ok(t, f.UnmarshalTree(JSONConverter, "feature kern;"))
	eq(t, f.Text, "feature kern;")
	ok(t, f.UnmarshalTree(JSONConverter, nil))
	eq(t, f.Text, "")
	if err := f.UnmarshalTree(JSONConverter, int64(1)); err == nil {
		t.Errorf("expected error for non-string features")
	}
}

func TestKerningPairs(t *testing.T) {
	k := Kerning{}
	k.Set("a", "b", -10)
	eq(t, k.Get("a", "b"), -10.0)
	v, present := k.Lookup("a", "b")
	eq(t, present, true)
	eq(t, v, -10.0)
	_, present = k.Lookup("a", "zzz")
	eq(t, present, false)
	eq(t, k.Get("zzz", "b"), 0.0)

	k.Delete("a", "b")
	eq(t, len(k), 0) // emptied inner map removed
	k.Delete("a", "b")
}

func TestKerningGroupsCopy(t *testing.T) {
	k := Kerning{"a": {"b": 1}}
	kc := k.Copy()
	kc.Set("a", "b", 2)
	eq(t, k.Get("a", "b"), 1.0)

	g := Groups{"UC": {"A"}}
	gc := g.Copy()
	gc["UC"][0] = "B"
	eq(t, g["UC"][0], "A")
}

func TestContourOpen(t *testing.T) {
	eq(t, (&Contour{}).Open(), true)
	c := &Contour{Points: []Point{{Type: "move"}}}
	eq(t, c.Open(), true)
	c = &Contour{Points: []Point{{Type: "line"}}}
	eq(t, c.Open(), false)
}

func TestGlyphCopyIsDeep(t *testing.T) {
	g := NewGlyph("a")
	g.Unicodes = []int{97}
	g.Lib = Lib{"k": "v"}
	g.Contours = []Contour{{Points: []Point{{X: 1, Y: 2, Type: "line"}}}}
	g.Guidelines = []Guideline{{X: Float(10)}}

	cp := g.Copy("a.alt")
	eq(t, cp.Name, "a.alt")
	cp.Unicodes[0] = 98
	cp.Lib["k"] = "changed"
	cp.Contours[0].Points[0].X = 99
	*cp.Guidelines[0].X = 11

	eq(t, g.Unicodes[0], 97)
	eq(t, g.Lib["k"].(string), "v")
	eq(t, g.Contours[0].Points[0].X, 1.0)
	eq(t, *g.Guidelines[0].X, 10.0)
}

func TestGlyphCopyKeepsNilSlices(t *testing.T) {
	g := NewGlyph("b")
	cp := g.Copy("")
	if cp.Contours != nil {
		t.Errorf("Copy materialized an empty contour list")
	}
	orig, err := JSONConverter.Destructure(g)
	ok(t, err)
	copied, err := JSONConverter.Destructure(cp)
	ok(t, err)
	treesEqual(t, copied, orig)
}

func TestGlyphCopyDataFrom(t *testing.T) {
	src := NewGlyph("src")
	src.Width = 500
	src.Note = "hello"
	dst := NewGlyph("dst")
	dst.CopyDataFrom(src)
	eq(t, dst.Name, "dst")
	eq(t, dst.Width, 500.0)
	eq(t, dst.Note, "hello")
}

func TestInfoValidate(t *testing.T) {
	info := &Info{}
	ok(t, info.Validate())
	bad := WidthClass(11)
	info.OpenTypeOS2WidthClass = &bad
	if err := info.Validate(); err == nil {
		t.Errorf("expected error for width class 11")
	}
	info.OpenTypeOS2WidthClass = nil
	info.Guidelines = []Guideline{{}}
	if err := info.Validate(); err == nil {
		t.Errorf("expected error for invalid guideline")
	}
}

func TestInfoCopyIsDeep(t *testing.T) {
	info := &Info{
		FamilyName:   "Test",
		VersionMajor: Int(1),
		UnitsPerEm:   Float(1000),
		Guidelines:   []Guideline{{Y: Float(500)}},
		OpenTypeGaspRangeRecords: []GaspRangeRecord{
			{RangeMaxPPEM: 18, RangeGaspBehavior: []GaspBehavior{GaspDoGray}},
		},
	}
	cp := info.Copy()
	*cp.VersionMajor = 2
	*cp.UnitsPerEm = 2048
	*cp.Guidelines[0].Y = 1
	cp.OpenTypeGaspRangeRecords[0].RangeGaspBehavior[0] = GaspGridfit

	eq(t, *info.VersionMajor, 1)
	eq(t, *info.UnitsPerEm, 1000.0)
	eq(t, *info.Guidelines[0].Y, 500.0)
	eq(t, info.OpenTypeGaspRangeRecords[0].RangeGaspBehavior[0], GaspDoGray)
}
