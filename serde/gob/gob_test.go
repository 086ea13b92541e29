package gob

import (
	"testing"

	"github.com/typecraft/ufokit"
	"github.com/typecraft/ufokit/serde"
)

func TestFontRoundTrip(t *testing.T) {
	f := ufokit.NewFont()
	g, err := f.NewGlyph("a")
	if err != nil {
		t.Fatal(err)
	}
	g.Width = 250
	g.Anchors = []ufokit.Anchor{{X: 1, Y: 2, Name: "top"}}
	f.Info.FamilyName = "Test"
	f.Kerning.Set("a", "a", 10)
	f.Lib["nested"] = map[string]any{"k": []any{int64(1), "two"}}
	f.Data.Set("blob", []byte{0, 255})

	data, err := serde.Dumps(Format, f)
	if err != nil {
		t.Fatal(err)
	}
	back := ufokit.NewFont()
	if err := serde.Loads(Format, data, back); err != nil {
		t.Fatal(err)
	}
	equal, err := f.Equal(back)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Fatalf("round trip changed the font")
	}
}

func TestLazyFontIsMaterializedOnDump(t *testing.T) {
	f := ufokit.NewFont()
	if _, err := f.NewGlyph("a"); err != nil {
		t.Fatal(err)
	}
	f.Data.Set("blob", []byte("x"))
	store := ufokit.NewMemStore()
	if err := f.Write(store, true); err != nil {
		t.Fatal(err)
	}
	lazy, err := ufokit.ReadFont(store, true)
	if err != nil {
		t.Fatal(err)
	}
	if !lazy.Lazy() {
		t.Fatalf("font not lazy")
	}

	data, err := serde.Dumps(Format, lazy)
	if err != nil {
		t.Fatal(err)
	}
	back := ufokit.NewFont()
	if err := serde.Loads(Format, data, back); err != nil {
		t.Fatal(err)
	}
	equal, err := f.Equal(back)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Fatalf("lazy state leaked into the native dump")
	}
}

func TestLayerRoundTrip(t *testing.T) {
	l := ufokit.NewLayer("background")
	l.Color = "0,0,1,1"
	if _, err := l.NewGlyph("a"); err != nil {
		t.Fatal(err)
	}

	data, err := serde.Dumps(Format, l)
	if err != nil {
		t.Fatal(err)
	}
	back := ufokit.NewLayer("")
	if err := serde.Loads(Format, data, back); err != nil {
		t.Fatal(err)
	}
	if back.Name() != "background" || back.Color != "0,0,1,1" || !back.Contains("a") {
		t.Fatalf("round trip lost layer state")
	}
}
