package json

import (
	"strings"
	"testing"

	"github.com/typecraft/ufokit"
	"github.com/typecraft/ufokit/serde"
)

func TestDumpsDefaultFont(t *testing.T) {
	data, err := serde.Dumps(Format, ufokit.NewFont())
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != `{"layers":[{"name":"public.default"}]}` {
		t.Fatalf("Dumps = %s", got)
	}
}

func TestFontRoundTrip(t *testing.T) {
	f := ufokit.NewFont()
	g, err := f.NewGlyph("a")
	if err != nil {
		t.Fatal(err)
	}
	g.Width = 250
	f.Info.FamilyName = "Test"
	f.Kerning.Set("a", "a", 10)
	f.Data.Set("blob", []byte{0, 255})

	data, err := serde.Dumps(Format, f)
	if err != nil {
		t.Fatal(err)
	}
	// Binary payloads travel as text envelopes.
	if !strings.Contains(string(data), `"encoding":"base85"`) {
		t.Fatalf("no base85 envelope in %s", data)
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

func TestDumpsIsStable(t *testing.T) {
	f := ufokit.NewFont()
	f.Lib["b"] = "1"
	f.Lib["a"] = "2"
	first, err := serde.Dumps(Format, f)
	if err != nil {
		t.Fatal(err)
	}
	second, err := serde.Dumps(Format, f)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatalf("repeated dumps differ:\n%s\n%s", first, second)
	}
	// Dynamic maps come out sorted.
	if strings.Index(string(first), `"a"`) > strings.Index(string(first), `"b"`) {
		t.Fatalf("lib keys not sorted: %s", first)
	}
}

func TestParsePreservesOrderAndNumbers(t *testing.T) {
	tree, err := Parse([]byte(`{"z":1,"a":2.5,"m":{"y":true,"x":null},"s":[1,2]}`))
	if err != nil {
		t.Fatal(err)
	}
	d := tree.(*ufokit.Dict)
	got := d.Keys()
	want := []string{"z", "a", "m", "s"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys = %v", got)
		}
	}
	z, _ := d.Get("z")
	if z != int64(1) {
		t.Fatalf("z = %T(%v), wanted int64", z, z)
	}
	a, _ := d.Get("a")
	if a != 2.5 {
		t.Fatalf("a = %v", a)
	}
	m, _ := d.Get("m")
	if keys := m.(*ufokit.Dict).Keys(); keys[0] != "y" || keys[1] != "x" {
		t.Fatalf("nested keys = %v", keys)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte(`{"a":}`)); err == nil {
		t.Errorf("expected syntax error")
	}
	if _, err := Parse([]byte(`{} garbage`)); err == nil {
		t.Errorf("expected trailing data error")
	}
}

func TestLoadsRejectsUnknownKeysByDefault(t *testing.T) {
	back := ufokit.NewFont()
	err := serde.Loads(Format, []byte(`{"bogus":1}`), back)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
