package ufokit

import "fmt"

// DefaultLayerName is the name of the layer every font starts with.
const DefaultLayerName = "public.default"

// Layer holds the glyphs of one layer of a font. Unless read eagerly,
// glyphs are parsed from the backing glyph set on first access; an
// unloaded glyph occupies a nil map slot.
type Layer struct {
	name   string
	glyphs map[string]*Glyph // nil = present in storage, not yet parsed
	order  []string
	Color  string
	Lib    Lib
	lazy   bool
	gs     GlyphSet
}

// NewLayer returns an empty layer. An empty name means the default
// layer name.
func NewLayer(name string) *Layer {
	if name == "" {
		name = DefaultLayerName
	}
	return &Layer{
		name:   name,
		glyphs: make(map[string]*Glyph),
		Lib:    Lib{},
	}
}

// readLayer binds a layer to a glyph set, creating one unloaded slot per
// glyph the set reports. A layer with no glyphs comes back non-lazy.
func readLayer(name string, gs GlyphSet, lazy bool) (*Layer, error) {
	l := NewLayer(name)
	names, err := gs.GlyphNames()
	if err != nil {
		return nil, err
	}
	for _, gn := range names {
		if lazy {
			l.order = append(l.order, gn)
			l.glyphs[gn] = nil
		} else {
			g, err := gs.ReadGlyph(gn)
			if err != nil {
				return nil, err
			}
			l.order = append(l.order, gn)
			l.glyphs[gn] = g
		}
	}
	color, lib, err := gs.ReadLayerInfo()
	if err != nil {
		return nil, err
	}
	l.Color = color
	if lib != nil {
		l.Lib = lib
	}
	if lazy && len(l.order) > 0 {
		l.lazy = true
		l.gs = gs
	}
	return l, nil
}

// Name returns the layer name. Renaming goes through LayerSet.
func (l *Layer) Name() string { return l.name }

// Lazy reports whether some glyphs may still be unloaded.
func (l *Layer) Lazy() bool { return l.lazy }

func (l *Layer) Len() int { return len(l.glyphs) }

func (l *Layer) Contains(name string) bool {
	_, ok := l.glyphs[name]
	return ok
}

// GlyphNames returns the glyph names in insertion order.
func (l *Layer) GlyphNames() []string {
	return append([]string(nil), l.order...)
}

// Glyph returns the named glyph, parsing it from the backing glyph set
// on first access. The glyph set sees at most one read per glyph.
func (l *Layer) Glyph(name string) (*Glyph, error) {
	g, ok := l.glyphs[name]
	if !ok {
		return nil, notFound("glyph", name)
	}
	if g == nil {
		var err error
		g, err = l.gs.ReadGlyph(name)
		if err != nil {
			return nil, err
		}
		g.Name = name
		l.glyphs[name] = g
	}
	return g, nil
}

// SetGlyph stores glyph under name, taking ownership and renaming it to
// match.
func (l *Layer) SetGlyph(name string, g *Glyph) {
	g.Name = name
	if _, ok := l.glyphs[name]; !ok {
		l.order = append(l.order, name)
	}
	l.glyphs[name] = g
}

// AddGlyph appends a glyph under its own name; fails if the name is
// taken.
func (l *Layer) AddGlyph(g *Glyph) error {
	return l.InsertGlyph(g, "", false, false)
}

// InsertGlyph stores a glyph, optionally under a new name, optionally
// copying it first, optionally overwriting an existing glyph.
func (l *Layer) InsertGlyph(g *Glyph, name string, overwrite, copy bool) error {
	if copy {
		g = g.Copy("")
	}
	if name != "" {
		g.Name = name
	}
	if g.Name == "" {
		return fmt.Errorf("ufokit: glyph has no name")
	}
	if !overwrite && l.Contains(g.Name) {
		return fmt.Errorf("ufokit: glyph %q already exists in layer %q", g.Name, l.name)
	}
	l.SetGlyph(g.Name, g)
	return nil
}

// NewGlyph creates an empty glyph under name; fails if the name is
// taken.
func (l *Layer) NewGlyph(name string) (*Glyph, error) {
	if l.Contains(name) {
		return nil, fmt.Errorf("ufokit: glyph %q already exists in layer %q", name, l.name)
	}
	g := NewGlyph(name)
	l.SetGlyph(name, g)
	return g, nil
}

// DeleteGlyph removes a glyph from the layer. Backing storage is only
// touched on the next in-place write, which removes storage glyphs not
// present in the layer.
func (l *Layer) DeleteGlyph(name string) error {
	if !l.Contains(name) {
		return notFound("glyph", name)
	}
	delete(l.glyphs, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// RenameGlyph renames a glyph within the layer. With overwrite false it
// fails if the target name is taken.
func (l *Layer) RenameGlyph(name, newName string, overwrite bool) error {
	if name == newName {
		return nil
	}
	if !overwrite && l.Contains(newName) {
		return fmt.Errorf("ufokit: glyph %q already exists in layer %q", newName, l.name)
	}
	g, err := l.Glyph(name)
	if err != nil {
		return err
	}
	ensure(l.DeleteGlyph(name))
	l.SetGlyph(newName, g)
	return nil
}

// Unlazify parses every remaining unloaded glyph and drops the glyph
// set reference.
func (l *Layer) Unlazify() error {
	if l.lazy {
		for _, name := range l.order {
			if _, err := l.Glyph(name); err != nil {
				return err
			}
		}
	}
	l.lazy = false
	l.gs = nil
	return nil
}

// write persists the layer. In-place, storage glyphs absent from the
// layer are deleted first and unloaded glyphs are left alone. Save-as-
// new parses and writes everything and drops the glyph set reference.
// Object libs are pruned to identifiers in use before each write.
func (l *Layer) write(gs GlyphSet, saveAs bool) error {
	if !saveAs {
		stored, err := gs.GlyphNames()
		if err != nil {
			return err
		}
		for _, name := range stored {
			if !l.Contains(name) {
				if err := gs.DeleteGlyph(name); err != nil {
					return err
				}
			}
		}
	}
	for _, name := range l.order {
		g := l.glyphs[name]
		if g == nil {
			if !saveAs {
				continue
			}
			var err error
			g, err = l.Glyph(name)
			if err != nil {
				return err
			}
		}
		PruneObjectLibs(g.Lib, glyphIdentifiers(g))
		if err := gs.WriteGlyph(name, g); err != nil {
			return err
		}
	}
	if err := gs.WriteLayerInfo(l.Color, l.Lib); err != nil {
		return err
	}
	if saveAs {
		l.lazy = false
		l.gs = nil
	}
	return nil
}

// Copy unlazifies the receiver, then returns an independent deep copy
// with no glyph set reference.
func (l *Layer) Copy() (*Layer, error) {
	if err := l.Unlazify(); err != nil {
		return nil, err
	}
	out := NewLayer(l.name)
	out.Color = l.Color
	out.Lib = l.Lib.Copy()
	if out.Lib == nil {
		out.Lib = Lib{}
	}
	for _, name := range l.order {
		out.SetGlyph(name, l.glyphs[name].Copy(""))
	}
	return out, nil
}

// Equal unlazifies both layers and compares their contents.
func (l *Layer) Equal(other *Layer) (bool, error) {
	a, err := l.Copy()
	if err != nil {
		return false, err
	}
	b, err := other.Copy()
	if err != nil {
		return false, err
	}
	at, err := BinaryConverter.Destructure(a)
	if err != nil {
		return false, err
	}
	bt, err := BinaryConverter.Destructure(b)
	if err != nil {
		return false, err
	}
	return treeEqual(at, bt), nil
}

const (
	layerNameKey   = "name"
	layerGlyphsKey = "glyphs"
	layerColorKey  = "color"
	layerLibKey    = "lib"
)

// MarshalTree materializes the layer and emits name (always), then
// glyphs as a sequence of glyph mappings, then color and lib.
func (l *Layer) MarshalTree(c *Converter) (any, error) {
	if err := l.Unlazify(); err != nil {
		return nil, err
	}
	d := NewDict()
	d.Set(layerNameKey, l.name)
	if len(l.order) > 0 || !c.OmitsDefaults() {
		glyphs := make([]any, len(l.order))
		for i, name := range l.order {
			node, err := c.Destructure(l.glyphs[name])
			if err != nil {
				return nil, err
			}
			glyphs[i] = node
		}
		d.Set(layerGlyphsKey, glyphs)
	}
	if l.Color != "" || !c.OmitsDefaults() {
		d.Set(layerColorKey, l.Color)
	}
	if len(l.Lib) > 0 || !c.OmitsDefaults() {
		node, err := l.Lib.MarshalTree(c)
		if err != nil {
			return nil, err
		}
		d.Set(layerLibKey, node)
	}
	return d, nil
}

func (l *Layer) UnmarshalTree(c *Converter, tree any) error {
	d, ok := tree.(*Dict)
	if !ok {
		return typeMismatch("", "mapping", tree)
	}
	out := NewLayer("")
	if v, ok := d.Get(layerNameKey); ok {
		s, ok := v.(string)
		if !ok {
			return typeMismatch("."+layerNameKey, "string", v)
		}
		out.name = s
	}
	if v, ok := d.Get(layerGlyphsKey); ok && v != nil {
		seq, ok := v.([]any)
		if !ok {
			return typeMismatch("."+layerGlyphsKey, "sequence", v)
		}
		for i, el := range seq {
			g := NewGlyph("")
			if err := c.Structure(el, g); err != nil {
				return prefixPath(fmt.Sprintf(".%s[%d]", layerGlyphsKey, i), err)
			}
			if g.Name == "" {
				return &MissingRequiredFieldError{
					Path:  fmt.Sprintf(".%s[%d]", layerGlyphsKey, i),
					Field: "name",
				}
			}
			out.SetGlyph(g.Name, g)
		}
	}
	if v, ok := d.Get(layerColorKey); ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return typeMismatch("."+layerColorKey, "string", v)
		}
		out.Color = s
	}
	if v, ok := d.Get(layerLibKey); ok && v != nil {
		if err := out.Lib.UnmarshalTree(c, v); err != nil {
			return prefixPath("."+layerLibKey, err)
		}
	}
	if !c.AllowsExtraKeys() {
		for _, k := range d.Keys() {
			switch k {
			case layerNameKey, layerGlyphsKey, layerColorKey, layerLibKey:
			default:
				return &UnexpectedFieldError{Field: k}
			}
		}
	}
	*l = *out
	return nil
}

// layerSnapshot is the gob wire form of a Layer, always fully
// materialized.
type layerSnapshot struct {
	Name   string
	Glyphs []*Glyph
	Color  string
	Lib    Lib
}

func (l *Layer) snapshot() (layerSnapshot, error) {
	if err := l.Unlazify(); err != nil {
		return layerSnapshot{}, err
	}
	snap := layerSnapshot{Name: l.name, Color: l.Color, Lib: l.Lib}
	for _, name := range l.order {
		snap.Glyphs = append(snap.Glyphs, l.glyphs[name])
	}
	return snap, nil
}

func (l *Layer) restore(snap layerSnapshot) {
	out := NewLayer(snap.Name)
	out.Color = snap.Color
	if snap.Lib != nil {
		out.Lib = snap.Lib
	}
	for _, g := range snap.Glyphs {
		out.SetGlyph(g.Name, g)
	}
	*l = *out
}

func (l *Layer) GobEncode() ([]byte, error) {
	snap, err := l.snapshot()
	if err != nil {
		return nil, err
	}
	return gobEncodeValue(snap)
}

func (l *Layer) GobDecode(data []byte) error {
	var snap layerSnapshot
	if err := gobDecodeValue(data, &snap); err != nil {
		return err
	}
	l.restore(snap)
	return nil
}
