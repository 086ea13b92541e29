package ufokit

import "fmt"

// LayerSet holds the ordered layers of a font. Unless read eagerly,
// non-default layers are loaded from the backing reader on first
// access; an unloaded layer occupies a nil map slot. The default layer
// is always loaded.
type LayerSet struct {
	layers      map[string]*Layer // nil = present in storage, not yet loaded
	order       []string
	defaultName string
	lazy        bool
	reader      Reader
}

// NewLayerSet returns a layer set with a single empty default layer.
func NewLayerSet() *LayerSet {
	ls := &LayerSet{
		layers:      make(map[string]*Layer),
		defaultName: DefaultLayerName,
	}
	ls.put(NewLayer(DefaultLayerName))
	return ls
}

func (ls *LayerSet) put(l *Layer) {
	if _, ok := ls.layers[l.name]; !ok {
		ls.order = append(ls.order, l.name)
	}
	ls.layers[l.name] = l
}

// readLayerSet binds a layer set to a reader. The default layer is
// loaded immediately; other layers become unloaded slots when lazy.
func readLayerSet(r Reader, lazy bool) (*LayerSet, error) {
	defaultName, err := r.DefaultLayerName()
	if err != nil {
		return nil, err
	}
	ls := &LayerSet{
		layers:      make(map[string]*Layer),
		defaultName: defaultName,
	}
	names, err := r.LayerNames()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if lazy && name != defaultName {
			ls.order = append(ls.order, name)
			ls.layers[name] = nil
			continue
		}
		l, err := loadLayer(r, name, lazy)
		if err != nil {
			return nil, err
		}
		ls.put(l)
	}
	if _, ok := ls.layers[defaultName]; !ok {
		return nil, notFound("layer", defaultName)
	}
	if lazy {
		ls.lazy = true
		ls.reader = r
	}
	return ls, nil
}

func loadLayer(r Reader, name string, lazy bool) (*Layer, error) {
	gs, err := r.GlyphSet(name)
	if err != nil {
		return nil, err
	}
	return readLayer(name, gs, lazy)
}

// Lazy reports whether some layers or glyphs may still be unloaded.
func (ls *LayerSet) Lazy() bool { return ls.lazy }

func (ls *LayerSet) Len() int { return len(ls.layers) }

func (ls *LayerSet) Contains(name string) bool {
	_, ok := ls.layers[name]
	return ok
}

// LayerOrder returns the layer names in order.
func (ls *LayerSet) LayerOrder() []string {
	return append([]string(nil), ls.order...)
}

// SetLayerOrder reorders the layers; order must be a permutation of the
// current layer names.
func (ls *LayerSet) SetLayerOrder(order []string) error {
	if len(order) != len(ls.layers) {
		return fmt.Errorf("ufokit: layer order mismatch")
	}
	for _, name := range order {
		if !ls.Contains(name) {
			return notFound("layer", name)
		}
	}
	ls.order = append([]string(nil), order...)
	return nil
}

func (ls *LayerSet) DefaultLayerName() string { return ls.defaultName }

// DefaultLayer returns the default layer, which is always loaded.
func (ls *LayerSet) DefaultLayer() *Layer {
	return ls.layers[ls.defaultName]
}

// SetDefaultLayer makes the named layer the default; it must exist.
func (ls *LayerSet) SetDefaultLayer(name string) error {
	if _, err := ls.Layer(name); err != nil {
		return err
	}
	ls.defaultName = name
	return nil
}

// Layer returns the named layer, loading it from the backing reader on
// first access.
func (ls *LayerSet) Layer(name string) (*Layer, error) {
	l, ok := ls.layers[name]
	if !ok {
		return nil, notFound("layer", name)
	}
	if l == nil {
		var err error
		l, err = loadLayer(ls.reader, name, true)
		if err != nil {
			return nil, err
		}
		ls.layers[name] = l
	}
	return l, nil
}

// NewLayer creates an empty layer; fails if the name is taken.
func (ls *LayerSet) NewLayer(name string) (*Layer, error) {
	if ls.Contains(name) {
		return nil, fmt.Errorf("ufokit: layer %q already exists", name)
	}
	l := NewLayer(name)
	ls.put(l)
	return l, nil
}

// DeleteLayer removes a layer; the default layer cannot be deleted.
// Backing storage is only touched on the next in-place write.
func (ls *LayerSet) DeleteLayer(name string) error {
	if name == ls.defaultName {
		return fmt.Errorf("ufokit: cannot delete default layer %q", name)
	}
	if !ls.Contains(name) {
		return notFound("layer", name)
	}
	delete(ls.layers, name)
	for i, n := range ls.order {
		if n == name {
			ls.order = append(ls.order[:i], ls.order[i+1:]...)
			break
		}
	}
	return nil
}

// RenameLayer renames a layer, keeping its position in the order. The
// default layer name follows a rename of the default layer.
func (ls *LayerSet) RenameLayer(name, newName string, overwrite bool) error {
	if name == newName {
		return nil
	}
	if !overwrite && ls.Contains(newName) {
		return fmt.Errorf("ufokit: layer %q already exists", newName)
	}
	l, err := ls.Layer(name)
	if err != nil {
		return err
	}
	if ls.Contains(newName) {
		ensure(ls.DeleteLayer(newName))
	}
	delete(ls.layers, name)
	l.name = newName
	ls.layers[newName] = l
	for i, n := range ls.order {
		if n == name {
			ls.order[i] = newName
			break
		}
	}
	if ls.defaultName == name {
		ls.defaultName = newName
	}
	return nil
}

// RenameGlyph renames a glyph in every layer that contains it.
func (ls *LayerSet) RenameGlyph(name, newName string, overwrite bool) error {
	if name == newName {
		return nil
	}
	found := false
	for _, ln := range ls.order {
		l, err := ls.Layer(ln)
		if err != nil {
			return err
		}
		if l.Contains(name) {
			found = true
		}
		if !overwrite && l.Contains(newName) {
			return fmt.Errorf("ufokit: glyph %q already exists in layer %q", newName, ln)
		}
	}
	if !found {
		return notFound("glyph", name)
	}
	for _, ln := range ls.order {
		l := ls.layers[ln]
		if l.Contains(name) {
			if err := l.RenameGlyph(name, newName, overwrite); err != nil {
				return err
			}
		}
	}
	return nil
}

// Unlazify loads every layer and every glyph and drops the reader
// reference.
func (ls *LayerSet) Unlazify() error {
	for _, name := range ls.order {
		l, err := ls.Layer(name)
		if err != nil {
			return err
		}
		if err := l.Unlazify(); err != nil {
			return err
		}
	}
	ls.lazy = false
	ls.reader = nil
	return nil
}

// write persists the layer set. In-place, stored layers absent from the
// set are removed first and unloaded layers are left alone. Save-as-new
// loads and writes everything and drops the reader reference.
func (ls *LayerSet) write(w Writer, saveAs bool) error {
	if !saveAs {
		stored, err := w.LayerNames()
		if err != nil {
			return err
		}
		for _, name := range stored {
			if !ls.Contains(name) {
				if err := w.DeleteGlyphSet(name); err != nil {
					return err
				}
			}
		}
	}
	for _, name := range ls.order {
		l := ls.layers[name]
		if l == nil {
			if !saveAs {
				continue
			}
			var err error
			l, err = ls.Layer(name)
			if err != nil {
				return err
			}
		}
		gs, err := w.NewGlyphSet(name, name == ls.defaultName)
		if err != nil {
			return err
		}
		if err := l.write(gs, saveAs); err != nil {
			return err
		}
	}
	if err := w.WriteLayerOrder(ls.LayerOrder()); err != nil {
		return err
	}
	if saveAs {
		ls.lazy = false
		ls.reader = nil
	}
	return nil
}

// Copy unlazifies the receiver, then returns an independent deep copy
// with no reader reference.
func (ls *LayerSet) Copy() (*LayerSet, error) {
	if err := ls.Unlazify(); err != nil {
		return nil, err
	}
	out := &LayerSet{
		layers:      make(map[string]*Layer),
		defaultName: ls.defaultName,
	}
	for _, name := range ls.order {
		l, err := ls.layers[name].Copy()
		if err != nil {
			return nil, err
		}
		out.put(l)
	}
	return out, nil
}

const (
	layerSetLayersKey  = "layers"
	layerSetDefaultKey = "defaultLayerName"
)

// MarshalTree materializes the set and emits the layers as a sequence,
// plus the default layer name unless it is the standard one.
func (ls *LayerSet) MarshalTree(c *Converter) (any, error) {
	if err := ls.Unlazify(); err != nil {
		return nil, err
	}
	d := NewDict()
	layers := make([]any, len(ls.order))
	for i, name := range ls.order {
		node, err := ls.layers[name].MarshalTree(c)
		if err != nil {
			return nil, err
		}
		layers[i] = node
	}
	d.Set(layerSetLayersKey, layers)
	if ls.defaultName != DefaultLayerName || !c.OmitsDefaults() {
		d.Set(layerSetDefaultKey, ls.defaultName)
	}
	return d, nil
}

func (ls *LayerSet) UnmarshalTree(c *Converter, tree any) error {
	d, ok := tree.(*Dict)
	if !ok {
		return typeMismatch("", "mapping", tree)
	}
	out := &LayerSet{
		layers:      make(map[string]*Layer),
		defaultName: DefaultLayerName,
	}
	if v, ok := d.Get(layerSetLayersKey); ok && v != nil {
		seq, ok := v.([]any)
		if !ok {
			return typeMismatch("."+layerSetLayersKey, "sequence", v)
		}
		for i, el := range seq {
			l := NewLayer("")
			if err := l.UnmarshalTree(c, el); err != nil {
				return prefixPath(fmt.Sprintf(".%s[%d]", layerSetLayersKey, i), err)
			}
			out.put(l)
		}
	}
	if v, ok := d.Get(layerSetDefaultKey); ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return typeMismatch("."+layerSetDefaultKey, "string", v)
		}
		out.defaultName = s
	}
	if len(out.layers) == 0 {
		out.put(NewLayer(DefaultLayerName))
	}
	if _, ok := out.layers[out.defaultName]; !ok {
		return notFound("layer", out.defaultName)
	}
	if !c.AllowsExtraKeys() {
		for _, k := range d.Keys() {
			switch k {
			case layerSetLayersKey, layerSetDefaultKey:
			default:
				return &UnexpectedFieldError{Field: k}
			}
		}
	}
	*ls = *out
	return nil
}

type layerSetSnapshot struct {
	Layers      []*Layer
	DefaultName string
}

func (ls *LayerSet) GobEncode() ([]byte, error) {
	if err := ls.Unlazify(); err != nil {
		return nil, err
	}
	snap := layerSetSnapshot{DefaultName: ls.defaultName}
	for _, name := range ls.order {
		snap.Layers = append(snap.Layers, ls.layers[name])
	}
	return gobEncodeValue(snap)
}

func (ls *LayerSet) GobDecode(data []byte) error {
	var snap layerSetSnapshot
	if err := gobDecodeValue(data, &snap); err != nil {
		return err
	}
	out := &LayerSet{
		layers:      make(map[string]*Layer),
		defaultName: snap.DefaultName,
	}
	for _, l := range snap.Layers {
		out.put(l)
	}
	*ls = *out
	return nil
}
