package ufokit

import "reflect"

// Font is the root object: layers, metadata, features, groups, kerning,
// lib, and the two binary attachment collections. Reading with lazy set
// defers glyph parsing and payload loading until first access.
//
// A font (and every lazy sub-object) exclusively owns the reader handle
// it was read from; see the package comment for the concurrency
// contract.
type Font struct {
	Layers   *LayerSet
	Info     Info
	Features Features
	Groups   Groups
	Kerning  Kerning
	Lib      Lib
	Data     *DataSet
	Images   *ImageSet
}

// NewFont returns an empty font with a single empty default layer.
func NewFont() *Font {
	return &Font{
		Layers:  NewLayerSet(),
		Groups:  Groups{},
		Kerning: Kerning{},
		Lib:     Lib{},
		Data:    NewDataSet(),
		Images:  NewImageSet(),
	}
}

// ReadFont reads a font from a backing store. With lazy set, glyphs,
// non-default layers and binary payloads are loaded on first access;
// everything else is read up front.
func ReadFont(r Reader, lazy bool) (*Font, error) {
	f := NewFont()
	var err error
	if f.Layers, err = readLayerSet(r, lazy); err != nil {
		return nil, err
	}
	info, err := r.ReadInfo()
	if err != nil {
		return nil, err
	}
	if info != nil {
		f.Info = *info
	}
	if f.Features.Text, err = r.ReadFeatures(); err != nil {
		return nil, err
	}
	groups, err := r.ReadGroups()
	if err != nil {
		return nil, err
	}
	if groups != nil {
		f.Groups = groups
	}
	kerning, err := r.ReadKerning()
	if err != nil {
		return nil, err
	}
	if kerning != nil {
		f.Kerning = kerning
	}
	lib, err := r.ReadLib()
	if err != nil {
		return nil, err
	}
	if lib != nil {
		f.Lib = lib
	}
	if f.Data, err = ReadDataSet(r, lazy); err != nil {
		return nil, err
	}
	if f.Images, err = ReadImageSet(r, lazy); err != nil {
		return nil, err
	}
	return f, nil
}

// Write persists the font. saveAs=false writes in place: pending
// deletions are applied and still-unloaded resources are left alone in
// storage. saveAs=true writes everything to a new store, materializing
// all lazy state and detaching the font from its original reader.
func (f *Font) Write(w Writer, saveAs bool) error {
	if err := w.WriteInfo(&f.Info); err != nil {
		return err
	}
	if err := w.WriteFeatures(f.Features.Text); err != nil {
		return err
	}
	if err := w.WriteGroups(f.Groups); err != nil {
		return err
	}
	if err := w.WriteKerning(f.Kerning); err != nil {
		return err
	}
	if err := w.WriteLib(f.Lib); err != nil {
		return err
	}
	if err := f.Layers.write(w, saveAs); err != nil {
		return err
	}
	if err := f.Data.WriteTo(w, saveAs); err != nil {
		return err
	}
	return f.Images.WriteTo(w, saveAs)
}

// Lazy reports whether any part of the font may still be unloaded.
func (f *Font) Lazy() bool {
	return f.Layers.Lazy() || f.Data.Lazy() || f.Images.Lazy()
}

// Unlazify loads everything and drops all reader references.
func (f *Font) Unlazify() error {
	if err := f.Layers.Unlazify(); err != nil {
		return err
	}
	if err := f.Data.Unlazify(); err != nil {
		return err
	}
	return f.Images.Unlazify()
}

// Copy unlazifies the receiver, then returns an independent deep copy
// with no reader references.
func (f *Font) Copy() (*Font, error) {
	out := NewFont()
	var err error
	if out.Layers, err = f.Layers.Copy(); err != nil {
		return nil, err
	}
	out.Info = *f.Info.Copy()
	out.Features = f.Features
	out.Groups = f.Groups.Copy()
	if out.Groups == nil {
		out.Groups = Groups{}
	}
	out.Kerning = f.Kerning.Copy()
	if out.Kerning == nil {
		out.Kerning = Kerning{}
	}
	out.Lib = f.Lib.Copy()
	if out.Lib == nil {
		out.Lib = Lib{}
	}
	if out.Data, err = f.Data.Copy(); err != nil {
		return nil, err
	}
	if out.Images, err = f.Images.Copy(); err != nil {
		return nil, err
	}
	return out, nil
}

// Equal unlazifies both fonts and compares their full contents.
func (f *Font) Equal(other *Font) (bool, error) {
	at, err := BinaryConverter.Destructure(f)
	if err != nil {
		return false, err
	}
	bt, err := BinaryConverter.Destructure(other)
	if err != nil {
		return false, err
	}
	return treeEqual(at, bt), nil
}

// Default-layer conveniences.

// DefaultLayer returns the font's default layer.
func (f *Font) DefaultLayer() *Layer { return f.Layers.DefaultLayer() }

// Glyph returns a glyph from the default layer.
func (f *Font) Glyph(name string) (*Glyph, error) {
	return f.DefaultLayer().Glyph(name)
}

// NewGlyph creates an empty glyph in the default layer.
func (f *Font) NewGlyph(name string) (*Glyph, error) {
	return f.DefaultLayer().NewGlyph(name)
}

func (f *Font) ContainsGlyph(name string) bool {
	return f.DefaultLayer().Contains(name)
}

// DeleteGlyph removes a glyph from the default layer.
func (f *Font) DeleteGlyph(name string) error {
	return f.DefaultLayer().DeleteGlyph(name)
}

// RenameGlyph renames a glyph in every layer that contains it.
func (f *Font) RenameGlyph(name, newName string, overwrite bool) error {
	return f.Layers.RenameGlyph(name, newName, overwrite)
}

// RenameLayer renames a layer.
func (f *Font) RenameLayer(name, newName string, overwrite bool) error {
	return f.Layers.RenameLayer(name, newName, overwrite)
}

// Lib-wrapped attributes.

const glyphOrderKey = "public.glyphOrder"

// GlyphOrder returns the glyph order stored in the font lib, or nil.
func (f *Font) GlyphOrder() []string {
	seq, ok := f.Lib[glyphOrderKey].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(seq))
	for _, v := range seq {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// SetGlyphOrder stores the glyph order in the font lib; nil removes it.
func (f *Font) SetGlyphOrder(order []string) {
	if order == nil {
		delete(f.Lib, glyphOrderKey)
		return
	}
	seq := make([]any, len(order))
	for i, s := range order {
		seq[i] = s
	}
	if f.Lib == nil {
		f.Lib = Lib{}
	}
	f.Lib[glyphOrderKey] = seq
}

// Guidelines returns the font-wide guidelines from Info.
func (f *Font) Guidelines() []Guideline { return f.Info.Guidelines }

func (f *Font) SetGuidelines(gs []Guideline) { f.Info.Guidelines = gs }

// External representation. The layer set's keys sit at the top level of
// the font mapping, followed by the remaining attributes in a fixed
// order.

const (
	fontInfoKey     = "info"
	fontFeaturesKey = "features"
	fontGroupsKey   = "groups"
	fontKerningKey  = "kerning"
	fontLibKey      = "lib"
	fontDataKey     = "data"
	fontImagesKey   = "images"
)

func (f *Font) MarshalTree(c *Converter) (any, error) {
	node, err := f.Layers.MarshalTree(c)
	if err != nil {
		return nil, err
	}
	d := node.(*Dict)
	omit := c.OmitsDefaults()
	if !omit || !reflect.DeepEqual(f.Info, Info{}) {
		node, err := c.Destructure(&f.Info)
		if err != nil {
			return nil, err
		}
		d.Set(fontInfoKey, node)
	}
	if !omit || f.Features.Text != "" {
		d.Set(fontFeaturesKey, f.Features.Text)
	}
	if !omit || len(f.Groups) > 0 {
		node, err := c.Destructure(f.Groups)
		if err != nil {
			return nil, err
		}
		d.Set(fontGroupsKey, node)
	}
	if !omit || len(f.Kerning) > 0 {
		node, err := c.Destructure(f.Kerning)
		if err != nil {
			return nil, err
		}
		d.Set(fontKerningKey, node)
	}
	if !omit || len(f.Lib) > 0 {
		node, err := f.Lib.MarshalTree(c)
		if err != nil {
			return nil, err
		}
		d.Set(fontLibKey, node)
	}
	if !omit || f.Data.Len() > 0 {
		node, err := f.Data.MarshalTree(c)
		if err != nil {
			return nil, err
		}
		d.Set(fontDataKey, node)
	}
	if !omit || f.Images.Len() > 0 {
		node, err := f.Images.MarshalTree(c)
		if err != nil {
			return nil, err
		}
		d.Set(fontImagesKey, node)
	}
	return d, nil
}

func (f *Font) UnmarshalTree(c *Converter, tree any) error {
	d, ok := tree.(*Dict)
	if !ok {
		return typeMismatch("", "mapping", tree)
	}
	out := NewFont()

	layersTree := NewDict()
	if v, ok := d.Get(layerSetLayersKey); ok {
		layersTree.Set(layerSetLayersKey, v)
	}
	if v, ok := d.Get(layerSetDefaultKey); ok {
		layersTree.Set(layerSetDefaultKey, v)
	}
	if err := out.Layers.UnmarshalTree(c, layersTree); err != nil {
		return err
	}

	if v, ok := d.Get(fontInfoKey); ok && v != nil {
		if err := c.Structure(v, &out.Info); err != nil {
			return prefixPath("."+fontInfoKey, err)
		}
	}
	if v, ok := d.Get(fontFeaturesKey); ok && v != nil {
		if err := out.Features.UnmarshalTree(c, v); err != nil {
			return prefixPath("."+fontFeaturesKey, err)
		}
	}
	if v, ok := d.Get(fontGroupsKey); ok && v != nil {
		if err := c.Structure(v, &out.Groups); err != nil {
			return prefixPath("."+fontGroupsKey, err)
		}
	}
	if v, ok := d.Get(fontKerningKey); ok && v != nil {
		if err := c.Structure(v, &out.Kerning); err != nil {
			return prefixPath("."+fontKerningKey, err)
		}
	}
	if v, ok := d.Get(fontLibKey); ok && v != nil {
		if err := out.Lib.UnmarshalTree(c, v); err != nil {
			return prefixPath("."+fontLibKey, err)
		}
	}
	if v, ok := d.Get(fontDataKey); ok && v != nil {
		if err := out.Data.UnmarshalTree(c, v); err != nil {
			return prefixPath("."+fontDataKey, err)
		}
	}
	if v, ok := d.Get(fontImagesKey); ok && v != nil {
		if err := out.Images.UnmarshalTree(c, v); err != nil {
			return prefixPath("."+fontImagesKey, err)
		}
	}
	if !c.AllowsExtraKeys() {
		for _, k := range d.Keys() {
			switch k {
			case layerSetLayersKey, layerSetDefaultKey, fontInfoKey,
				fontFeaturesKey, fontGroupsKey, fontKerningKey,
				fontLibKey, fontDataKey, fontImagesKey:
			default:
				return &UnexpectedFieldError{Field: k}
			}
		}
	}
	*f = *out
	return nil
}

type fontSnapshot struct {
	Layers   *LayerSet
	Info     Info
	Features string
	Groups   Groups
	Kerning  Kerning
	Lib      Lib
	Data     *DataSet
	Images   *ImageSet
}

func (f *Font) GobEncode() ([]byte, error) {
	return gobEncodeValue(fontSnapshot{
		Layers:   f.Layers,
		Info:     f.Info,
		Features: f.Features.Text,
		Groups:   f.Groups,
		Kerning:  f.Kerning,
		Lib:      f.Lib,
		Data:     f.Data,
		Images:   f.Images,
	})
}

func (f *Font) GobDecode(data []byte) error {
	var snap fontSnapshot
	if err := gobDecodeValue(data, &snap); err != nil {
		return err
	}
	out := NewFont()
	if snap.Layers != nil {
		out.Layers = snap.Layers
	}
	out.Info = snap.Info
	out.Features.Text = snap.Features
	if snap.Groups != nil {
		out.Groups = snap.Groups
	}
	if snap.Kerning != nil {
		out.Kerning = snap.Kerning
	}
	if snap.Lib != nil {
		out.Lib = snap.Lib
	}
	if snap.Data != nil {
		out.Data = snap.Data
	}
	if snap.Images != nil {
		out.Images = snap.Images
	}
	*f = *out
	return nil
}
