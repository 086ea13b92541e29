package ufokit

// Storage collaborator contracts. The on-disk directory format is out of
// scope for this package; anything that can enumerate keys and move raw
// bytes (or parsed glyphs) can back a font. MemStore and BoltStore are the
// bundled implementations.

// ResourceReader reads one keyed byte collection (data files or images).
type ResourceReader interface {
	// ListKeys enumerates available resource keys.
	ListKeys() ([]string, error)
	// ReadOne fetches one resource's raw payload. Returns NotFoundError if
	// the key does not exist in storage.
	ReadOne(key string) ([]byte, error)
}

// ResourceWriter writes one keyed byte collection.
type ResourceWriter interface {
	// WriteOne persists one resource.
	WriteOne(key string, data []byte) error
	// DeleteOne removes a resource; removing an absent key is benign.
	DeleteOne(key string) error
}

// GlyphSet gives access to the glyphs of one layer.
type GlyphSet interface {
	// GlyphNames enumerates the glyphs present in the layer.
	GlyphNames() ([]string, error)
	// ReadGlyph returns a freshly parsed glyph. Returns NotFoundError if
	// absent. The caller owns the result.
	ReadGlyph(name string) (*Glyph, error)
	// WriteGlyph persists a glyph.
	WriteGlyph(name string, g *Glyph) error
	// DeleteGlyph removes a glyph; removing an absent glyph is benign.
	DeleteGlyph(name string) error
	// ReadLayerInfo returns the layer's color and lib.
	ReadLayerInfo() (color string, lib Lib, err error)
	// WriteLayerInfo persists the layer's color and lib.
	WriteLayerInfo(color string, lib Lib) error
}

// Reader is the read side of a font backing store. A reader handle is
// exclusively owned by the font read from it and must not be mutated
// concurrently.
type Reader interface {
	// DataReader exposes the binary attachment collection.
	DataReader() ResourceReader
	// ImageReader exposes the image collection.
	ImageReader() ResourceReader

	// LayerNames enumerates layers in order.
	LayerNames() ([]string, error)
	// DefaultLayerName names the default layer.
	DefaultLayerName() (string, error)
	// GlyphSet opens the named layer for reading. Returns NotFoundError if
	// the layer does not exist.
	GlyphSet(layerName string) (GlyphSet, error)

	ReadInfo() (*Info, error)
	ReadFeatures() (string, error)
	ReadGroups() (Groups, error)
	ReadKerning() (Kerning, error)
	ReadLib() (Lib, error)
}

// Writer is the write side of a font backing store.
type Writer interface {
	// DataWriter exposes the binary attachment collection.
	DataWriter() ResourceWriter
	// ImageWriter exposes the image collection.
	ImageWriter() ResourceWriter

	// LayerNames enumerates the layers currently in storage, so an
	// in-place save can remove layers deleted from the font.
	LayerNames() ([]string, error)
	// NewGlyphSet opens (creating if needed) the named layer for writing.
	NewGlyphSet(layerName string, defaultLayer bool) (GlyphSet, error)
	// DeleteGlyphSet removes a layer; removing an absent layer is benign.
	DeleteGlyphSet(layerName string) error
	// WriteLayerOrder persists the layer order.
	WriteLayerOrder(order []string) error

	WriteInfo(info *Info) error
	WriteFeatures(text string) error
	WriteGroups(groups Groups) error
	WriteKerning(kerning Kerning) error
	WriteLib(lib Lib) error
}
