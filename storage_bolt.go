package ufokit

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// BoltStore is a single-file backing store on top of bbolt, implementing
// both Reader and Writer. Font-wide attributes and glyphs are stored as
// msgpack-encoded trees; data and images as raw payloads.
//
// Buckets: "font" for font-wide attributes, "layers" for per-layer info,
// "data" and "images" for the byte collections, and one "glyphs.<layer>"
// bucket per layer.
type BoltStore struct {
	db *bolt.DB
}

var (
	boltFontBucket   = []byte("font")
	boltLayersBucket = []byte("layers")
	boltDataBucket   = []byte("data")
	boltImagesBucket = []byte("images")

	boltInfoKey       = []byte("info")
	boltFeaturesKey   = []byte("features")
	boltGroupsKey     = []byte("groups")
	boltKerningKey    = []byte("kerning")
	boltLibKey        = []byte("lib")
	boltLayerOrderKey = []byte("layerOrder")
	boltDefaultKey    = []byte("defaultLayer")

	boltGlyphsPrefix = "glyphs."
)

// OpenBoltStore opens (creating if needed) a store at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{boltFontBucket, boltLayersBucket, boltDataBucket, boltImagesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

func glyphsBucketName(layerName string) []byte {
	return []byte(boltGlyphsPrefix + layerName)
}

// Tree helpers over the font bucket.

func (s *BoltStore) getTree(key []byte) (any, error) {
	var tree any
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltFontBucket).Get(key)
		if raw == nil {
			return nil
		}
		var err error
		tree, err = UnmarshalTreeBinary(raw)
		return err
	})
	return tree, err
}

func (s *BoltStore) putTree(key []byte, tree any) error {
	raw, err := MarshalTreeBinary(tree)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltFontBucket).Put(key, raw)
	})
}

// Byte collections.

type boltResources struct {
	db     *bolt.DB
	bucket []byte
}

func (r *boltResources) ListKeys() ([]string, error) {
	var keys []string
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).ForEach(func(k, v []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (r *boltResources) ReadOne(key string) ([]byte, error) {
	var data []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(r.bucket).Get([]byte(key))
		if v == nil {
			return notFound("resource", key)
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *boltResources) WriteOne(key string, data []byte) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put([]byte(key), data)
	})
}

func (r *boltResources) DeleteOne(key string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Delete([]byte(key))
	})
}

func (s *BoltStore) DataReader() ResourceReader {
	return &boltResources{db: s.db, bucket: boltDataBucket}
}

func (s *BoltStore) ImageReader() ResourceReader {
	return &boltResources{db: s.db, bucket: boltImagesBucket}
}

func (s *BoltStore) DataWriter() ResourceWriter {
	return &boltResources{db: s.db, bucket: boltDataBucket}
}

func (s *BoltStore) ImageWriter() ResourceWriter {
	return &boltResources{db: s.db, bucket: boltImagesBucket}
}

// Layers.

func (s *BoltStore) LayerNames() ([]string, error) {
	tree, err := s.getTree(boltLayerOrderKey)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, nil
	}
	seq, ok := tree.([]any)
	if !ok {
		return nil, fmt.Errorf("ufokit: corrupt layer order entry")
	}
	names := make([]string, 0, len(seq))
	for _, v := range seq {
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("ufokit: corrupt layer order entry")
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *BoltStore) DefaultLayerName() (string, error) {
	tree, err := s.getTree(boltDefaultKey)
	if err != nil {
		return "", err
	}
	if tree == nil {
		return DefaultLayerName, nil
	}
	name, ok := tree.(string)
	if !ok {
		return "", fmt.Errorf("ufokit: corrupt default layer entry")
	}
	return name, nil
}

func (s *BoltStore) GlyphSet(layerName string) (GlyphSet, error) {
	err := s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(glyphsBucketName(layerName)) == nil {
			return notFound("layer", layerName)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &boltGlyphSet{store: s, layer: layerName}, nil
}

func (s *BoltStore) NewGlyphSet(layerName string, defaultLayer bool) (GlyphSet, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(glyphsBucketName(layerName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	names, err := s.LayerNames()
	if err != nil {
		return nil, err
	}
	known := false
	for _, n := range names {
		if n == layerName {
			known = true
			break
		}
	}
	if !known {
		if err := s.writeLayerNames(append(names, layerName)); err != nil {
			return nil, err
		}
	}
	if defaultLayer {
		if err := s.putTree(boltDefaultKey, layerName); err != nil {
			return nil, err
		}
	}
	return &boltGlyphSet{store: s, layer: layerName}, nil
}

func (s *BoltStore) writeLayerNames(names []string) error {
	seq := make([]any, len(names))
	for i, n := range names {
		seq[i] = n
	}
	return s.putTree(boltLayerOrderKey, seq)
}

func (s *BoltStore) DeleteGlyphSet(layerName string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(glyphsBucketName(layerName)) == nil {
			return nil
		}
		if err := tx.DeleteBucket(glyphsBucketName(layerName)); err != nil {
			return err
		}
		return tx.Bucket(boltLayersBucket).Delete([]byte(layerName))
	})
	if err != nil {
		return err
	}
	names, err := s.LayerNames()
	if err != nil {
		return err
	}
	for i, n := range names {
		if n == layerName {
			return s.writeLayerNames(append(names[:i], names[i+1:]...))
		}
	}
	return nil
}

func (s *BoltStore) WriteLayerOrder(order []string) error {
	return s.writeLayerNames(order)
}

// Font-wide attributes.

func (s *BoltStore) ReadInfo() (*Info, error) {
	tree, err := s.getTree(boltInfoKey)
	if err != nil || tree == nil {
		return nil, err
	}
	info := new(Info)
	if err := BinaryConverter.Structure(tree, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *BoltStore) WriteInfo(info *Info) error {
	tree, err := BinaryConverter.Destructure(info)
	if err != nil {
		return err
	}
	return s.putTree(boltInfoKey, tree)
}

func (s *BoltStore) ReadFeatures() (string, error) {
	tree, err := s.getTree(boltFeaturesKey)
	if err != nil || tree == nil {
		return "", err
	}
	text, ok := tree.(string)
	if !ok {
		return "", fmt.Errorf("ufokit: corrupt features entry")
	}
	return text, nil
}

func (s *BoltStore) WriteFeatures(text string) error {
	return s.putTree(boltFeaturesKey, text)
}

func (s *BoltStore) ReadGroups() (Groups, error) {
	tree, err := s.getTree(boltGroupsKey)
	if err != nil || tree == nil {
		return nil, err
	}
	var groups Groups
	if err := BinaryConverter.Structure(tree, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *BoltStore) WriteGroups(groups Groups) error {
	tree, err := BinaryConverter.Destructure(groups)
	if err != nil {
		return err
	}
	return s.putTree(boltGroupsKey, tree)
}

func (s *BoltStore) ReadKerning() (Kerning, error) {
	tree, err := s.getTree(boltKerningKey)
	if err != nil || tree == nil {
		return nil, err
	}
	var kerning Kerning
	if err := BinaryConverter.Structure(tree, &kerning); err != nil {
		return nil, err
	}
	return kerning, nil
}

func (s *BoltStore) WriteKerning(kerning Kerning) error {
	tree, err := BinaryConverter.Destructure(kerning)
	if err != nil {
		return err
	}
	return s.putTree(boltKerningKey, tree)
}

func (s *BoltStore) ReadLib() (Lib, error) {
	tree, err := s.getTree(boltLibKey)
	if err != nil || tree == nil {
		return nil, err
	}
	var lib Lib
	if err := lib.UnmarshalTree(BinaryConverter, tree); err != nil {
		return nil, err
	}
	return lib, nil
}

func (s *BoltStore) WriteLib(lib Lib) error {
	tree, err := lib.MarshalTree(BinaryConverter)
	if err != nil {
		return err
	}
	return s.putTree(boltLibKey, tree)
}

// Glyphs.

type boltGlyphSet struct {
	store *BoltStore
	layer string
}

func (gs *boltGlyphSet) bucketName() []byte { return glyphsBucketName(gs.layer) }

func (gs *boltGlyphSet) GlyphNames() ([]string, error) {
	var names []string
	err := gs.store.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(gs.bucketName())
		if b == nil {
			return notFound("layer", gs.layer)
		}
		return b.ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (gs *boltGlyphSet) ReadGlyph(name string) (*Glyph, error) {
	var raw []byte
	err := gs.store.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(gs.bucketName())
		if b == nil {
			return notFound("layer", gs.layer)
		}
		v := b.Get([]byte(name))
		if v == nil {
			return notFound("glyph", name)
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	tree, err := UnmarshalTreeBinary(raw)
	if err != nil {
		return nil, err
	}
	g := NewGlyph(name)
	if err := BinaryConverter.Structure(tree, g); err != nil {
		return nil, err
	}
	g.Name = name
	return g, nil
}

func (gs *boltGlyphSet) WriteGlyph(name string, g *Glyph) error {
	tree, err := BinaryConverter.Destructure(g)
	if err != nil {
		return err
	}
	raw, err := MarshalTreeBinary(tree)
	if err != nil {
		return err
	}
	return gs.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(gs.bucketName())
		if b == nil {
			return notFound("layer", gs.layer)
		}
		return b.Put([]byte(name), raw)
	})
}

func (gs *boltGlyphSet) DeleteGlyph(name string) error {
	return gs.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(gs.bucketName())
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
}

func (gs *boltGlyphSet) ReadLayerInfo() (string, Lib, error) {
	var raw []byte
	err := gs.store.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltLayersBucket).Get([]byte(gs.layer))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return "", nil, err
	}
	tree, err := UnmarshalTreeBinary(raw)
	if err != nil {
		return "", nil, err
	}
	d, ok := tree.(*Dict)
	if !ok {
		return "", nil, fmt.Errorf("ufokit: corrupt layer info for %q", gs.layer)
	}
	var color string
	if v, ok := d.Get("color"); ok {
		if s, ok := v.(string); ok {
			color = s
		}
	}
	var lib Lib
	if v, ok := d.Get("lib"); ok && v != nil {
		if err := lib.UnmarshalTree(BinaryConverter, v); err != nil {
			return "", nil, err
		}
	}
	return color, lib, nil
}

func (gs *boltGlyphSet) WriteLayerInfo(color string, lib Lib) error {
	d := NewDict()
	d.Set("color", color)
	libTree, err := lib.MarshalTree(BinaryConverter)
	if err != nil {
		return err
	}
	d.Set("lib", libTree)
	raw, err := MarshalTreeBinary(d)
	if err != nil {
		return err
	}
	return gs.store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltLayersBucket).Put([]byte(gs.layer), raw)
	})
}
