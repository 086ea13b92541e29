package ufokit

// MemStore is an in-memory backing store implementing both Reader and
// Writer. Everything written is deep-copied in, and everything read is
// deep-copied out, so a store never shares state with the fonts using
// it. Useful for tests and for staging a font before writing it to a
// persistent store.
type MemStore struct {
	data         memResources
	images       memResources
	layers       map[string]*memLayer
	layerOrder   []string
	defaultLayer string
	info         *Info
	features     string
	groups       Groups
	kerning      Kerning
	lib          Lib
}

type memLayer struct {
	glyphs map[string]*Glyph
	order  []string
	color  string
	lib    Lib
}

func NewMemStore() *MemStore {
	return &MemStore{
		data:         memResources{entries: make(map[string][]byte)},
		images:       memResources{entries: make(map[string][]byte)},
		layers:       make(map[string]*memLayer),
		defaultLayer: DefaultLayerName,
	}
}

// memResources is one keyed byte collection.
type memResources struct {
	entries map[string][]byte
	order   []string
}

func (m *memResources) ListKeys() ([]string, error) {
	return append([]string(nil), m.order...), nil
}

func (m *memResources) ReadOne(key string) ([]byte, error) {
	data, ok := m.entries[key]
	if !ok {
		return nil, notFound("resource", key)
	}
	return append([]byte(nil), data...), nil
}

func (m *memResources) WriteOne(key string, data []byte) error {
	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}
	m.entries[key] = append([]byte(nil), data...)
	return nil
}

func (m *memResources) DeleteOne(key string) error {
	if _, ok := m.entries[key]; !ok {
		return nil
	}
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemStore) DataReader() ResourceReader  { return &s.data }
func (s *MemStore) ImageReader() ResourceReader { return &s.images }
func (s *MemStore) DataWriter() ResourceWriter  { return &s.data }
func (s *MemStore) ImageWriter() ResourceWriter { return &s.images }

func (s *MemStore) LayerNames() ([]string, error) {
	return append([]string(nil), s.layerOrder...), nil
}

func (s *MemStore) DefaultLayerName() (string, error) {
	return s.defaultLayer, nil
}

func (s *MemStore) GlyphSet(layerName string) (GlyphSet, error) {
	l, ok := s.layers[layerName]
	if !ok {
		return nil, notFound("layer", layerName)
	}
	return &memGlyphSet{l}, nil
}

func (s *MemStore) NewGlyphSet(layerName string, defaultLayer bool) (GlyphSet, error) {
	l, ok := s.layers[layerName]
	if !ok {
		l = &memLayer{glyphs: make(map[string]*Glyph)}
		s.layers[layerName] = l
		s.layerOrder = append(s.layerOrder, layerName)
	}
	if defaultLayer {
		s.defaultLayer = layerName
	}
	return &memGlyphSet{l}, nil
}

func (s *MemStore) DeleteGlyphSet(layerName string) error {
	if _, ok := s.layers[layerName]; !ok {
		return nil
	}
	delete(s.layers, layerName)
	for i, n := range s.layerOrder {
		if n == layerName {
			s.layerOrder = append(s.layerOrder[:i], s.layerOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemStore) WriteLayerOrder(order []string) error {
	for _, name := range order {
		if _, ok := s.layers[name]; !ok {
			return notFound("layer", name)
		}
	}
	s.layerOrder = append([]string(nil), order...)
	return nil
}

func (s *MemStore) ReadInfo() (*Info, error) {
	if s.info == nil {
		return nil, nil
	}
	return s.info.Copy(), nil
}

func (s *MemStore) WriteInfo(info *Info) error {
	if info == nil {
		s.info = nil
		return nil
	}
	s.info = info.Copy()
	return nil
}

func (s *MemStore) ReadFeatures() (string, error) { return s.features, nil }

func (s *MemStore) WriteFeatures(text string) error {
	s.features = text
	return nil
}

func (s *MemStore) ReadGroups() (Groups, error) { return s.groups.Copy(), nil }

func (s *MemStore) WriteGroups(groups Groups) error {
	s.groups = groups.Copy()
	return nil
}

func (s *MemStore) ReadKerning() (Kerning, error) { return s.kerning.Copy(), nil }

func (s *MemStore) WriteKerning(kerning Kerning) error {
	s.kerning = kerning.Copy()
	return nil
}

func (s *MemStore) ReadLib() (Lib, error) { return s.lib.Copy(), nil }

func (s *MemStore) WriteLib(lib Lib) error {
	s.lib = lib.Copy()
	return nil
}

type memGlyphSet struct {
	l *memLayer
}

func (gs *memGlyphSet) GlyphNames() ([]string, error) {
	return append([]string(nil), gs.l.order...), nil
}

func (gs *memGlyphSet) ReadGlyph(name string) (*Glyph, error) {
	g, ok := gs.l.glyphs[name]
	if !ok {
		return nil, notFound("glyph", name)
	}
	return g.Copy(""), nil
}

func (gs *memGlyphSet) WriteGlyph(name string, g *Glyph) error {
	if _, ok := gs.l.glyphs[name]; !ok {
		gs.l.order = append(gs.l.order, name)
	}
	gs.l.glyphs[name] = g.Copy(name)
	return nil
}

func (gs *memGlyphSet) DeleteGlyph(name string) error {
	if _, ok := gs.l.glyphs[name]; !ok {
		return nil
	}
	delete(gs.l.glyphs, name)
	for i, n := range gs.l.order {
		if n == name {
			gs.l.order = append(gs.l.order[:i], gs.l.order[i+1:]...)
			break
		}
	}
	return nil
}

func (gs *memGlyphSet) ReadLayerInfo() (string, Lib, error) {
	return gs.l.color, gs.l.lib.Copy(), nil
}

func (gs *memGlyphSet) WriteLayerInfo(color string, lib Lib) error {
	gs.l.color = color
	gs.l.lib = lib.Copy()
	return nil
}
