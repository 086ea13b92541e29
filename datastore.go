package ufokit

import "bytes"

// dataEntry is one slot of a DataStore: either a materialized payload or a
// not-yet-loaded marker. A tagged state instead of a sentinel value means
// no payload can ever be mistaken for "not loaded".
type dataEntry struct {
	data   []byte
	loaded bool
}

// DataStore is a lazy mapping from string keys to byte payloads, backed by
// a ResourceReader. DataSet and ImageSet specialize it to the two resource
// collections of a font.
//
// Keys are enumerated eagerly at read time; payloads are fetched from the
// reader on first access and cached, so the reader sees at most one read
// per key. Deleted keys are remembered and removed from backing storage on
// the next in-place write.
type DataStore struct {
	kind     string
	order    []string
	entries  map[string]dataEntry
	lazy     bool
	reader   ResourceReader
	toDelete map[string]struct{}
}

func newDataStore(kind string) DataStore {
	return DataStore{
		kind:     kind,
		entries:  make(map[string]dataEntry),
		toDelete: make(map[string]struct{}),
	}
}

// readDataStore binds a store to a reader, creating one unloaded entry per
// key the reader reports. No payload bytes are read. A store with no keys
// comes back non-lazy with no reader reference.
func readDataStore(kind string, r ResourceReader, lazy bool) (DataStore, error) {
	s := newDataStore(kind)
	keys, err := r.ListKeys()
	if err != nil {
		return s, err
	}
	for _, key := range keys {
		if lazy {
			s.order = append(s.order, key)
			s.entries[key] = dataEntry{}
		} else {
			data, err := r.ReadOne(key)
			if err != nil {
				return s, err
			}
			s.order = append(s.order, key)
			s.entries[key] = dataEntry{data: data, loaded: true}
		}
	}
	if lazy && len(s.order) > 0 {
		s.lazy = true
		s.reader = r
	}
	return s, nil
}

// Get returns the payload for key, reading it from the backing store on
// first access. Reader failures propagate unchanged. The returned slice
// is the caller's to keep; the store retains its own copy.
func (s *DataStore) Get(key string) ([]byte, error) {
	data, err := s.load(key)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), data...), nil
}

// load returns the cached payload, fetching it on first access.
func (s *DataStore) load(key string) ([]byte, error) {
	e, ok := s.entries[key]
	if !ok {
		return nil, notFound(s.kind, key)
	}
	if !e.loaded {
		data, err := s.reader.ReadOne(key)
		if err != nil {
			return nil, err
		}
		e = dataEntry{data: data, loaded: true}
		s.entries[key] = e
	}
	return e.data, nil
}

// Set stores a copy of the payload, never touching the reader. Setting a
// key cancels any pending deletion for it.
func (s *DataStore) Set(key string, data []byte) {
	if _, ok := s.entries[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entries[key] = dataEntry{data: append([]byte(nil), data...), loaded: true}
	delete(s.toDelete, key)
}

// Delete removes key and schedules it for removal from backing storage on
// the next in-place write.
func (s *DataStore) Delete(key string) error {
	if _, ok := s.entries[key]; !ok {
		return notFound(s.kind, key)
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.toDelete[key] = struct{}{}
	return nil
}

func (s *DataStore) Contains(key string) bool {
	_, ok := s.entries[key]
	return ok
}

func (s *DataStore) Len() int { return len(s.entries) }

// Keys returns the keys in insertion order.
func (s *DataStore) Keys() []string {
	return append([]string(nil), s.order...)
}

// Lazy reports whether some entries may still be unloaded.
func (s *DataStore) Lazy() bool { return s.lazy }

// Unlazify loads every remaining unloaded entry and drops the reader
// reference.
func (s *DataStore) Unlazify() error {
	if s.lazy {
		for _, key := range s.order {
			if _, err := s.load(key); err != nil {
				return err
			}
		}
	}
	s.lazy = false
	s.reader = nil
	return nil
}

// Write persists the store. In-place (saveAs=false), pending deletions are
// applied first and only materialized entries are written; unloaded
// entries are left alone on disk. Save-as-new (saveAs=true) materializes
// everything, writes it all, and drops the reader reference.
func (s *DataStore) Write(w ResourceWriter, saveAs bool) error {
	if !saveAs {
		for key := range s.toDelete {
			if err := w.DeleteOne(key); err != nil {
				return err
			}
		}
	}
	for _, key := range s.order {
		e := s.entries[key]
		if !e.loaded {
			if !saveAs {
				continue
			}
			data, err := s.reader.ReadOne(key)
			if err != nil {
				return err
			}
			e = dataEntry{data: data, loaded: true}
			s.entries[key] = e
		}
		if err := w.WriteOne(key, e.data); err != nil {
			return err
		}
	}
	s.toDelete = make(map[string]struct{})
	if saveAs {
		s.lazy = false
		s.reader = nil
	}
	return nil
}

// clone unlazifies the receiver, then returns an independent store with
// copied payloads and no reader reference.
func (s *DataStore) clone() (DataStore, error) {
	if err := s.Unlazify(); err != nil {
		return DataStore{}, err
	}
	out := newDataStore(s.kind)
	out.order = append([]string(nil), s.order...)
	for key, e := range s.entries {
		out.entries[key] = dataEntry{data: append([]byte(nil), e.data...), loaded: true}
	}
	return out, nil
}

// Equal unlazifies both stores and compares their contents.
func (s *DataStore) Equal(other *DataStore) (bool, error) {
	if err := s.Unlazify(); err != nil {
		return false, err
	}
	if err := other.Unlazify(); err != nil {
		return false, err
	}
	if len(s.entries) != len(other.entries) {
		return false, nil
	}
	for key, e := range s.entries {
		oe, ok := other.entries[key]
		if !ok || !bytes.Equal(e.data, oe.data) {
			return false, nil
		}
	}
	return true, nil
}

// MarshalTree materializes the store and emits a mapping of key to byte
// leaf, keys in insertion order.
func (s *DataStore) MarshalTree(c *Converter) (any, error) {
	if err := s.Unlazify(); err != nil {
		return nil, err
	}
	d := NewDict()
	for _, key := range s.order {
		d.Set(key, c.EncodeBytes(s.entries[key].data))
	}
	return d, nil
}

func (s *DataStore) unmarshalTree(kind string, c *Converter, tree any) error {
	*s = newDataStore(kind)
	d, ok := tree.(*Dict)
	if !ok {
		return typeMismatch("", "mapping of "+kind, tree)
	}
	for _, key := range d.Keys() {
		v, _ := d.Get(key)
		data, err := c.DecodeBytes(v)
		if err != nil {
			return err
		}
		s.Set(key, data)
	}
	return nil
}

// dataStoreSnapshot is the gob wire form of a DataStore; gob cannot see
// the unexported lazy state, and a snapshot is always fully materialized
// anyway.
type dataStoreSnapshot struct {
	Keys   []string
	Values map[string][]byte
}

func (s *DataStore) snapshot() (dataStoreSnapshot, error) {
	if err := s.Unlazify(); err != nil {
		return dataStoreSnapshot{}, err
	}
	snap := dataStoreSnapshot{
		Keys:   append([]string(nil), s.order...),
		Values: make(map[string][]byte, len(s.entries)),
	}
	for key, e := range s.entries {
		snap.Values[key] = append([]byte(nil), e.data...)
	}
	return snap, nil
}

func (s *DataStore) restore(kind string, snap dataStoreSnapshot) {
	*s = newDataStore(kind)
	for _, key := range snap.Keys {
		s.Set(key, snap.Values[key])
	}
}
