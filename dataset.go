package ufokit

const dataKind = "data"

// DataSet is the font's collection of binary attachments, loaded lazily
// from the backing store's data channel.
type DataSet struct {
	DataStore
}

func NewDataSet() *DataSet {
	return &DataSet{DataStore: newDataStore(dataKind)}
}

// ReadDataSet binds a DataSet to the reader's data channel. With lazy set,
// payloads are fetched on first access.
func ReadDataSet(r Reader, lazy bool) (*DataSet, error) {
	store, err := readDataStore(dataKind, r.DataReader(), lazy)
	if err != nil {
		return nil, err
	}
	return &DataSet{DataStore: store}, nil
}

// WriteTo persists the set through the writer's data channel; see
// DataStore.Write for the saveAs semantics.
func (s *DataSet) WriteTo(w Writer, saveAs bool) error {
	return s.Write(w.DataWriter(), saveAs)
}

// Copy returns a fully materialized, reader-free duplicate.
func (s *DataSet) Copy() (*DataSet, error) {
	store, err := s.clone()
	if err != nil {
		return nil, err
	}
	return &DataSet{DataStore: store}, nil
}

func (s *DataSet) UnmarshalTree(c *Converter, tree any) error {
	return s.unmarshalTree(dataKind, c, tree)
}

func (s *DataSet) GobEncode() ([]byte, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return gobEncodeValue(snap)
}

func (s *DataSet) GobDecode(data []byte) error {
	var snap dataStoreSnapshot
	if err := gobDecodeValue(data, &snap); err != nil {
		return err
	}
	s.restore(dataKind, snap)
	return nil
}
