package ufokit

const imageKind = "image"

// ImageSet is the font's collection of image files, loaded lazily from
// the backing store's image channel.
type ImageSet struct {
	DataStore
}

func NewImageSet() *ImageSet {
	return &ImageSet{DataStore: newDataStore(imageKind)}
}

// ReadImageSet binds an ImageSet to the reader's image channel.
func ReadImageSet(r Reader, lazy bool) (*ImageSet, error) {
	store, err := readDataStore(imageKind, r.ImageReader(), lazy)
	if err != nil {
		return nil, err
	}
	return &ImageSet{DataStore: store}, nil
}

// WriteTo persists the set through the writer's image channel.
func (s *ImageSet) WriteTo(w Writer, saveAs bool) error {
	return s.Write(w.ImageWriter(), saveAs)
}

// Copy returns a fully materialized, reader-free duplicate.
func (s *ImageSet) Copy() (*ImageSet, error) {
	store, err := s.clone()
	if err != nil {
		return nil, err
	}
	return &ImageSet{DataStore: store}, nil
}

func (s *ImageSet) UnmarshalTree(c *Converter, tree any) error {
	return s.unmarshalTree(imageKind, c, tree)
}

func (s *ImageSet) GobEncode() ([]byte, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return gobEncodeValue(snap)
}

func (s *ImageSet) GobDecode(data []byte) error {
	var snap dataStoreSnapshot
	if err := gobDecodeValue(data, &snap); err != nil {
		return err
	}
	s.restore(imageKind, snap)
	return nil
}
