package ufokit

// Image is a background image reference. An image with no file name is
// considered empty.
type Image struct {
	FileName       string    `ufo:"fileName,omitempty"`
	Transformation Transform `ufo:"transformation,omitempty"`
	Color          string    `ufo:"color,omitempty"`
}

func init() {
	registerEntity(func() *Image {
		return &Image{Transformation: Identity}
	})
}

func NewImage() Image {
	return Image{Transformation: Identity}
}

func (img *Image) IsEmpty() bool { return img.FileName == "" }

// Clear resets the image reference to empty.
func (img *Image) Clear() {
	*img = NewImage()
}
