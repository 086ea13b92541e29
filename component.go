package ufokit

// Component is a reference to another glyph within the same layer,
// placed under an affine transformation.
type Component struct {
	BaseGlyph      string    `ufo:"baseGlyph,required"`
	Transformation Transform `ufo:"transformation,omitempty"`
	Identifier     string    `ufo:"identifier,omitempty"`
}

func init() {
	registerEntity(func() *Component {
		return &Component{Transformation: Identity}
	})
}

func NewComponent(baseGlyph string) Component {
	return Component{BaseGlyph: baseGlyph, Transformation: Identity}
}

// Move shifts the component's offset by (dx, dy) font units.
func (c *Component) Move(dx, dy float64) {
	c.Transformation[4] += dx
	c.Transformation[5] += dy
}

func (c *Component) ObjectIdentifier() string      { return c.Identifier }
func (c *Component) SetObjectIdentifier(id string) { c.Identifier = id }
