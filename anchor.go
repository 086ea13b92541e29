package ufokit

// Anchor is a single named attachment point.
type Anchor struct {
	X          float64 `ufo:"x,required"`
	Y          float64 `ufo:"y,required"`
	Name       string  `ufo:"name,omitempty"`
	Color      string  `ufo:"color,omitempty"`
	Identifier string  `ufo:"identifier,omitempty"`
}

func init() {
	registerEntity(func() *Anchor { return &Anchor{} })
}

// Move shifts the anchor by (dx, dy) font units.
func (a *Anchor) Move(dx, dy float64) {
	a.X += dx
	a.Y += dy
}

func (a *Anchor) ObjectIdentifier() string      { return a.Identifier }
func (a *Anchor) SetObjectIdentifier(id string) { a.Identifier = id }
