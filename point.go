package ufokit

// Point is a single outline point. Type "" means offcurve; insertion order
// of points within a contour is semantically meaningful.
type Point struct {
	X          float64 `ufo:"x,required"`
	Y          float64 `ufo:"y,required"`
	Type       string  `ufo:"type,omitempty"`
	Smooth     bool    `ufo:"smooth,omitempty"`
	Name       string  `ufo:"name,omitempty"`
	Identifier string  `ufo:"identifier,omitempty"`
}

func init() {
	registerEntity(func() *Point { return &Point{} })
}

// Move shifts the point by (dx, dy) font units.
func (p *Point) Move(dx, dy float64) {
	p.X += dx
	p.Y += dy
}

func (p *Point) ObjectIdentifier() string      { return p.Identifier }
func (p *Point) SetObjectIdentifier(id string) { p.Identifier = id }
