package ufokit

// Contour is an ordered list of points. Point order is exactly as stored.
type Contour struct {
	Points     []Point `ufo:"points,omitempty"`
	Identifier string  `ufo:"identifier,omitempty"`
}

func init() {
	registerEntity(func() *Contour { return &Contour{} })
}

// Open reports whether the contour is open (starts with a move point).
func (c *Contour) Open() bool {
	if len(c.Points) == 0 {
		return true
	}
	return c.Points[0].Type == "move"
}

// Move shifts all points by (dx, dy) font units.
func (c *Contour) Move(dx, dy float64) {
	for i := range c.Points {
		c.Points[i].Move(dx, dy)
	}
}

func (c *Contour) ObjectIdentifier() string      { return c.Identifier }
func (c *Contour) SetObjectIdentifier(id string) { c.Identifier = id }
