package ufokit

import "fmt"

// Guideline is a single guideline. X, Y and Angle are optional; a nil
// field means "unset", which is distinct from zero.
type Guideline struct {
	X          *float64 `ufo:"x,omitempty"`
	Y          *float64 `ufo:"y,omitempty"`
	Angle      *float64 `ufo:"angle,omitempty"`
	Name       string   `ufo:"name,omitempty"`
	Color      string   `ufo:"color,omitempty"`
	Identifier string   `ufo:"identifier,omitempty"`
}

func init() {
	registerEntity(func() *Guideline { return &Guideline{} })
}

// Validate checks the composition rules: at least one of x/y must be set,
// and an angle requires both and must lie within [0, 360].
func (g *Guideline) Validate() error {
	if g.X == nil && g.Y == nil {
		return fmt.Errorf("guideline: at least one of x or y must be set")
	}
	if g.Angle != nil {
		if g.X == nil || g.Y == nil {
			return fmt.Errorf("guideline: angle requires both x and y")
		}
		if *g.Angle < 0 || *g.Angle > 360 {
			return fmt.Errorf("guideline: angle must be between 0 and 360, got %v", *g.Angle)
		}
	}
	return nil
}

func (g *Guideline) ObjectIdentifier() string      { return g.Identifier }
func (g *Guideline) SetObjectIdentifier(id string) { g.Identifier = id }

// Float returns a pointer to v, for filling optional numeric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for filling optional integer fields.
func Int(v int) *int { return &v }
