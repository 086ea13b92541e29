package ufokit

// Glyph holds the contours, components, anchors and metadata of one
// glyph. Glyphs themselves are not lazy; the Layer that owns them is.
type Glyph struct {
	Name       string      `ufo:"name,omitempty"`
	Width      float64     `ufo:"width,omitempty"`
	Height     float64     `ufo:"height,omitempty"`
	Unicodes   []int       `ufo:"unicodes,omitempty"`
	Image      Image       `ufo:"image,omitempty"`
	Lib        Lib         `ufo:"lib,omitempty"`
	Note       string      `ufo:"note,omitempty"`
	Anchors    []Anchor    `ufo:"anchors,omitempty"`
	Components []Component `ufo:"components,omitempty"`
	Contours   []Contour   `ufo:"contours,omitempty"`
	Guidelines []Guideline `ufo:"guidelines,omitempty"`
}

func init() {
	registerEntity(func() *Glyph { return NewGlyph("") })
}

func NewGlyph(name string) *Glyph {
	return &Glyph{Name: name, Image: NewImage()}
}

// Unicode returns the first assigned code point, or -1 if none.
func (g *Glyph) Unicode() int {
	if len(g.Unicodes) > 0 {
		return g.Unicodes[0]
	}
	return -1
}

// SetUnicode makes value the first assigned code point, removing any
// duplicate of it further down the list.
func (g *Glyph) SetUnicode(value int) {
	if len(g.Unicodes) > 0 && g.Unicodes[0] == value {
		return
	}
	out := make([]int, 0, len(g.Unicodes)+1)
	out = append(out, value)
	for _, u := range g.Unicodes {
		if u != value {
			out = append(out, u)
		}
	}
	g.Unicodes = out
}

// Clear removes anchors, components, contours, guidelines and the image
// reference.
func (g *Glyph) Clear() {
	g.Anchors = nil
	g.Components = nil
	g.Contours = nil
	g.Guidelines = nil
	g.Image.Clear()
}

// Move shifts all contours, components and anchors by (dx, dy) font
// units.
func (g *Glyph) Move(dx, dy float64) {
	for i := range g.Contours {
		g.Contours[i].Move(dx, dy)
	}
	for i := range g.Components {
		g.Components[i].Move(dx, dy)
	}
	for i := range g.Anchors {
		g.Anchors[i].Move(dx, dy)
	}
}

// Lib-wrapped attributes.

const (
	markColorKey      = "public.markColor"
	verticalOriginKey = "public.verticalOrigin"
)

// MarkColor returns the glyph's assigned mark color, or "".
func (g *Glyph) MarkColor() string {
	if v, ok := g.Lib[markColorKey].(string); ok {
		return v
	}
	return ""
}

// SetMarkColor sets the mark color; an empty value removes the key.
func (g *Glyph) SetMarkColor(value string) {
	if value == "" {
		delete(g.Lib, markColorKey)
		return
	}
	if g.Lib == nil {
		g.Lib = Lib{}
	}
	g.Lib[markColorKey] = value
}

// VerticalOrigin returns the glyph's vertical origin and whether it is
// set.
func (g *Glyph) VerticalOrigin() (float64, bool) {
	switch v := g.Lib[verticalOriginKey].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func (g *Glyph) SetVerticalOrigin(value float64) {
	if g.Lib == nil {
		g.Lib = Lib{}
	}
	g.Lib[verticalOriginKey] = value
}

func (g *Glyph) ClearVerticalOrigin() {
	delete(g.Lib, verticalOriginKey)
}

// Copy returns a deep copy; name, if non-empty, overrides the copy's
// name.
func (g *Glyph) Copy(name string) *Glyph {
	out := *g
	if name != "" {
		out.Name = name
	}
	out.Unicodes = append([]int(nil), g.Unicodes...)
	out.Lib = g.Lib.Copy()
	out.Anchors = append([]Anchor(nil), g.Anchors...)
	out.Components = append([]Component(nil), g.Components...)
	// Nil slices stay nil: the copy must destructure identically to the
	// original, and a materialized empty slice no longer matches the nil
	// declared default.
	if g.Contours != nil {
		out.Contours = make([]Contour, len(g.Contours))
		for i, c := range g.Contours {
			out.Contours[i] = Contour{
				Points:     append([]Point(nil), c.Points...),
				Identifier: c.Identifier,
			}
		}
	}
	out.Guidelines = append([]Guideline(nil), g.Guidelines...)
	for i, gl := range out.Guidelines {
		out.Guidelines[i] = copyGuideline(gl)
	}
	return &out
}

// CopyDataFrom deep-copies everything from other into g except the name.
func (g *Glyph) CopyDataFrom(other *Glyph) {
	copied := other.Copy(g.Name)
	copied.Name = g.Name
	*g = *copied
}

func copyGuideline(g Guideline) Guideline {
	out := g
	if g.X != nil {
		out.X = Float(*g.X)
	}
	if g.Y != nil {
		out.Y = Float(*g.Y)
	}
	if g.Angle != nil {
		out.Angle = Float(*g.Angle)
	}
	return out
}
