package ufokit

// Features holds the OpenType feature definition text. Externally it is
// a bare string, not a mapping.
type Features struct {
	Text string
}

func (f Features) String() string { return f.Text }

func (f Features) MarshalTree(c *Converter) (any, error) {
	return f.Text, nil
}

func (f *Features) UnmarshalTree(c *Converter, tree any) error {
	switch v := tree.(type) {
	case nil:
		f.Text = ""
		return nil
	case string:
		f.Text = v
		return nil
	default:
		return typeMismatch("", "string", tree)
	}
}
