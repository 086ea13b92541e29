package ufokit

import "fmt"

// GaspBehavior is one bit of rendering behavior for a gasp range.
type GaspBehavior int

const (
	GaspGridfit GaspBehavior = iota
	GaspDoGray
	GaspSymmetricGridfit
	GaspSymmetricSmoothing
)

// GaspRangeRecord describes rendering behavior up to a ppem threshold.
type GaspRangeRecord struct {
	RangeMaxPPEM      int            `ufo:"rangeMaxPPEM,required"`
	RangeGaspBehavior []GaspBehavior `ufo:"rangeGaspBehavior,required"`
}

// NameRecord is an OpenType name table entry.
type NameRecord struct {
	NameID     int    `ufo:"nameID,required"`
	PlatformID int    `ufo:"platformID,required"`
	EncodingID int    `ufo:"encodingID,required"`
	LanguageID int    `ufo:"languageID,required"`
	String     string `ufo:"string,required"`
}

// WidthClass is the OS/2 usWidthClass value, 1 through 9.
type WidthClass int

const (
	UltraCondensed WidthClass = iota + 1
	ExtraCondensed
	Condensed
	SemiCondensed
	NormalWidth
	SemiExpanded
	Expanded
	ExtraExpanded
	UltraExpanded
)

// Info holds font-wide metadata. Numeric attributes where zero is a
// meaningful value are pointers so that unset and zero stay distinct.
type Info struct {
	FamilyName         string `ufo:"familyName,omitempty"`
	StyleName          string `ufo:"styleName,omitempty"`
	StyleMapFamilyName string `ufo:"styleMapFamilyName,omitempty"`
	StyleMapStyleName  string `ufo:"styleMapStyleName,omitempty"`
	VersionMajor       *int   `ufo:"versionMajor,omitempty"`
	VersionMinor       *int   `ufo:"versionMinor,omitempty"`

	Copyright string `ufo:"copyright,omitempty"`
	Trademark string `ufo:"trademark,omitempty"`
	Note      string `ufo:"note,omitempty"`

	UnitsPerEm  *float64 `ufo:"unitsPerEm,omitempty"`
	Descender   *float64 `ufo:"descender,omitempty"`
	XHeight     *float64 `ufo:"xHeight,omitempty"`
	CapHeight   *float64 `ufo:"capHeight,omitempty"`
	Ascender    *float64 `ufo:"ascender,omitempty"`
	ItalicAngle *float64 `ufo:"italicAngle,omitempty"`

	Guidelines []Guideline `ufo:"guidelines,omitempty"`

	OpenTypeGaspRangeRecords []GaspRangeRecord `ufo:"openTypeGaspRangeRecords,omitempty"`
	OpenTypeNameRecords      []NameRecord      `ufo:"openTypeNameRecords,omitempty"`
	OpenTypeOS2WidthClass    *WidthClass       `ufo:"openTypeOS2WidthClass,omitempty"`
	OpenTypeOS2WeightClass   *int              `ufo:"openTypeOS2WeightClass,omitempty"`
	OpenTypeOS2VendorID      string            `ufo:"openTypeOS2VendorID,omitempty"`

	PostscriptFontName           string   `ufo:"postscriptFontName,omitempty"`
	PostscriptFullName           string   `ufo:"postscriptFullName,omitempty"`
	PostscriptUnderlineThickness *float64 `ufo:"postscriptUnderlineThickness,omitempty"`
	PostscriptUnderlinePosition  *float64 `ufo:"postscriptUnderlinePosition,omitempty"`
}

func init() {
	registerEntity(func() *GaspRangeRecord { return &GaspRangeRecord{} })
	registerEntity(func() *NameRecord { return &NameRecord{} })
	registerEntity(func() *Info { return &Info{} })
}

// Validate checks cross-attribute constraints.
func (info *Info) Validate() error {
	if w := info.OpenTypeOS2WidthClass; w != nil && (*w < UltraCondensed || *w > UltraExpanded) {
		return fmt.Errorf("ufokit: width class %d out of range 1..9", *w)
	}
	for i := range info.Guidelines {
		if err := info.Guidelines[i].Validate(); err != nil {
			return fmt.Errorf("ufokit: guideline %d: %w", i, err)
		}
	}
	return nil
}

// Copy returns a deep copy.
func (info *Info) Copy() *Info {
	out := *info
	if info.VersionMajor != nil {
		out.VersionMajor = Int(*info.VersionMajor)
	}
	if info.VersionMinor != nil {
		out.VersionMinor = Int(*info.VersionMinor)
	}
	out.UnitsPerEm = copyFloat(info.UnitsPerEm)
	out.Descender = copyFloat(info.Descender)
	out.XHeight = copyFloat(info.XHeight)
	out.CapHeight = copyFloat(info.CapHeight)
	out.Ascender = copyFloat(info.Ascender)
	out.ItalicAngle = copyFloat(info.ItalicAngle)
	out.Guidelines = make([]Guideline, len(info.Guidelines))
	for i, g := range info.Guidelines {
		out.Guidelines[i] = copyGuideline(g)
	}
	if len(out.Guidelines) == 0 {
		out.Guidelines = nil
	}
	out.OpenTypeGaspRangeRecords = make([]GaspRangeRecord, len(info.OpenTypeGaspRangeRecords))
	for i, r := range info.OpenTypeGaspRangeRecords {
		out.OpenTypeGaspRangeRecords[i] = GaspRangeRecord{
			RangeMaxPPEM:      r.RangeMaxPPEM,
			RangeGaspBehavior: append([]GaspBehavior(nil), r.RangeGaspBehavior...),
		}
	}
	if len(out.OpenTypeGaspRangeRecords) == 0 {
		out.OpenTypeGaspRangeRecords = nil
	}
	out.OpenTypeNameRecords = append([]NameRecord(nil), info.OpenTypeNameRecords...)
	if info.OpenTypeOS2WidthClass != nil {
		w := *info.OpenTypeOS2WidthClass
		out.OpenTypeOS2WidthClass = &w
	}
	if info.OpenTypeOS2WeightClass != nil {
		out.OpenTypeOS2WeightClass = Int(*info.OpenTypeOS2WeightClass)
	}
	out.PostscriptUnderlineThickness = copyFloat(info.PostscriptUnderlineThickness)
	out.PostscriptUnderlinePosition = copyFloat(info.PostscriptUnderlinePosition)
	return &out
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return Float(*p)
}
