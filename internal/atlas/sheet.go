package atlas

// Sheet is the parsed frame table of one sprite sheet.
type Sheet struct {
	SubTextures []SubTexture
	Required    Canvas
}

// NewSheet parses plist text into a Sheet.
func NewSheet(text string) (*Sheet, error) {
	entries, err := ParseFrames(text)
	if err != nil {
		return nil, err
	}
	subs := Normalize(entries)
	return &Sheet{SubTextures: subs, Required: Require(subs)}, nil
}

// Load returns the sub-textures of text, or nil if the text cannot be parsed.
func Load(text string) []SubTexture {
	s, err := NewSheet(text)
	if err != nil {
		return nil
	}
	return s.SubTextures
}

// Empty reports whether the sheet has nothing to slice.
func (s *Sheet) Empty() bool {
	return len(s.SubTextures) == 0
}

// Records returns the output records for a width x height texture. It refuses
// with an *InsufficientCanvasError when the texture cannot hold every frame.
func (s *Sheet) Records(width, height int, align Alignment, custom Point) ([]OutputRecord, error) {
	if err := s.Required.Check(width, height); err != nil {
		return nil, err
	}
	return Records(s.SubTextures, height, align, custom), nil
}
