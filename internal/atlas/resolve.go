package atlas

// Canvas is a texture size in pixels.
type Canvas struct {
	Width, Height int
}

// Fits reports whether a width x height texture holds the whole canvas.
func (c Canvas) Fits(width, height int) bool {
	return width >= c.Width && height >= c.Height
}

// Check returns an *InsufficientCanvasError when width x height is too small.
func (c Canvas) Check(width, height int) error {
	if c.Fits(width, height) {
		return nil
	}
	return &InsufficientCanvasError{Required: c, Actual: Canvas{Width: width, Height: height}}
}

// Normalize resolves rotation: a rotated frame's packed dimensions are swapped
// back to the sprite's own width and height.
func Normalize(entries []FrameEntry) []SubTexture {
	subs := make([]SubTexture, len(entries))
	for i, e := range entries {
		w, h := e.Rect[2], e.Rect[3]
		if e.Rotated {
			w, h = h, w
		}
		subs[i] = SubTexture{
			Name:   e.Name,
			X:      e.Rect[0],
			Y:      e.Rect[1],
			Width:  w,
			Height: h,
		}
	}
	return subs
}

// Require returns the smallest canvas containing every sub-texture.
func Require(subs []SubTexture) Canvas {
	var c Canvas
	for _, s := range subs {
		c.Width = max(c.Width, s.X+s.Width)
		c.Height = max(c.Height, s.Y+s.Height)
	}
	return c
}

// FlipY converts a top edge between top-left and bottom-left origin for a
// rectangle of the given height. Applying it twice returns y.
func FlipY(y, height, canvasHeight int) int {
	return canvasHeight - (y + height)
}

// Records builds the slicer input for a canvas of the given height. Every
// record gets the same pivot.
func Records(subs []SubTexture, canvasHeight int, align Alignment, custom Point) []OutputRecord {
	pivot := Pivot(align, custom)
	out := make([]OutputRecord, len(subs))
	for i, s := range subs {
		out[i] = OutputRecord{
			Name: s.Name,
			Rect: Rect{
				X:      s.X,
				Y:      FlipY(s.Y, s.Height, canvasHeight),
				Width:  s.Width,
				Height: s.Height,
			},
			Pivot:     pivot,
			Alignment: align,
		}
	}
	return out
}

// Equal reports whether two record sets are the same, index by index.
func Equal(a, b []OutputRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
