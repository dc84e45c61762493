package atlas

// FrameEntry is one frame as read from the "frames" table, before the
// rotation is resolved.
type FrameEntry struct {
	Name string
	// Rect is x, y and the two packed dimensions, in source order.
	Rect    [4]int
	Rotated bool
}

// SubTexture is a frame in top-left-origin texture space with its unrotated
// width and height.
type SubTexture struct {
	Name   string
	X, Y   int
	Width  int
	Height int
}

// Rect is an axis-aligned rectangle in bottom-left-origin space.
type Rect struct {
	X, Y   int
	Width  int
	Height int
}

// Point is a 2D point; pivots live in the unit square.
type Point struct {
	X, Y float64
}

// OutputRecord is what the slicer receives for one sprite.
type OutputRecord struct {
	Name      string
	Rect      Rect
	Pivot     Point
	Alignment Alignment
}
