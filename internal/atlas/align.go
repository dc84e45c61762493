package atlas

import (
	"fmt"
	"strings"
)

// Alignment selects the pivot of every sliced sprite. Values follow the
// numbering the sprite importer stores.
type Alignment int

const (
	Center Alignment = iota
	TopLeft
	TopCenter
	TopRight
	LeftCenter
	RightCenter
	BottomLeft
	BottomCenter
	BottomRight
	Custom
)

var alignmentNames = [...]string{
	Center:       "Center",
	TopLeft:      "TopLeft",
	TopCenter:    "TopCenter",
	TopRight:     "TopRight",
	LeftCenter:   "LeftCenter",
	RightCenter:  "RightCenter",
	BottomLeft:   "BottomLeft",
	BottomCenter: "BottomCenter",
	BottomRight:  "BottomRight",
	Custom:       "Custom",
}

var pivots = [...]Point{
	Center:       {0.5, 0.5},
	TopLeft:      {0, 1},
	TopCenter:    {0.5, 1},
	TopRight:     {1, 1},
	LeftCenter:   {0, 0.5},
	RightCenter:  {1, 0.5},
	BottomLeft:   {0, 0},
	BottomCenter: {0.5, 0},
	BottomRight:  {1, 0},
}

func (a Alignment) String() string {
	if a < 0 || int(a) >= len(alignmentNames) {
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
	return alignmentNames[a]
}

// Pivot maps an alignment to its unit-square anchor. Custom returns custom
// unchanged; values outside the enumeration give the origin.
func Pivot(a Alignment, custom Point) Point {
	if a == Custom {
		return custom
	}
	if a < 0 || int(a) >= len(pivots) {
		return Point{}
	}
	return pivots[a]
}

// ParseAlignment accepts names such as "TopLeft", "top-left" or "top_left".
func ParseAlignment(s string) (Alignment, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for i, name := range alignmentNames {
		if strings.ToLower(name) == norm {
			return Alignment(i), nil
		}
	}
	return 0, fmt.Errorf("atlas: unknown alignment %q", s)
}
