package atlas

import (
	"fmt"
	"strconv"
	"strings"

	"plist-slicer/internal/plist"
)

// Accepted spellings, in priority order. Newer packers write the
// texture-prefixed keys.
var (
	rotatedKeys = []string{"textureRotated", "rotated"}
	rectKeys    = []string{"textureRect", "frame"}
)

// ParseFrames reads every frame of the "frames" table in document order.
// Any malformed frame fails the whole parse; no partial result is returned.
func ParseFrames(text string) ([]FrameEntry, error) {
	doc, err := plist.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("atlas: %w: %v", ErrMalformedDocument, err)
	}
	root, err := doc.Root()
	if err != nil {
		return nil, fmt.Errorf("atlas: %w: %v", ErrMalformedDocument, err)
	}
	framesNode, ok := root.Lookup("frames")
	if !ok {
		return nil, fmt.Errorf("atlas: %w: no \"frames\" table", ErrMalformedDocument)
	}
	frames, err := framesNode.Dict()
	if err != nil {
		return nil, fmt.Errorf("atlas: %w: \"frames\" is not a dict", ErrMalformedDocument)
	}

	entries := make([]FrameEntry, 0, frames.Len())
	for _, e := range frames.Entries() {
		entry, err := parseFrame(e.Key, e.Value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseFrame(name string, value *plist.Node) (FrameEntry, error) {
	fields, err := value.Dict()
	if err != nil {
		return FrameEntry{}, fmt.Errorf("atlas: frame %q: %w: value is <%s>, not a dict", name, ErrMalformedDocument, value.Kind)
	}

	_, rotNode, ok := fields.First(rotatedKeys...)
	if !ok {
		return FrameEntry{}, fmt.Errorf("atlas: frame %q: %w: rotation flag", name, ErrMissingField)
	}
	// Only <true/> marks a rotated frame.
	rotated, _ := rotNode.Bool()

	_, rectNode, ok := fields.First(rectKeys...)
	if !ok {
		return FrameEntry{}, fmt.Errorf("atlas: frame %q: %w: rectangle", name, ErrMissingField)
	}
	rect, err := ParseRect(rectNode.Text)
	if err != nil {
		return FrameEntry{}, fmt.Errorf("atlas: frame %q: %w", name, err)
	}

	return FrameEntry{Name: name, Rect: rect, Rotated: rotated}, nil
}

// ParseRect reads "{{x,y},{w,h}}" into x, y, w, h. Braces are ignored, so any
// grouping of exactly four comma-separated integers is accepted.
func ParseRect(text string) ([4]int, error) {
	var rect [4]int
	stripped := strings.NewReplacer("{", " ", "}", " ").Replace(text)
	parts := strings.Split(stripped, ",")
	if len(parts) != len(rect) {
		return rect, fmt.Errorf("%w: %q has %d components, want 4", ErrMalformedRect, text, len(parts))
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return rect, fmt.Errorf("%w: %q: %v", ErrMalformedRect, text, err)
		}
		rect[i] = v
	}
	return rect, nil
}
