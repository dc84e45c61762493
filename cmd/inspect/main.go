// cmd/inspect prints what a plist describes without slicing anything.
//
// Usage:
//
//	go run ./cmd/inspect hero.plist
//	go run ./cmd/inspect -image hero.png -align top-left hero.plist
//	go run ./cmd/inspect -size 512x256 hero.plist.gz
//	go run ./cmd/inspect -image hero.png -max-size 1024 hero.plist
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"plist-slicer/internal/atlas"
	"plist-slicer/internal/source"
	"plist-slicer/internal/texture"
)

func main() {
	imagePath := flag.String("image", "", "Sheet image to check the plist against")
	size := flag.String("size", "", "Canvas size WxH to check the plist against")
	align := flag.String("align", "center", "Pivot alignment for the printed records")
	pivotX := flag.Float64("pivot-x", 0.5, "Custom pivot X (with -align custom)")
	pivotY := flag.Float64("pivot-y", 0.5, "Custom pivot Y (with -align custom)")
	encoding := flag.String("encoding", "", "Plist text encoding")
	maxSize := flag.Int("max-size", 0, "Check against the sheet downscaled to this size, as cmd/slice does")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [flags] <file.plist>")
		os.Exit(2)
	}
	plistPath := flag.Arg(0)

	alignment, err := atlas.ParseAlignment(*align)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	text, err := source.ReadText(plistPath, *encoding)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	sheet, err := atlas.NewSheet(text)
	if err != nil {
		fmt.Printf("Could not find any sub-textures: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Frames: %d, Required canvas: %dx%d\n", len(sheet.SubTextures), sheet.Required.Width, sheet.Required.Height)
	for i, s := range sheet.SubTextures {
		fmt.Printf("  [%d] %-32s x=%-5d y=%-5d %dx%d\n", i, s.Name, s.X, s.Y, s.Width, s.Height)
	}

	if *imagePath == "" && *size == "" {
		return
	}
	width, height, err := canvasSize(*imagePath, *size, *maxSize)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	recs, err := sheet.Records(width, height, alignment, atlas.Point{X: *pivotX, Y: *pivotY})
	var short *atlas.InsufficientCanvasError
	if errors.As(err, &short) {
		s := short.Shortfall()
		fmt.Printf("Texture size too small. It needs to be at least %d by %d pixels (short %d by %d).\n",
			short.Required.Width, short.Required.Height, s.Width, s.Height)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nCanvas %dx%d, pivot %s\n", width, height, alignment)
	for _, r := range recs {
		fmt.Printf("  %-32s rect=(%d,%d %dx%d) pivot=(%.3g,%.3g)\n",
			r.Name, r.Rect.X, r.Rect.Y, r.Rect.Width, r.Rect.Height, r.Pivot.X, r.Pivot.Y)
	}
}

// canvasSize is the size the plist is checked against: the image header's
// (or -size's) dimensions after the same max-size clamp cmd/slice applies.
func canvasSize(imagePath, size string, maxSize int) (int, int, error) {
	var (
		w, h int
		err  error
	)
	if imagePath != "" {
		w, h, err = texture.Size(imagePath)
	} else {
		w, h, err = parseSize(size)
	}
	if err != nil {
		return 0, 0, err
	}
	cw, ch := texture.LimitSize(w, h, maxSize)
	if cw != w || ch != h {
		fmt.Printf("Sheet %dx%d clamped to %dx%d by -max-size %d\n", w, h, cw, ch, maxSize)
	}
	return cw, ch, nil
}

func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	return width, height, nil
}
