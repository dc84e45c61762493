// cmd/slice cuts Cocos2d-x sprite sheets into sprite files using their plists.
//
// Usage:
//
//	go run ./cmd/slice -dir assets/sheets
//	go run ./cmd/slice -sheet assets/hero.png -align bottom-center -format png
//
// Every image with a sibling .plist (or .plist.gz / .plist.zst) is sliced into
// <output>/<path>/<frame>.<format>, with <output>/<path>.slices.json holding
// the rectangles and pivots that were used. <path> is the image's path under
// -dir without its extension.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"plist-slicer/internal/batch"
	"plist-slicer/internal/config"
	"plist-slicer/internal/source"
	"plist-slicer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .yaml)")
	sheetDir := flag.String("dir", "", "Directory scanned for sheets (default: .)")
	sheet := flag.String("sheet", "", "Slice only this sheet image")
	outputDir := flag.String("output", "", "Output directory (default: <dir>/sliced)")
	format := flag.String("format", "", "Sprite format: webp or png (default: webp)")
	align := flag.String("align", "", "Pivot alignment, e.g. center, top-left, custom (default: center)")
	pivot := flag.String("pivot", "", "Custom pivot as x,y (used with -align custom)")
	maxSize := flag.Int("max-size", 0, "Downscale sheets larger than this before slicing (default: no limit)")
	encoding := flag.String("encoding", "", "Plist text encoding (default: from XML declaration, else UTF-8)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	force := flag.Bool("force", false, "Slice even when the output already matches the plist")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	customPivot, err := parsePivot(*pivot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -pivot: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	flags := config.Flags{
		SheetDir:  *sheetDir,
		OutputDir: *outputDir,
		Format:    *format,
		Alignment: *align,
		Pivot:     customPivot,
		Encoding:  *encoding,
		Workers:   *workers,
	}
	set := explicitFlags(flag.CommandLine)
	if set["max-size"] {
		flags.MaxSize = maxSize
	}
	if set["force"] {
		flags.Force = force
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	alignment, _ := cfg.Align()

	// Collect sheets
	var sheets []texture.SheetRef
	if *sheet != "" {
		plistPath, ok := source.Find(*sheet)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no plist found for %s (expected %s)\n", *sheet, source.PlistPathFor(*sheet))
			os.Exit(1)
		}
		sheets = []texture.SheetRef{{Image: *sheet, Plist: plistPath}}
	} else {
		idx := texture.BuildIndex(cfg.SheetDir, cfg.OutputDir)
		sheets = idx.Sheets()
	}

	if len(sheets) == 0 {
		fmt.Println("No sheets with a plist to slice.")
		os.Exit(0)
	}

	fmt.Printf("Cocos2d-x plist slicer → %s\n", strings.ToUpper(cfg.Format))
	fmt.Printf("Sheets: %d, Workers: %d, Pivot: %s\n", len(sheets), cfg.Workers, alignment)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		Alignment: alignment,
		Pivot:     cfg.Pivot(),
		MaxSize:   cfg.MaxSize,
		Encoding:  cfg.PlistEncoding,
		Workers:   cfg.Workers,
		Force:     cfg.Force,
		Progress:  os.Stdout,
	}, sheets)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	sliced, skipped, sprites := 0, 0, 0
	var failed []batch.Result
	for _, r := range results {
		switch {
		case !r.Success:
			failed = append(failed, r)
		case r.Skipped:
			skipped++
		default:
			sliced++
			sprites += r.Sprites
		}
	}

	fmt.Printf("Sliced: %d/%d sheets (%d sprites)\n", sliced, len(sheets), sprites)
	if skipped > 0 {
		fmt.Printf("Already sliced according to their plist: %d\n", skipped)
	}

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := min(20, len(failed))
		for _, r := range failed[:limit] {
			fmt.Printf("  %s: %s\n", r.Sheet, r.Error)
		}
		os.Exit(1)
	}
}

// explicitFlags returns the names of the flags given on the command line.
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// parsePivot reads "x,y". An empty string means no override.
func parsePivot(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("want x,y, got %q", s)
	}
	p := make([]float64, 2)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		p[i] = v
	}
	return p, nil
}
