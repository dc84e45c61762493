package texture

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"plist-slicer/internal/source"
)

// SheetRef pairs a sheet image with the plist that describes it.
type SheetRef struct {
	Image string
	Plist string
	// Key is the slash-separated output name. BuildIndex sets it to the image
	// path relative to the scanned directory; empty means Name falls back to
	// the image's base name.
	Key string
}

// Name is the output name of the sheet: its Key, or the image file name
// without its extension.
func (r SheetRef) Name() string {
	if r.Key != "" {
		return r.Key
	}
	base := filepath.Base(r.Image)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Index holds the sliceable sheets found under a directory.
type Index struct {
	sheets []SheetRef
}

// BuildIndex walks dir for images that have a plist next to them. Images
// without one are not sliceable and are left out. skip names a directory
// (typically the output directory) that is not descended into.
//
// Each sheet is keyed by its path relative to dir without the extension, so
// a/hero.png and b/hero.png slice into separate outputs. Images in the same
// directory that share a stem (hero.png and hero.tga) keep their extension
// in the key: hero_png and hero_tga.
func BuildIndex(dir, skip string) *Index {
	idx := &Index{}
	skip = filepath.Clean(skip)
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skip != "." && filepath.Clean(path) == skip {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsImage(path) {
			return nil
		}
		if plistPath, ok := source.Find(path); ok {
			idx.sheets = append(idx.sheets, SheetRef{Image: path, Plist: plistPath, Key: relKey(dir, path)})
		}
		return nil
	})
	sort.Slice(idx.sheets, func(i, j int) bool { return idx.sheets[i].Image < idx.sheets[j].Image })

	seen := make(map[string]int, len(idx.sheets))
	for _, s := range idx.sheets {
		seen[strings.ToLower(s.Key)]++
	}
	for i, s := range idx.sheets {
		if seen[strings.ToLower(s.Key)] > 1 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(s.Image), "."))
			idx.sheets[i].Key = s.Key + "_" + ext
		}
	}
	return idx
}

func relKey(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// Sheets returns the indexed sheets sorted by image path.
func (idx *Index) Sheets() []SheetRef {
	return idx.sheets
}

// Len returns the number of indexed sheets.
func (idx *Index) Len() int {
	return len(idx.sheets)
}
