package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"plist-slicer/internal/atlas"
)

// ManifestEntry represents one sliced sprite in the output manifest.
// Y is measured from the bottom edge of the sheet.
type ManifestEntry struct {
	Name      string  `json:"name"`
	File      string  `json:"file"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	PivotX    float64 `json:"pivot_x"`
	PivotY    float64 `json:"pivot_y"`
	Alignment int     `json:"alignment"`
}

// Manifest describes how one sheet was sliced.
type Manifest struct {
	Sheet string `json:"sheet"`
	Plist string `json:"plist"`

	// Checksum is the hex SHA-256 of the sheet image the sprites were cut from.
	Checksum string          `json:"checksum"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Format   string          `json:"format"`
	Sprites  []ManifestEntry `json:"sprites"`
}

// NewManifest builds a manifest from output records. files holds the file
// written for each record, by index.
func NewManifest(sheet, plistPath string, width, height int, format string, recs []atlas.OutputRecord, files []string) Manifest {
	m := Manifest{
		Sheet:   sheet,
		Plist:   plistPath,
		Width:   width,
		Height:  height,
		Format:  format,
		Sprites: make([]ManifestEntry, len(recs)),
	}
	for i, r := range recs {
		m.Sprites[i] = ManifestEntry{
			Name:      r.Name,
			File:      files[i],
			X:         r.Rect.X,
			Y:         r.Rect.Y,
			Width:     r.Rect.Width,
			Height:    r.Rect.Height,
			PivotX:    r.Pivot.X,
			PivotY:    r.Pivot.Y,
			Alignment: int(r.Alignment),
		}
	}
	return m
}

// matches reports whether slicing again would write the same sprites: same
// image bytes, same (clamped) canvas, same format and same records.
func (m Manifest) matches(checksum string, width, height int, format string, recs []atlas.OutputRecord) bool {
	return m.Checksum != "" && m.Checksum == checksum &&
		m.Width == width && m.Height == height &&
		m.Format == format &&
		atlas.Equal(m.Records(), recs)
}

// Records converts the manifest back to the records it was written from.
func (m Manifest) Records() []atlas.OutputRecord {
	recs := make([]atlas.OutputRecord, len(m.Sprites))
	for i, s := range m.Sprites {
		recs[i] = atlas.OutputRecord{
			Name:      s.Name,
			Rect:      atlas.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height},
			Pivot:     atlas.Point{X: s.PivotX, Y: s.PivotY},
			Alignment: atlas.Alignment(s.Alignment),
		}
	}
	return recs
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("batch: parse manifest %s: %w", path, err)
	}
	return m, nil
}
