package batch

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"plist-slicer/internal/atlas"
	"plist-slicer/internal/source"
	"plist-slicer/internal/texture"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// ManifestSuffix is appended to the sheet name for its manifest file.
const ManifestSuffix = ".slices.json"

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir string
	Format    string
	Alignment atlas.Alignment
	Pivot     atlas.Point
	MaxSize   int
	Encoding  string
	Workers   int
	Force     bool

	// Progress receives periodic progress lines; nil disables them.
	Progress io.Writer
}

// Result holds the outcome of processing one sheet.
type Result struct {
	Sheet   string
	Sprites int
	Success bool
	// Skipped is set when the existing output already matches the plist
	// and the sheet image.
	Skipped bool
	Error   string
}

// Run slices every sheet on cfg.Workers goroutines and returns one Result
// per sheet, in input order. Sheets whose output name is already taken by an
// earlier sheet fail without touching the output.
func Run(cfg Config, sheets []texture.SheetRef) []Result {
	results := make([]Result, len(sheets))
	var finished atomic.Int64

	stop := make(chan struct{})
	if cfg.Progress != nil {
		go reportProgress(cfg.Progress, len(sheets), &finished, stop)
	}

	owner := make(map[string]string, len(sheets))
	jobs := make(chan int, max(1, cfg.Workers)*2)
	var wg sync.WaitGroup
	for range max(1, cfg.Workers) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = Slice(cfg, sheets[i])
				finished.Add(1)
			}
		}()
	}

	for i, ref := range sheets {
		key := strings.ToLower(ref.Name())
		if first, taken := owner[key]; taken {
			results[i] = Result{
				Sheet: ref.Image,
				Error: fmt.Sprintf("output %s is already used by %s", ref.Name(), first),
			}
			finished.Add(1)
			continue
		}
		owner[key] = ref.Image
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(stop)
	return results
}

// reportProgress prints a line every two seconds until stop is closed.
func reportProgress(w io.Writer, total int, finished *atomic.Int64, stop <-chan struct{}) {
	start := time.Now()
	tick := time.NewTicker(2 * time.Second)
	defer tick.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			if n := finished.Load(); n > 0 {
				fmt.Fprintf(w, "  [%d/%d] %.1f sheets/sec\n", n, total, float64(n)/time.Since(start).Seconds())
			}
		}
	}
}

// Slice cuts one sheet into <OutputDir>/<ref.Name()>/ and writes its manifest
// next to that directory. Nothing is written when the plist cannot be parsed,
// the texture is too small, two frames map to one file, or the previous
// manifest already matches.
func Slice(cfg Config, ref texture.SheetRef) Result {
	res := Result{Sheet: ref.Image}
	fail := func(format string, args ...any) Result {
		res.Error = fmt.Sprintf(format, args...)
		return res
	}

	text, err := source.ReadText(ref.Plist, cfg.Encoding)
	if err != nil {
		return fail("%v", err)
	}
	sheet, err := atlas.NewSheet(text)
	if err != nil {
		return fail("could not find any sub-textures: %v", err)
	}
	if sheet.Empty() {
		return fail("could not find any sub-textures in %s", ref.Plist)
	}

	img, err := texture.LoadSheet(ref.Image)
	if err != nil {
		return fail("%v", err)
	}
	img = texture.Limit(img, cfg.MaxSize)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	recs, err := sheet.Records(width, height, cfg.Alignment, cfg.Pivot)
	if err != nil {
		var short *atlas.InsufficientCanvasError
		if errors.As(err, &short) {
			s := short.Shortfall()
			return fail("texture size too small: it needs to be at least %d by %d pixels, is %d by %d (short %d by %d)",
				short.Required.Width, short.Required.Height, width, height, s.Width, s.Height)
		}
		return fail("%v", err)
	}
	res.Sprites = len(recs)

	files, err := spriteFiles(recs, cfg.Format)
	if err != nil {
		return fail("%v", err)
	}
	sum, err := texture.Checksum(ref.Image)
	if err != nil {
		return fail("%v", err)
	}

	name := filepath.FromSlash(ref.Name())
	manifestPath := filepath.Join(cfg.OutputDir, name+ManifestSuffix)
	if !cfg.Force {
		if prev, err := ReadManifest(manifestPath); err == nil && prev.matches(sum, width, height, cfg.Format, recs) {
			res.Success = true
			res.Skipped = true
			return res
		}
	}

	spriteDir := filepath.Join(cfg.OutputDir, name)
	if err := os.MkdirAll(spriteDir, 0755); err != nil {
		return fail("%v", err)
	}

	for i, r := range recs {
		out := filepath.Join(spriteDir, files[i])
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fail("%v", err)
		}
		if err := writeSprite(out, Crop(img, r, height), cfg.Format); err != nil {
			return fail("sprite %s: %v", r.Name, err)
		}
		files[i] = filepath.ToSlash(filepath.Join(name, files[i]))
	}

	m := NewManifest(ref.Image, ref.Plist, width, height, cfg.Format, recs, files)
	m.Checksum = sum
	if err := WriteManifest(manifestPath, m); err != nil {
		return fail("manifest write failed: %v", err)
	}

	res.Success = true
	return res
}

// Crop copies the pixels of one record out of the sheet. The record's
// bottom-left-origin rectangle is flipped back to image rows.
func Crop(img *image.NRGBA, r atlas.OutputRecord, canvasHeight int) *image.NRGBA {
	top := atlas.FlipY(r.Rect.Y, r.Rect.Height, canvasHeight)
	src := image.Rect(r.Rect.X, top, r.Rect.X+r.Rect.Width, top+r.Rect.Height)
	dst := image.NewNRGBA(image.Rect(0, 0, r.Rect.Width, r.Rect.Height))
	draw.Copy(dst, image.Point{}, img, src, draw.Src, nil)
	return dst
}

// spriteFile turns a frame name into a relative file path with the output
// extension. Frame names may contain directories but never escape the sheet
// directory.
func spriteFile(frameName, format string) string {
	p := strings.ReplaceAll(frameName, "\\", "/")
	var parts []string
	for _, part := range strings.Split(p, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			part = "_"
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		parts = []string{"_"}
	}
	rel := filepath.Join(parts...)
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + "." + format
}

// spriteFiles maps every record to its sprite file. Two frames that land on
// the same file (a.png and a.jpg, or names differing only in case) are an
// error, so no sprite is silently overwritten.
func spriteFiles(recs []atlas.OutputRecord, format string) ([]string, error) {
	files := make([]string, len(recs))
	claimed := make(map[string]string, len(recs))
	for i, r := range recs {
		files[i] = spriteFile(r.Name, format)
		key := strings.ToLower(files[i])
		if prev, ok := claimed[key]; ok {
			return nil, fmt.Errorf("frames %q and %q both write %s", prev, r.Name, filepath.ToSlash(files[i]))
		}
		claimed[key] = r.Name
	}
	return files, nil
}

func writeSprite(path string, img image.Image, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "png":
		err = png.Encode(f, img)
	default:
		err = nativewebp.Encode(f, img, nil)
	}
	if err != nil {
		return fmt.Errorf("%s encode: %w", format, err)
	}
	return f.Close()
}
