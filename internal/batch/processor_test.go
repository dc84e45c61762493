package batch

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plist-slicer/internal/atlas"
	"plist-slicer/internal/texture"
)

const heroPlist = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
    <key>frames</key>
    <dict>
        <key>red.png</key>
        <dict>
            <key>frame</key>
            <string>{{0,0},{4,2}}</string>
            <key>rotated</key>
            <false/>
        </dict>
        <key>fx/blue.png</key>
        <dict>
            <key>textureRect</key>
            <string>{{4,0},{6,4}}</string>
            <key>textureRotated</key>
            <true/>
        </dict>
    </dict>
</dict>
</plist>`

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
)

// writeSheet lays out a 16x8 sheet: red in (0,0)-(4,2), blue in (4,0)-(8,6).
func writeSheet(t *testing.T, dir, name, plistText string) texture.SheetRef {
	t.Helper()
	ref := texture.SheetRef{
		Image: filepath.Join(dir, name+".png"),
		Plist: filepath.Join(dir, name+".plist"),
	}
	paintSheet(t, ref.Image, red)
	if err := os.WriteFile(ref.Plist, []byte(plistText), 0644); err != nil {
		t.Fatal(err)
	}
	return ref
}

// paintSheet writes the 16x8 sheet with first in place of red.
func paintSheet(t *testing.T, path string, first color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			switch {
			case x < 4 && y < 2:
				img.SetNRGBA(x, y, first)
			case x >= 4 && x < 8 && y < 6:
				img.SetNRGBA(x, y, blue)
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestSlice(t *testing.T) {
	dir := t.TempDir()
	ref := writeSheet(t, dir, "hero", heroPlist)
	cfg := Config{
		OutputDir: filepath.Join(dir, "out"),
		Format:    "png",
		Alignment: atlas.BottomCenter,
	}

	res := Slice(cfg, ref)
	if !res.Success || res.Skipped || res.Sprites != 2 {
		t.Fatalf("first run = %+v", res)
	}

	t.Run("sprites", func(t *testing.T) {
		redImg := readPNG(t, filepath.Join(cfg.OutputDir, "hero", "red.png"))
		if redImg.Bounds().Size() != image.Pt(4, 2) {
			t.Errorf("red size = %v", redImg.Bounds().Size())
		}
		if c := color.NRGBAModel.Convert(redImg.At(3, 1)); c != red {
			t.Errorf("red pixel = %v", c)
		}

		blueImg := readPNG(t, filepath.Join(cfg.OutputDir, "hero", "fx", "blue.png"))
		if blueImg.Bounds().Size() != image.Pt(4, 6) {
			t.Errorf("blue size = %v", blueImg.Bounds().Size())
		}
		if c := color.NRGBAModel.Convert(blueImg.At(0, 5)); c != blue {
			t.Errorf("blue pixel = %v", c)
		}
	})

	t.Run("manifest", func(t *testing.T) {
		m, err := ReadManifest(filepath.Join(cfg.OutputDir, "hero"+ManifestSuffix))
		if err != nil {
			t.Fatal(err)
		}
		if m.Width != 16 || m.Height != 8 || m.Format != "png" || len(m.Sprites) != 2 {
			t.Fatalf("manifest = %+v", m)
		}
		// blue: top-left y 0, height 6 on an 8 px canvas
		b := m.Sprites[1]
		if b.Name != "fx/blue.png" || b.File != "hero/fx/blue.png" || b.Y != 2 || b.Width != 4 || b.Height != 6 {
			t.Errorf("blue entry = %+v", b)
		}
		if b.PivotX != 0.5 || b.PivotY != 0 || b.Alignment != int(atlas.BottomCenter) {
			t.Errorf("blue pivot = %+v", b)
		}
	})

	t.Run("unchanged", func(t *testing.T) {
		res := Slice(cfg, ref)
		if !res.Success || !res.Skipped {
			t.Errorf("second run = %+v", res)
		}
	})

	t.Run("forced", func(t *testing.T) {
		forced := cfg
		forced.Force = true
		res := Slice(forced, ref)
		if !res.Success || res.Skipped {
			t.Errorf("forced run = %+v", res)
		}
	})

	t.Run("realigned", func(t *testing.T) {
		moved := cfg
		moved.Alignment = atlas.Custom
		moved.Pivot = atlas.Point{X: 0.2, Y: 0.8}
		res := Slice(moved, ref)
		if !res.Success || res.Skipped {
			t.Fatalf("realigned run = %+v", res)
		}
		m, _ := ReadManifest(filepath.Join(cfg.OutputDir, "hero"+ManifestSuffix))
		if m.Sprites[0].PivotX != 0.2 || m.Sprites[0].PivotY != 0.8 {
			t.Errorf("pivot = %+v", m.Sprites[0])
		}
	})
}

func TestSliceAfterSheetEdit(t *testing.T) {
	dir := t.TempDir()
	ref := writeSheet(t, dir, "hero", heroPlist)
	cfg := Config{OutputDir: filepath.Join(dir, "out"), Format: "png"}
	if res := Slice(cfg, ref); !res.Success {
		t.Fatalf("first run = %+v", res)
	}

	green := color.NRGBA{0, 255, 0, 255}
	paintSheet(t, ref.Image, green)

	res := Slice(cfg, ref)
	if !res.Success || res.Skipped {
		t.Fatalf("run after edit = %+v", res)
	}
	img := readPNG(t, filepath.Join(cfg.OutputDir, "hero", "red.png"))
	if c := color.NRGBAModel.Convert(img.At(0, 0)); c != green {
		t.Errorf("sprite pixel = %v, want %v", c, green)
	}

	m, err := ReadManifest(filepath.Join(cfg.OutputDir, "hero"+ManifestSuffix))
	if err != nil {
		t.Fatal(err)
	}
	sum, _ := texture.Checksum(ref.Image)
	if m.Checksum != sum {
		t.Errorf("manifest checksum = %q, want %q", m.Checksum, sum)
	}
	if res := Slice(cfg, ref); !res.Skipped {
		t.Errorf("unchanged run after edit = %+v", res)
	}
}

func TestSliceMaxSizeChange(t *testing.T) {
	dir := t.TempDir()
	// A single frame that still fits once the sheet is halved.
	small := `<plist><dict><key>frames</key><dict>
<key>dot.png</key><dict><key>frame</key><string>{{0,0},{2,1}}</string></dict>
</dict></dict></plist>`
	ref := writeSheet(t, dir, "dot", small)
	cfg := Config{OutputDir: filepath.Join(dir, "out"), Format: "png"}
	if res := Slice(cfg, ref); !res.Success {
		t.Fatalf("first run = %+v", res)
	}
	cfg.MaxSize = 8
	if res := Slice(cfg, ref); !res.Success || res.Skipped {
		t.Errorf("run with a smaller canvas = %+v", res)
	}
}

func TestSliceWebP(t *testing.T) {
	dir := t.TempDir()
	ref := writeSheet(t, dir, "hero", heroPlist)
	cfg := Config{OutputDir: filepath.Join(dir, "out"), Format: "webp"}

	res := Slice(cfg, ref)
	if !res.Success {
		t.Fatalf("Slice = %+v", res)
	}
	img, err := texture.LoadSheet(filepath.Join(cfg.OutputDir, "hero", "red.webp"))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(4, 2) {
		t.Errorf("size = %v", img.Bounds().Size())
	}

	pngCfg := cfg
	pngCfg.Format = "png"
	if res := Slice(pngCfg, ref); res.Skipped {
		t.Error("format change was treated as already sliced")
	}
}

func TestSliceFailures(t *testing.T) {
	dir := t.TempDir()

	t.Run("malformed plist", func(t *testing.T) {
		broken := strings.Replace(heroPlist, "{{4,0},{6,4}}", "{{4,0},{6}}", 1)
		ref := writeSheet(t, dir, "broken", broken)
		cfg := Config{OutputDir: filepath.Join(dir, "out"), Format: "png"}
		res := Slice(cfg, ref)
		if res.Success || !strings.Contains(res.Error, "could not find any sub-textures") {
			t.Errorf("res = %+v", res)
		}
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, "broken")); !os.IsNotExist(err) {
			t.Error("output written for a malformed plist")
		}
	})

	t.Run("empty frames", func(t *testing.T) {
		ref := writeSheet(t, dir, "empty", `<plist><dict><key>frames</key><dict/></dict></plist>`)
		res := Slice(Config{OutputDir: filepath.Join(dir, "out"), Format: "png"}, ref)
		if res.Success || !strings.Contains(res.Error, "could not find any sub-textures") {
			t.Errorf("res = %+v", res)
		}
	})

	t.Run("texture too small", func(t *testing.T) {
		ref := writeSheet(t, dir, "small", heroPlist)
		cfg := Config{OutputDir: filepath.Join(dir, "out"), Format: "png", MaxSize: 4}
		res := Slice(cfg, ref)
		if res.Success {
			t.Fatal("sliced a texture that is too small")
		}
		if !strings.Contains(res.Error, "at least 8 by 6 pixels") {
			t.Errorf("error = %q", res.Error)
		}
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, "small")); !os.IsNotExist(err) {
			t.Error("output written for a small texture")
		}
	})

	t.Run("missing image", func(t *testing.T) {
		ref := texture.SheetRef{Image: filepath.Join(dir, "nope.png"), Plist: filepath.Join(dir, "hero.plist")}
		os.WriteFile(ref.Plist, []byte(heroPlist), 0644)
		if res := Slice(Config{OutputDir: dir, Format: "png"}, ref); res.Success {
			t.Error("sliced a missing image")
		}
	})
}

func TestSliceFrameClash(t *testing.T) {
	dir := t.TempDir()
	clash := `<plist><dict><key>frames</key><dict>
<key>a.png</key><dict><key>frame</key><string>{{0,0},{2,2}}</string></dict>
<key>b.png</key><dict><key>frame</key><string>{{2,0},{2,2}}</string></dict>
<key>A.jpg</key><dict><key>frame</key><string>{{4,0},{2,2}}</string></dict>
</dict></dict></plist>`
	ref := writeSheet(t, dir, "clash", clash)
	cfg := Config{OutputDir: filepath.Join(dir, "out"), Format: "webp"}

	res := Slice(cfg, ref)
	if res.Success {
		t.Fatal("sliced a sheet whose frames share a file")
	}
	if !strings.Contains(res.Error, `"a.png" and "A.jpg" both write A.webp`) {
		t.Errorf("error = %q", res.Error)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "clash")); !os.IsNotExist(err) {
		t.Error("output written for clashing frames")
	}
}

func TestRunNestedSheets(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sliced")
	for _, sub := range []string{"a", "b"} {
		os.MkdirAll(filepath.Join(dir, sub), 0755)
		writeSheet(t, filepath.Join(dir, sub), "hero", heroPlist)
	}
	sheets := texture.BuildIndex(dir, out).Sheets()
	if len(sheets) != 2 {
		t.Fatalf("indexed %+v", sheets)
	}
	cfg := Config{OutputDir: out, Format: "png", Workers: 2}

	for i, want := range []bool{false, true} {
		for _, r := range Run(cfg, sheets) {
			if !r.Success || r.Skipped != want {
				t.Errorf("run %d: %+v", i+1, r)
			}
		}
	}

	for _, sub := range []string{"a", "b"} {
		m, err := ReadManifest(filepath.Join(out, sub, "hero"+ManifestSuffix))
		if err != nil {
			t.Fatal(err)
		}
		if m.Sheet != filepath.Join(dir, sub, "hero.png") {
			t.Errorf("%s manifest sheet = %q", sub, m.Sheet)
		}
		if m.Sprites[0].File != sub+"/hero/red.png" {
			t.Errorf("%s manifest file = %q", sub, m.Sprites[0].File)
		}
		if _, err := os.Stat(filepath.Join(out, sub, "hero", "fx", "blue.png")); err != nil {
			t.Error(err)
		}
	}
}

func TestRunSharedOutputName(t *testing.T) {
	dir := t.TempDir()
	first := writeSheet(t, dir, "one", heroPlist)
	second := writeSheet(t, dir, "two", heroPlist)
	first.Key, second.Key = "hero", "Hero"

	results := Run(Config{OutputDir: filepath.Join(dir, "out"), Format: "png", Workers: 2}, []texture.SheetRef{first, second})
	if !results[0].Success {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Success || !strings.Contains(results[1].Error, "already used by "+first.Image) {
		t.Errorf("results[1] = %+v", results[1])
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	refs := []texture.SheetRef{
		writeSheet(t, dir, "a", heroPlist),
		writeSheet(t, dir, "b", `<plist><dict/></plist>`),
		writeSheet(t, dir, "c", heroPlist),
	}
	results := Run(Config{OutputDir: filepath.Join(dir, "out"), Format: "png", Workers: 2}, refs)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, want := range []bool{true, false, true} {
		if results[i].Success != want {
			t.Errorf("results[%d] = %+v", i, results[i])
		}
		if results[i].Sheet != refs[i].Image {
			t.Errorf("results[%d].Sheet = %q", i, results[i].Sheet)
		}
	}
}

func TestSpriteFile(t *testing.T) {
	tests := map[string]string{
		"hero.png":         "hero.webp",
		"hero":             "hero.webp",
		"ui/button.png":    filepath.Join("ui", "button.webp"),
		`ui\button.png`:    filepath.Join("ui", "button.webp"),
		"../../etc/passwd": filepath.Join("_", "_", "etc", "passwd.webp"),
		"/abs.png":         "abs.webp",
		"":                 "_.webp",
	}
	for in, want := range tests {
		if got := spriteFile(in, "webp"); got != want {
			t.Errorf("spriteFile(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestManifestRoundTrip(t *testing.T) {
	recs := []atlas.OutputRecord{
		{Name: "a", Rect: atlas.Rect{X: 1, Y: 2, Width: 3, Height: 4}, Pivot: atlas.Point{X: 0.1, Y: 0.7}, Alignment: atlas.Custom},
		{Name: "b", Rect: atlas.Rect{X: 5, Y: 6, Width: 7, Height: 8}, Pivot: atlas.Point{X: 1, Y: 0.5}, Alignment: atlas.RightCenter},
	}
	path := filepath.Join(t.TempDir(), "m.json")
	if err := WriteManifest(path, NewManifest("s.png", "s.plist", 64, 32, "png", recs, []string{"s/a.png", "s/b.png"})); err != nil {
		t.Fatal(err)
	}
	m, err := ReadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if !atlas.Equal(m.Records(), recs) {
		t.Errorf("Records = %+v, want %+v", m.Records(), recs)
	}
}
