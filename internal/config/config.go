package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"plist-slicer/internal/atlas"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

// Output formats for sliced sprites.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
)

// Config holds the slicing settings.
type Config struct {
	// Paths
	SheetDir  string `json:"sheet_dir"`
	OutputDir string `json:"output_dir"`

	// Slicing settings
	Format        string    `json:"format"`
	Alignment     string    `json:"alignment"`
	CustomPivot   []float64 `json:"custom_pivot"`
	MaxSize       int       `json:"max_size"`
	PlistEncoding string    `json:"plist_encoding"`
	Workers       int       `json:"workers"`
	Force         bool      `json:"force"`
}

// Load reads a JSON or YAML (.yaml, .yml) config file, validates it against
// the config schema and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Config{}, fmt.Errorf("config: validate %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return json.Marshal(doc)
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SheetDir  string
	OutputDir string
	Format    string
	Alignment string
	Pivot     []float64
	Encoding  string
	Workers   int

	// MaxSize and Force are nil unless given on the command line, so that
	// an explicit 0 or false still overrides the config file.
	MaxSize *int
	Force   *bool
}

// Resolve applies flag overrides and fills in defaults.
// CLI flags take priority when non-zero/non-empty, or non-nil for the
// pointer fields.
func (c *Config) Resolve(flags Flags) {
	if flags.SheetDir != "" {
		c.SheetDir = flags.SheetDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Alignment != "" {
		c.Alignment = flags.Alignment
	}
	if len(flags.Pivot) == 2 {
		c.CustomPivot = flags.Pivot
	}
	if flags.MaxSize != nil {
		c.MaxSize = *flags.MaxSize
	}
	if flags.Encoding != "" {
		c.PlistEncoding = flags.Encoding
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Force != nil {
		c.Force = *flags.Force
	}

	if c.SheetDir == "" {
		c.SheetDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.SheetDir, "sliced")
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.SheetDir, c.OutputDir)
	}

	if c.Format == "" {
		c.Format = FormatWebP
	}
	c.Format = strings.ToLower(c.Format)
	if c.Alignment == "" {
		c.Alignment = atlas.Center.String()
	}
	if len(c.CustomPivot) != 2 {
		c.CustomPivot = []float64{0.5, 0.5}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate checks settings that the schema cannot: the alignment name and
// the output format after flag overrides.
func (c *Config) Validate() error {
	if _, err := c.Align(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Format != FormatWebP && c.Format != FormatPNG {
		return fmt.Errorf("config: unknown format %q (want %s or %s)", c.Format, FormatWebP, FormatPNG)
	}
	if len(c.CustomPivot) != 2 {
		return fmt.Errorf("config: custom_pivot needs 2 values, got %d", len(c.CustomPivot))
	}
	return nil
}

// Align returns the configured alignment.
func (c *Config) Align() (atlas.Alignment, error) {
	return atlas.ParseAlignment(c.Alignment)
}

// Pivot returns the custom pivot used with the Custom alignment.
func (c *Config) Pivot() atlas.Point {
	if len(c.CustomPivot) != 2 {
		return atlas.Point{}
	}
	return atlas.Point{X: c.CustomPivot[0], Y: c.CustomPivot[1]}
}
