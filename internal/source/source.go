package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Plist suffixes probed next to a sheet image, in priority order.
var plistSuffixes = []string{".plist", ".plist.gz", ".plist.zst"}

// PlistPathFor returns the uncompressed plist path that belongs to an image:
// the image path with its extension replaced.
func PlistPathFor(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + plistSuffixes[0]
}

// Find returns the first existing plist next to imagePath.
func Find(imagePath string) (string, bool) {
	stem := strings.TrimSuffix(imagePath, filepath.Ext(imagePath))
	for _, suffix := range plistSuffixes {
		p := stem + suffix
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// ReadText reads a plist file and returns its text as UTF-8.
//
// Files ending in .gz or .zst are decompressed first. label names the text
// encoding (e.g. "windows-1252"); when empty, the encoding declared in the XML
// prolog is used, falling back to UTF-8. A byte order mark always wins.
func ReadText(path, label string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("source: read %s: %w", path, err)
	}

	raw, err = decompress(path, raw)
	if err != nil {
		return "", fmt.Errorf("source: decompress %s: %w", path, err)
	}

	text, err := Decode(raw, label)
	if err != nil {
		return "", fmt.Errorf("source: decode %s: %w", path, err)
	}
	return text, nil
}

func decompress(path string, raw []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case ".zst":
		dec, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return io.ReadAll(dec)
	}
	return raw, nil
}

var declRe = regexp.MustCompile(`^\s*<\?xml[^>]*\bencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// Decode converts raw bytes to UTF-8 text using label, the XML declaration or
// UTF-8, in that order.
func Decode(raw []byte, label string) (string, error) {
	if label == "" {
		if m := declRe.FindSubmatch(raw); m != nil {
			label = string(m[1])
		}
	}

	var enc encoding.Encoding = unicode.UTF8
	if label != "" {
		e, name := charset.Lookup(label)
		if e == nil {
			return "", fmt.Errorf("unknown encoding %q", label)
		}
		if name != "utf-8" {
			enc = e
		}
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
