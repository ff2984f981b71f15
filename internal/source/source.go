// Package source resolves asset inputs for composition. An asset can be
// a single image, a directory of images, or a PDF whose pages are
// rasterized on demand. Every asset is materialized as a PNG file on
// disk so the engine sees one uniform input kind.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPDFDPI is the rasterization density for PDF pages. 144 keeps a
// letter-sized page comfortably above the asset zone's pixel needs.
const DefaultPDFDPI = 144

// AssetSource enumerates the assets behind one input path.
type AssetSource interface {
	// Count reports how many assets the source holds.
	Count() int
	// Materialize ensures asset index exists as a PNG file under dir and
	// returns its path. Sources backed by ready image files may return
	// the original path and ignore dir.
	Materialize(index int, dir string) (string, error)
	// Close releases any resources held by the source.
	Close() error
}

// Open picks a source implementation from the path: a .pdf file becomes
// a page-per-asset PDFSource, anything else is treated as an image file
// or a directory of images.
func Open(path string, dpi int) (AssetSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFSource(path, dpi)
	}
	return NewImageSource(path)
}

func indexedName(base string, index int) string {
	return fmt.Sprintf("%s_%03d.png", base, index+1)
}
