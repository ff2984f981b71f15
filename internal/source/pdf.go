package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

// PDFSource rasterizes PDF pages into PNG assets. The document handle
// held by the struct serves metadata; each render opens its own handle
// because a fitz document is not safe for concurrent page access.
type PDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

// NewPDFSource opens a PDF for page-per-asset composition.
func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	if dpi <= 0 {
		dpi = DefaultPDFDPI
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &PDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (s *PDFSource) Count() int {
	return s.doc.NumPage()
}

// Materialize renders page index at the source DPI and writes it as a
// PNG under dir. An existing file for the same page is reused.
func (s *PDFSource) Materialize(index int, dir string) (string, error) {
	if index < 0 || index >= s.doc.NumPage() {
		return "", fmt.Errorf("page index %d out of range [0,%d)", index, s.doc.NumPage())
	}

	base := strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
	out := filepath.Join(dir, indexedName(base, index))
	if _, err := os.Stat(out); err == nil {
		return out, nil
	}

	workerDoc, err := fitz.New(s.path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", s.path, err)
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(index, float64(s.dpi))
	if err != nil {
		return "", fmt.Errorf("render page %d of %s: %w", index+1, s.path, err)
	}
	if err := imaging.Save(img, out); err != nil {
		return "", fmt.Errorf("write page %d asset: %w", index+1, err)
	}
	return out, nil
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
