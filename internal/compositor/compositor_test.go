package compositor

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/storyframe/internal/geometry"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestFlattenProducesCanvas(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "bg.png")
	asset := filepath.Join(dir, "asset.png")
	writePNG(t, bg, 640, 480, color.NRGBA{R: 20, G: 20, B: 20, A: 255})
	writePNG(t, asset, 1200, 800, color.NRGBA{R: 250, G: 250, B: 250, A: 255})

	out, err := New(nil).Flatten(bg, asset)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if out.Bounds().Dx() != geometry.CanvasWidth || out.Bounds().Dy() != geometry.CanvasHeight {
		t.Fatalf("canvas = %v, want %dx%d", out.Bounds(), geometry.CanvasWidth, geometry.CanvasHeight)
	}

	// Landscape 1200x800 lands at 756x504 @ (162,708): inside is bright,
	// outside is the dark background.
	inside := out.NRGBAAt(540, 960)
	if inside.R < 200 {
		t.Errorf("asset center pixel = %v, want bright", inside)
	}
	above := out.NRGBAAt(540, 600) // above the placement, below the top band
	if above.R > 100 {
		t.Errorf("pixel above asset = %v, want dark background", above)
	}
	left := out.NRGBAAt(80, 960) // left of the placement
	if left.R > 100 {
		t.Errorf("pixel left of asset = %v, want dark background", left)
	}
}

func TestFlattenDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writePNG(t, good, 10, 10, color.NRGBA{A: 255})

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(nil).Flatten(bad, good); err == nil {
		t.Error("expected error for undecodable background")
	}
	if _, err := New(nil).Flatten(good, bad); err == nil {
		t.Error("expected error for undecodable asset")
	}
}

func TestWriteCanonicalAlwaysPNG(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))

	// A .jpg output path still receives PNG bytes.
	path := filepath.Join(dir, "out.jpg")
	if err := New(nil).WriteCanonical(img, path); err != nil {
		t.Fatalf("WriteCanonical failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("output is not PNG: %v", err)
	}
}

func TestWriteCanonicalCreateError(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	err := New(nil).WriteCanonical(img, filepath.Join(t.TempDir(), "missing", "out.png"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}
