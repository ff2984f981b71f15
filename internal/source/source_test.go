package source

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
}

func TestImageSourceSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.png")
	writeAsset(t, path)

	src, err := NewImageSource(path)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}
	defer src.Close()

	if src.Count() != 1 {
		t.Fatalf("count = %d, want 1", src.Count())
	}
	got, err := src.Materialize(0, dir)
	if err != nil || got != path {
		t.Errorf("Materialize = %q, %v; want original path", got, err)
	}
}

func TestImageSourceDirectorySorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "c.jpeg", "skip.txt"} {
		writeAsset(t, filepath.Join(dir, name))
	}

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}
	defer src.Close()

	if src.Count() != 3 {
		t.Fatalf("count = %d, want 3", src.Count())
	}
	want := []string{"a.jpg", "b.png", "c.jpeg"}
	for i, base := range want {
		got, err := src.Materialize(i, dir)
		if err != nil {
			t.Fatalf("Materialize(%d) failed: %v", i, err)
		}
		if filepath.Base(got) != base {
			t.Errorf("asset %d = %s, want %s", i, filepath.Base(got), base)
		}
	}

	if _, err := src.Materialize(3, dir); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestImageSourceEmptyDirectory(t *testing.T) {
	if _, err := NewImageSource(t.TempDir()); err == nil {
		t.Error("expected error for directory without assets")
	}
}

func TestOpenDispatch(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "frame.png")
	writeAsset(t, img)

	src, err := Open(img, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()
	if _, ok := src.(*ImageSource); !ok {
		t.Errorf("Open(%s) = %T, want *ImageSource", img, src)
	}

	if _, err := Open(filepath.Join(dir, "missing.pdf"), 0); err == nil {
		t.Error("expected error for missing input")
	}
}
