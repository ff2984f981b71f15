package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImageSource serves assets that already exist as image files: either a
// single file or every supported image in a directory, sorted by name.
type ImageSource struct {
	paths []string
}

// NewImageSource builds a source from a file or directory path.
func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".png", ".jpg", ".jpeg":
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
		if len(paths) == 0 {
			return nil, fmt.Errorf("no image assets in %s", path)
		}
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) Count() int {
	return len(s.paths)
}

// Materialize returns the original file path; the engine decodes image
// files directly, so no copy is needed.
func (s *ImageSource) Materialize(index int, dir string) (string, error) {
	if index < 0 || index >= len(s.paths) {
		return "", fmt.Errorf("asset index %d out of range [0,%d)", index, len(s.paths))
	}
	return s.paths[index], nil
}

func (s *ImageSource) Close() error {
	return nil
}
