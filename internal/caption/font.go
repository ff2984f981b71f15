package caption

import (
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"
)

// FontFamilyName parses the caption font at path and returns its family
// name for the markup's font-family reference. Parsing at construction
// time surfaces a missing or corrupt font before any composition runs.
func FontFamilyName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read caption font: %w", err)
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parse caption font %s: %w", path, err)
	}

	name, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return "", fmt.Errorf("caption font %s has no family name: %w", path, err)
	}
	return name, nil
}
