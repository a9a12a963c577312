// Package slugs derives default bag names and titles for imported files.
package slugs

import (
	"path/filepath"
	"strings"

	goslug "github.com/gosimple/slug"
)

// BagName returns a bag name for entities imported from dir: the slug of
// the directory's base name, or "default" when nothing is left.
func BagName(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	if base == "." || base == string(filepath.Separator) {
		return "default"
	}
	slugged := goslug.Make(base)
	if slugged == "" {
		return "default"
	}
	return slugged
}

// TitleFromFilename returns the title for a file that does not declare
// one: its base name without extension. Titles keep their case.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
