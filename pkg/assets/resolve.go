// Package assets locates and decodes the GLB containers used for level
// collision geometry and rigged character models.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolve locates an asset file, checking common locations in order:
// the path as given, a "resources" directory in the working directory,
// next to the running executable, a "resources" directory next to the
// executable, and finally a development-tree fallback one level up.
func Resolve(filename string) (string, error) {
	if fileExists(filename) {
		return filename, nil
	}

	p := filepath.Join("resources", filename)
	if fileExists(p) {
		return p, nil
	}

	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		p = filepath.Join(dir, filename)
		if fileExists(p) {
			return p, nil
		}
		p = filepath.Join(dir, "resources", filename)
		if fileExists(p) {
			return p, nil
		}
	}

	p = filepath.Join("..", "resources", filename)
	if fileExists(p) {
		return p, nil
	}

	cwd, _ := os.Getwd()
	return "", fmt.Errorf("asset %q not found (cwd %q, checked resources and executable dir)", filename, cwd)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
